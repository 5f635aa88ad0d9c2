package setup

import (
	"Reviv/internal/config"
	"Reviv/internal/database"
	"Reviv/internal/repositories"
	"Reviv/internal/repositories/postgres"
	"database/sql"

	"github.com/The127/ioc"
)

func Repositories(dc *ioc.DependencyCollection, mode config.DatabaseMode) {
	switch mode {
	case config.DatabaseModePostgres:
		postgresRepositories(dc)

	default:
		panic("database mode missing or not supported")
	}
}

func postgresRepositories(dc *ioc.DependencyCollection) {
	ioc.RegisterSingleton(dc, func(dp *ioc.DependencyProvider) *sql.DB {
		return database.ConnectToDatabase()
	})

	ioc.RegisterScoped(dc, func(dp *ioc.DependencyProvider) database.DbService {
		return database.NewDbService(dp)
	})
	ioc.RegisterCloseHandler(dc, func(dbService database.DbService) error {
		return dbService.Close()
	})

	ioc.RegisterScoped(dc, func(dp *ioc.DependencyProvider) repositories.PrincipalRepository {
		return postgres.NewPrincipalRepository()
	})
	ioc.RegisterScoped(dc, func(dp *ioc.DependencyProvider) repositories.PasskeyRepository {
		return postgres.NewPasskeyRepository()
	})
}
