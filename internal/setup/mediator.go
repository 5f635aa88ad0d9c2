package setup

import (
	"Reviv/internal/commands"
	"Reviv/internal/queries"

	"github.com/The127/ioc"
	"github.com/The127/mediatr"
)

func Mediator(dc *ioc.DependencyCollection) {
	m := mediatr.NewMediator()

	mediatr.RegisterHandler(m, commands.HandleInitiateOAuth)
	mediatr.RegisterHandler(m, commands.HandleCompleteOAuthCallback)
	mediatr.RegisterHandler(m, commands.HandleExchangeOAuthTicket)

	mediatr.RegisterHandler(m, commands.HandleBeginPasskeyRegistration)
	mediatr.RegisterHandler(m, commands.HandleCompletePasskeyRegistration)
	mediatr.RegisterHandler(m, commands.HandleBeginEmailPasskeyRegistration)
	mediatr.RegisterHandler(m, commands.HandleCompleteEmailPasskeyRegistration)

	mediatr.RegisterHandler(m, commands.HandleBeginPasskeyLogin)
	mediatr.RegisterHandler(m, commands.HandleCompletePasskeyLogin)
	mediatr.RegisterHandler(m, commands.HandleDeletePasskey)

	mediatr.RegisterHandler(m, queries.HandleGetPrincipalQuery)
	mediatr.RegisterHandler(m, queries.HandleListPasskeysQuery)

	ioc.RegisterSingleton(dc, func(dp *ioc.DependencyProvider) mediatr.Mediator {
		return m
	})
}
