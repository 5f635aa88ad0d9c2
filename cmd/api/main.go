package main

import (
	"Reviv/internal/clock"
	"Reviv/internal/config"
	"Reviv/internal/database"
	"Reviv/internal/logging"
	"Reviv/internal/server"
	"Reviv/internal/setup"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/The127/ioc"

	"github.com/huandu/go-sqlbuilder"
)

func tryFiveTimes(f func() error, msg string) {
	var err error
	for i := 0; i < 5; i++ {
		err = f()
		if err == nil {
			return
		}

		logging.Logger.Infof(msg+": %v", err)
		logging.Logger.Infof("Retrying in 5 seconds (attempt %d/5)", i+1)
		time.Sleep(5 * time.Second)
	}

	panic(err)
}

func main() {
	config.Init()

	sqlbuilder.DefaultFlavor = sqlbuilder.PostgreSQL

	logging.Init()

	tryFiveTimes(func() error {
		return database.Migrate()
	}, "failed to migrate database")

	dc := ioc.NewDependencyCollection()

	ioc.RegisterSingleton(dc, func(dp *ioc.DependencyProvider) clock.Service {
		return clock.NewClockService()
	})

	setup.Caching(dc, config.C.Cache.Mode)
	setup.Services(dc)
	setup.Repositories(dc, config.C.Database.Mode)
	setup.Mediator(dc)
	dp := dc.BuildProvider()

	server.Serve(dp, config.C.Server)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
