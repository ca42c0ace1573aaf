package main

import (
	"fmt"
	"net/http"
	"os"
	"untangle/pkg/client"
	"untangle/pkg/engine"
	"untangle/pkg/memory"
	"untangle/pkg/scheduler"
	"untangle/pkg/store"
	"untangle/pkg/util/context"

	"github.com/labstack/echo/v4"
	"github.com/neko-neko/echo-logrus/v2/log"
	"github.com/pkg/errors"
)

func main() {
	// Create context, echo object and set logger
	ctx := context.Background()
	cfg, err := engine.LoadConfig()
	if err != nil {
		ctx.Logger().Fatal(errors.Wrap(err, "failed to load configuration"))
		os.Exit(1)
	}

	registry, err := store.NewInMemoryRegistry()
	if err != nil {
		ctx.Logger().Fatal(errors.Wrap(err, "failed to instantiate registry"))
		os.Exit(1)
	}

	//Instantiate pipeline engine
	sc, err := engine.NewScheduler(cfg, registry, memory.NewInMemory())
	if err != nil {
		ctx.Logger().Fatal(errors.Wrap(err, "failed to instantiate scheduler"))
		os.Exit(1)
	}

	e := newServer(handlers{
		sc:       sc,
		registry: registry,
	})
	ctx.Logger().Infof("http server started on 127.0.0.1:%s with executor %s", cfg.Server.Port, cfg.Executor.Kind)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", cfg.Server.Port)))
}

// newServer returns the echo server serving the API with the given handlers.
func newServer(h handlers) *echo.Echo {
	e := echo.New()
	l := log.MyLogger{Logger: context.BaseLogger()}
	e.Logger = &l

	//Setup routes
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "untangle")
	})
	e.Add(client.SubmitMethod, client.SubmitPath, h.Submit)
	e.Add(client.ListRunsMethod, client.ListRunsPath, h.ListRuns)
	e.Add(client.RunStateMethod, client.RunStatePath, h.RunState)
	e.Add(client.RunResultMethod, client.RunResultPath, h.RunResult)
	e.Add(client.CancelMethod, client.CancelPath, h.Cancel)

	e.HideBanner = true
	e.HidePort = true
	return e
}

type handlers struct {
	sc       scheduler.Scheduler
	registry store.ReadOnlyRegistry
}
