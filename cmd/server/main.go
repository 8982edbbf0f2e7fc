package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"go.uber.org/fx"

	"github.com/nomnom-routing/vrpcore/config"
	"github.com/nomnom-routing/vrpcore/internal/delivery"
	"github.com/nomnom-routing/vrpcore/internal/delivery/http"
	"github.com/nomnom-routing/vrpcore/internal/delivery/http/middleware"
	"github.com/nomnom-routing/vrpcore/internal/delivery/http/router/handler"
	corehandler "github.com/nomnom-routing/vrpcore/internal/handler"
	"github.com/nomnom-routing/vrpcore/internal/logging"
	"github.com/nomnom-routing/vrpcore/internal/session"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectCore(),
		injectMiddleware(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startReaper,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logging.New,
		context.Background,
	)
}

func injectCore() fx.Option {
	return fx.Options(
		fx.Provide(
			session.NewStore,
			corehandler.NewFromConfig,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewRequestIDMiddleware,
			middleware.NewLoggerMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewHealthHandler,
			handler.NewOSMHandler,
			handler.NewVRPHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// startReaper runs the session store's TTL sweep for the process lifetime.
func startReaper(lc fx.Lifecycle, cfg *config.Config, store *session.Store) {
	reaperCtx, cancel := context.WithCancel(context.Background())

	interval := time.Duration(cfg.Session.CleanupIntervalSecs) * time.Second
	maxAge := time.Duration(cfg.Session.DataRetentionHours) * time.Hour

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go store.RunReaper(reaperCtx, interval, maxAge)

			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()

			return nil
		},
	})
}

func startServer(ctx context.Context, params startServerParams) {
	for _, d := range params.Deliveries {
		d := d
		go func() {
			if err := d.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
