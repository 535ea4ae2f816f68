package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"globetrotter/cmd/fx/account_fx"
	"globetrotter/cmd/fx/catalog_fx"
	"globetrotter/cmd/fx/community_fx"
	"globetrotter/cmd/fx/config_fx"
	"globetrotter/cmd/fx/controllers_fx"
	"globetrotter/cmd/fx/dashboard_fx"
	"globetrotter/cmd/fx/db_fx"
	"globetrotter/cmd/fx/mail_fx"
	"globetrotter/cmd/fx/memcache_fx"
	"globetrotter/cmd/fx/recommendation_fx"
	"globetrotter/cmd/fx/trip_fx"
	"globetrotter/cmd/fx/wizard_fx"
	"globetrotter/internal/config"
	"globetrotter/pkg/logger"
)

func main() {
	app := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Desugar()}
		}),
		config_fx.Module,
		db_fx.Module,
		catalog_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		account_fx.Module,
		recommendation_fx.Module,
		trip_fx.Module,
		wizard_fx.Module,
		community_fx.Module,
		dashboard_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
	_ = logger.Close()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, handler http.Handler) {
	log := logger.GetLogger()
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				log.Infow("Starting HTTP server", "addr", srv.Addr, "environment", cfg.Server.Environment)
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorw("HTTP server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
