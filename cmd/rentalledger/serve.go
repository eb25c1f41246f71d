package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bookbnb/rental-ledger-go/ledger/httpapi"
	"github.com/bookbnb/rental-ledger-go/ledger/shell/config"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Server.Addr = addr
			}

			if err = cfg.ValidateAuth(); err != nil {
				return err
			}

			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("addr", "", "listen address, server.addr if unset")

	return cmd
}

func serve(parent context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newProcessLogger(cfg.Logging)

	var telemetry *config.Telemetry
	if cfg.Telemetry.Enabled {
		var err error
		if telemetry, err = config.NewTelemetry(ctx, cfg.Telemetry); err != nil {
			return err
		}
	}

	obs := newObservers(logger, telemetry != nil)

	es, closeStore, err := openEventStore(ctx, cfg.Store, obs)
	if err != nil {
		return err
	}
	defer closeStore()

	l, err := newLedger(cfg, es, obs)
	if err != nil {
		return err
	}

	server := httpapi.NewServer(l, []byte(cfg.Auth.JWTSecret),
		httpapi.WithIssuer(cfg.Auth.Issuer),
		httpapi.WithLogger(logger),
		httpapi.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
	)

	logger.Info("rental ledger starting",
		"version", version,
		"store_driver", cfg.Store.Driver,
		"escrow_gateway", cfg.Escrow.Gateway,
		"telemetry", cfg.Telemetry.Enabled,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(gctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout)
	})

	if telemetry != nil {
		g.Go(func() error {
			<-gctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			return telemetry.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	logger.Info("rental ledger stopped")

	return err
}
