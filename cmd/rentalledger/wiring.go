package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/bookbnb/rental-ledger-go/eventstore/memoryengine"
	"github.com/bookbnb/rental-ledger-go/eventstore/oteladapters"
	"github.com/bookbnb/rental-ledger-go/eventstore/postgresengine"
	"github.com/bookbnb/rental-ledger-go/ledger"
	"github.com/bookbnb/rental-ledger-go/ledger/escrow"
	"github.com/bookbnb/rental-ledger-go/ledger/shell"
	"github.com/bookbnb/rental-ledger-go/ledger/shell/config"
)

const instrumentationName = "github.com/bookbnb/rental-ledger-go"

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	return config.Load(path)
}

// observers are the optional observability hooks shared by the event store and the ledger.
type observers struct {
	logger           *slog.Logger
	contextualLogger shell.ContextualLogger
	metrics          shell.MetricsCollector
	tracing          shell.TracingCollector
}

func newObservers(logger *slog.Logger, telemetryEnabled bool) observers {
	obs := observers{logger: logger, contextualLogger: logger}

	if telemetryEnabled {
		obs.contextualLogger = oteladapters.NewSlogBridgeLogger(instrumentationName)
		obs.metrics = oteladapters.NewMetricsCollector(otel.GetMeterProvider().Meter(instrumentationName))
		obs.tracing = oteladapters.NewTracingCollector(otel.GetTracerProvider().Tracer(instrumentationName))
	}

	return obs
}

// openEventStore returns the store for cfg.Driver and a func releasing its connections.
func openEventStore(ctx context.Context, cfg config.StoreConfig, obs observers) (shell.AppendsEventsGuarded, func(), error) {
	if cfg.Driver == config.DriverMemory {
		es, err := memoryengine.NewEventStore(memoryengine.WithLogger(obs.logger))
		return es, func() {}, err
	}

	opts := []postgresengine.Option{
		postgresengine.WithTableName(cfg.TableName),
		postgresengine.WithLogger(obs.logger),
		postgresengine.WithContextualLogger(obs.contextualLogger),
	}
	if obs.metrics != nil {
		opts = append(opts, postgresengine.WithMetrics(obs.metrics))
	}
	if obs.tracing != nil {
		opts = append(opts, postgresengine.WithTracing(obs.tracing))
	}

	switch cfg.Driver {
	case config.DriverPGX:
		pool, err := config.NewPGXPool(ctx, cfg, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}

		if cfg.ReplicaDSN == "" {
			es, err := postgresengine.NewEventStoreFromPGXPool(pool, opts...)
			return es, pool.Close, err
		}

		replica, err := config.NewPGXPool(ctx, cfg, cfg.ReplicaDSN)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		es, err := postgresengine.NewEventStoreFromPGXPoolAndReplica(pool, replica, opts...)
		return es, func() { replica.Close(); pool.Close() }, err

	case config.DriverSQLDB:
		db, err := config.NewSQLDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}

		es, err := postgresengine.NewEventStoreFromSQLDB(db, opts...)
		return es, func() { _ = db.Close() }, err

	case config.DriverSQLX:
		db, err := config.NewSQLX(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}

		es, err := postgresengine.NewEventStoreFromSQLX(db, opts...)
		return es, func() { _ = db.Close() }, err
	}

	return nil, nil, errors.Join(config.ErrInvalidConfig, errors.New("unknown store driver "+cfg.Driver))
}

func newGateway(cfg config.EscrowConfig) escrow.Gateway {
	if cfg.Gateway == config.GatewayHTTP {
		var opts []escrow.HTTPGatewayOption
		if cfg.APIKey != "" {
			opts = append(opts, escrow.WithAPIKey(cfg.APIKey))
		}
		if cfg.Timeout > 0 {
			opts = append(opts, escrow.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
		}

		return escrow.NewHTTPGateway(cfg.URL, opts...)
	}

	return escrow.NewInternalGateway(cfg.Blocked...)
}

func newLedger(cfg config.Config, es shell.AppendsEventsGuarded, obs observers) (*ledger.Ledger, error) {
	opts := []ledger.Option{
		ledger.WithLogger(obs.logger),
		ledger.WithContextualLogger(obs.contextualLogger),
		ledger.WithRetryOptions(cfg.Retry.RetryOptions()...),
	}
	if obs.metrics != nil {
		opts = append(opts, ledger.WithMetrics(obs.metrics))
	}
	if obs.tracing != nil {
		opts = append(opts, ledger.WithTracing(obs.tracing))
	}

	return ledger.New(es, newGateway(cfg.Escrow), opts...)
}

func newProcessLogger(cfg config.LoggingConfig) *slog.Logger {
	logger := config.NewLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	return logger
}
