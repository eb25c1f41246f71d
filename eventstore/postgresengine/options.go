package postgresengine

import (
	"github.com/bookbnb/rental-ledger-go/eventstore"
)

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithTableName sets the table name for the EventStore. "schema.table" is allowed.
func WithTableName(tableName string) Option {
	return func(es *EventStore) error {
		if tableName == "" {
			return eventstore.ErrEmptyEventsTableName
		}

		es.eventTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the EventStore.
//
// Debug level: SQL statements with execution timing
// Info level: event counts, durations, concurrency conflicts, guard rejections
// Warn level: cleanup failures
// Error level: failures that abort the operation.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger
		return nil
	}
}

// WithContextualLogger sets a logger that receives the operation's context for trace correlation.
func WithContextualLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) error {
		es.contextualLogger = logger
		return nil
	}
}

// WithMetrics records query/append durations, event counts, conflicts, guard rejections and database errors.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.metricsCollector = collector
		return nil
	}
}

// WithTracing wraps every query and append in a span.
func WithTracing(collector eventstore.TracingCollector) Option {
	return func(es *EventStore) error {
		es.tracingCollector = collector
		return nil
	}
}
