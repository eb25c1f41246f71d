package ledger

import (
	"github.com/bookbnb/rental-ledger-go/ledger/core"
	"github.com/bookbnb/rental-ledger-go/ledger/shell"
)

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock replaces the wall clock, e.g. to move time in tests.
func WithClock(clock core.Clock) Option {
	return func(l *Ledger) {
		l.clock = clock
	}
}

// WithMetrics records command and query metrics with collector.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(l *Ledger) {
		l.metricsCollector = collector
	}
}

// WithTracing wraps every command and query in a span.
func WithTracing(collector shell.TracingCollector) Option {
	return func(l *Ledger) {
		l.tracingCollector = collector
	}
}

// WithContextualLogger sets a context-aware logger, it takes precedence over WithLogger.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(l *Ledger) {
		l.contextualLogger = logger
	}
}

// WithLogger sets a basic logger for handlers and the escrow.
func WithLogger(logger shell.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithRetryOptions configures the conflict retry of all command handlers.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(l *Ledger) {
		l.retryOptions = opts
	}
}
