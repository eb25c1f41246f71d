package memoryengine

import "github.com/bookbnb/rental-ledger-go/eventstore"

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithLogger logs every operation at debug level.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger
		return nil
	}
}

// WithContextualLogger logs every operation at info level with the caller's context.
func WithContextualLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) error {
		es.contextualLogger = logger
		return nil
	}
}
