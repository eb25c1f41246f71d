package shell

import (
	"context"

	"github.com/bookbnb/rental-ledger-go/eventstore"
)

// QueriesEvents is the part of an event store that query handlers need.
type QueriesEvents interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}

// AppendsEventsGuarded is the part of an event store that command handlers need.
// The guard runs after the concurrency check and before the commit; if it fails nothing is appended.
type AppendsEventsGuarded interface {
	QueriesEvents
	AppendGuarded(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		guard eventstore.CommitGuard,
		event eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error
}

// Command is implemented by every command type. CommandType is used for observability.
type Command interface {
	CommandType() string
}

// CommandHandler processes a command with Query -> Decide -> Append.
type CommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// Query is implemented by every query type. QueryType is used for observability.
type Query interface {
	QueryType() string
}

// QueryResult is a projection. GetSequenceNumber returns the highest sequence number it includes.
type QueryResult interface {
	GetSequenceNumber() uint
}

// QueryHandler builds a projection from the event history.
type QueryHandler[Q Query, R QueryResult] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
