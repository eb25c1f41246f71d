package eventstore

import "context"

// ConsistencyLevel tells an engine whether a read may be served from a replica.
type ConsistencyLevel int

const (
	// StrongConsistency reads from the primary. Command handlers need it for read-decide-append.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows replica reads for pure queries.
	EventualConsistency
)

type contextKey string

// ConsistencyLevelKey is the context key carrying the ConsistencyLevel.
const ConsistencyLevelKey contextKey = "eventstore.consistency_level"

// WithStrongConsistency marks ctx so that engines read from the primary database.
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency marks ctx so that engines may read from a replica.
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel returns the level stored in ctx, StrongConsistency if none is set.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}

func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}
