package shell

import (
	"context"
	"errors"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

// ErrMappingToEventMetadataFailed is returned when metadata conversion fails.
var ErrMappingToEventMetadataFailed = errors.New("mapping to event metadata failed")

// MessageID represents a unique message identifier.
type MessageID = string

// CausationID represents the ID of the message that caused this event.
type CausationID = string

// CorrelationID represents the ID correlating related events, e.g. the HTTP request id.
type CorrelationID = string

// EventMetadata contains event tracking information.
type EventMetadata struct {
	MessageID     MessageID
	CausationID   CausationID
	CorrelationID CorrelationID
	Principal     core.PrincipalString
}

type correlationIDKey struct{}

// WithCorrelationID returns a context carrying correlationID for the events appended within it.
func WithCorrelationID(ctx context.Context, correlationID CorrelationID) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, correlationID)
}

// CorrelationIDFrom returns the correlation id of ctx or "".
func CorrelationIDFrom(ctx context.Context) CorrelationID {
	correlationID, _ := ctx.Value(correlationIDKey{}).(CorrelationID)

	return correlationID
}

// BuildEventMetadata creates EventMetadata from UUID values.
func BuildEventMetadata(messageID uuid.UUID, causationID uuid.UUID, correlationID uuid.UUID) EventMetadata {
	return EventMetadata{
		MessageID:     messageID.String(),
		CausationID:   causationID.String(),
		CorrelationID: correlationID.String(),
	}
}

// NewEventMetadata creates metadata for an event appended on behalf of principal.
// The correlation id is taken from ctx, a fresh message id is used when there is none.
func NewEventMetadata(ctx context.Context, principal core.PrincipalString) EventMetadata {
	uid := uuid.New()
	metadata := BuildEventMetadata(uid, uid, uid)
	metadata.Principal = principal

	if correlationID := CorrelationIDFrom(ctx); correlationID != "" {
		metadata.CorrelationID = correlationID
	}

	return metadata
}

// EventMetadataFrom extracts EventMetadata from a StorableEvent.
func EventMetadataFrom(storableEvent eventstore.StorableEvent) (EventMetadata, error) {
	metadata := new(EventMetadata)
	err := jsoniter.ConfigFastest.Unmarshal(storableEvent.MetadataJSON, metadata)
	if err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToEventMetadataFailed, err)
	}

	return *metadata, nil
}
