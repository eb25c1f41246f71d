package eventstore

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var ErrInvalidPayloadJSON = errors.New("payload json is not valid")
var ErrInvalidMetadataJSON = errors.New("metadata json is not valid")

// StorableEvents is an alias type for a slice of StorableEvent.
type StorableEvents = []StorableEvent

// StorableEvent is the DTO the engines append and query back.
//
// It is built on scalars so the store stays agnostic of the domain events of the client code.
// SequenceNumber is zero for events that were not read from a store.
//
// While its properties are exported, it should only be constructed with the supplied factory methods:
//   - BuildStorableEvent
//   - BuildStorableEventWithEmptyMetadata
type StorableEvent struct {
	EventType      string
	OccurredAt     time.Time
	PayloadJSON    []byte
	MetadataJSON   []byte
	SequenceNumber uint
}

// BuildStorableEvent is a factory method for StorableEvent.
//
// Returns an error if payloadJSON or metadataJSON are not valid JSON.
func BuildStorableEvent(eventType string, occurredAt time.Time, payloadJSON []byte, metadataJSON []byte) (StorableEvent, error) {
	if !jsoniter.Valid(payloadJSON) {
		return StorableEvent{}, ErrInvalidPayloadJSON
	}

	if !jsoniter.Valid(metadataJSON) {
		return StorableEvent{}, ErrInvalidMetadataJSON
	}

	return StorableEvent{
		EventType:    eventType,
		OccurredAt:   occurredAt,
		PayloadJSON:  payloadJSON,
		MetadataJSON: metadataJSON,
	}, nil
}

// BuildStorableEventWithEmptyMetadata builds a StorableEvent with "{}" as metadata.
func BuildStorableEventWithEmptyMetadata(eventType string, occurredAt time.Time, payloadJSON []byte) (StorableEvent, error) {
	return BuildStorableEvent(eventType, occurredAt, payloadJSON, []byte("{}"))
}

// WithSequenceNumber returns a copy of the event carrying the sequence number it was stored with.
func (e StorableEvent) WithSequenceNumber(sequenceNumber uint) StorableEvent {
	e.SequenceNumber = sequenceNumber

	return e
}
