package shell

import (
	"errors"

	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

// ErrEventEnvelopeFromStorableEventFailed is returned when event envelope conversion fails
var ErrEventEnvelopeFromStorableEventFailed = errors.New("event envelope from storable event failed")

// EventEnvelopes is a slice of EventEnvelope instances
type EventEnvelopes = []EventEnvelope

// EventEnvelope combines a domain event with its metadata and position in the log.
type EventEnvelope struct {
	SequenceNumber uint
	DomainEvent    core.DomainEvent
	EventMetadata  EventMetadata
}

// EventEnvelopeFrom converts a StorableEvent to an EventEnvelope
func EventEnvelopeFrom(storableEvent eventstore.StorableEvent) (EventEnvelope, error) {
	metadata, err := EventMetadataFrom(storableEvent)
	if err != nil {
		return EventEnvelope{}, errors.Join(ErrEventEnvelopeFromStorableEventFailed, err)
	}

	domainEvent, err := DomainEventFrom(storableEvent)
	if err != nil {
		return EventEnvelope{}, errors.Join(ErrEventEnvelopeFromStorableEventFailed, err)
	}

	return EventEnvelope{
		SequenceNumber: storableEvent.SequenceNumber,
		DomainEvent:    domainEvent,
		EventMetadata:  metadata,
	}, nil
}

// EventEnvelopesFrom converts multiple StorableEvents to EventEnvelopes
func EventEnvelopesFrom(storableEvents eventstore.StorableEvents) (EventEnvelopes, error) {
	envelopes := make(EventEnvelopes, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		envelope, err := EventEnvelopeFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		envelopes = append(envelopes, envelope)
	}

	return envelopes, nil
}
