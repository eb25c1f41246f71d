package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

// ErrMappingToStorableEventFailedForDomainEvent is returned when domain event serialization fails
var ErrMappingToStorableEventFailedForDomainEvent = errors.New("mapping to storable event failed for domain event")

// ErrMappingToStorableEventFailedForMetadata is returned when metadata serialization fails
var ErrMappingToStorableEventFailedForMetadata = errors.New("mapping to storable event failed for metadata")

var marshaler = jsoniter.ConfigCompatibleWithStandardLibrary

// StorableEventFrom converts a DomainEvent and EventMetadata to a StorableEvent
func StorableEventFrom(event core.DomainEvent, metadata EventMetadata) (eventstore.StorableEvent, error) {
	payloadJSON, err := marshaler.Marshal(event)
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailedForDomainEvent, err)
	}

	metadataJSON, err := marshaler.Marshal(metadata)
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailedForMetadata, err)
	}

	storableEvent, err := eventstore.BuildStorableEvent(
		event.IsEventType(),
		event.HasOccurredAt(),
		payloadJSON,
		metadataJSON,
	)

	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailedForDomainEvent, err)
	}

	return storableEvent, nil
}
