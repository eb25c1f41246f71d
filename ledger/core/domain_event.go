package core

import (
	"time"
)

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent is a fact of the rental ledger.
type DomainEvent interface {
	// IsEventType returns the string identifier of this event type.
	IsEventType() EventTypeString

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time

	// ListingKey returns the id of the listing the event is about.
	ListingKey() ListingIDString
}
