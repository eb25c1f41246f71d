package core

import (
	"time"
)

// BookReturnedEventType is the event type identifier.
const BookReturnedEventType = "BookReturned"

// BookReturned is recorded when the renter gave the book back and the deposit was settled:
// OwnerPaid went to the owner, RenterRefund back to the renter, together they equal the held deposit.
type BookReturned struct {
	EventType    EventTypeString
	ListingID    ListingIDString
	OwnerID      PrincipalString
	RenterID     PrincipalString
	LateDays     int64
	OwnerPaid    Money
	RenterRefund Money
	OccurredAt   OccurredAtTS
}

func BuildBookReturned(
	listingID ListingIDString,
	ownerID PrincipalString,
	renterID PrincipalString,
	settlement Settlement,
	occurredAt time.Time,
) BookReturned {

	return BookReturned{
		EventType:    BookReturnedEventType,
		ListingID:    listingID,
		OwnerID:      ownerID,
		RenterID:     renterID,
		LateDays:     settlement.LateDays,
		OwnerPaid:    settlement.OwnerPaid,
		RenterRefund: settlement.RenterRefund,
		OccurredAt:   ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookReturned) IsEventType() EventTypeString {
	return BookReturnedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookReturned) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BookReturned) ListingKey() ListingIDString {
	return e.ListingID
}
