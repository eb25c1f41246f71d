package core

import (
	"time"
)

// BookRentedEventType is the event type identifier.
const BookRentedEventType = "BookRented"

// BookRented is recorded when a renter paid for a rental. RentPaid went to the owner, DepositHeld is in escrow.
type BookRented struct {
	EventType   EventTypeString
	ListingID   ListingIDString
	OwnerID     PrincipalString
	RenterID    PrincipalString
	DaysBooked  int
	RentPaid    Money
	DepositHeld Money
	OccurredAt  OccurredAtTS
}

func BuildBookRented(
	listingID ListingIDString,
	ownerID PrincipalString,
	renterID PrincipalString,
	daysBooked int,
	rentPaid Money,
	depositHeld Money,
	occurredAt time.Time,
) BookRented {

	return BookRented{
		EventType:   BookRentedEventType,
		ListingID:   listingID,
		OwnerID:     ownerID,
		RenterID:    renterID,
		DaysBooked:  daysBooked,
		RentPaid:    rentPaid,
		DepositHeld: depositHeld,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookRented) IsEventType() EventTypeString {
	return BookRentedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookRented) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BookRented) ListingKey() ListingIDString {
	return e.ListingID
}
