package core

import (
	"time"
)

// BookListedEventType is the event type identifier.
const BookListedEventType = "BookListed"

// BookListed is recorded when an owner offers a book for rent. The terms are fixed for the life of the listing.
type BookListed struct {
	EventType     EventTypeString
	ListingID     ListingIDString
	OwnerID       PrincipalString
	Title         string
	Description   string
	ImageRef      string
	PricePerDay   Money
	LateFeePerDay Money
	Deposit       Money
	OccurredAt    OccurredAtTS
}

// ListingTerms is the owner's input to BuildBookListed.
type ListingTerms struct {
	Title         string
	Description   string
	ImageRef      string
	PricePerDay   Money
	LateFeePerDay Money
	Deposit       Money
}

func BuildBookListed(listingID ListingID, ownerID PrincipalString, terms ListingTerms, occurredAt time.Time) BookListed {
	return BookListed{
		EventType:     BookListedEventType,
		ListingID:     listingID.String(),
		OwnerID:       ownerID,
		Title:         terms.Title,
		Description:   terms.Description,
		ImageRef:      terms.ImageRef,
		PricePerDay:   terms.PricePerDay,
		LateFeePerDay: terms.LateFeePerDay,
		Deposit:       terms.Deposit,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookListed) IsEventType() EventTypeString {
	return BookListedEventType
}

func (e BookListed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BookListed) ListingKey() ListingIDString {
	return e.ListingID
}
