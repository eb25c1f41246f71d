package core

import (
	"time"
)

// Listing is the current state of one listing, folded from its events.
// It is a value type, callers always get a copy.
type Listing struct {
	ID            ListingID
	Owner         PrincipalString
	Renter        PrincipalString
	Title         string
	Description   string
	ImageRef      string
	PricePerDay   Money
	LateFeePerDay Money
	Deposit       Money
	ListedAt      time.Time
	RentedAt      time.Time
	DaysBooked    int
	RentCostPaid  Money
	IsRented      bool
}

// Exists is false for the zero Listing, which is what folding an empty history yields.
func (l Listing) Exists() bool {
	return l.ID != 0
}

// IsAvailable reports whether the listing can be rented right now.
func (l Listing) IsAvailable() bool {
	return l.Exists() && !l.IsRented
}

// DueDate returns the zero time when the listing is not rented.
func (l Listing) DueDate() time.Time {
	if !l.IsRented {
		return time.Time{}
	}

	return DueDate(l.RentedAt, l.DaysBooked)
}

// SettlementAt computes what returning the listing at now would pay out. Only meaningful while rented.
func (l Listing) SettlementAt(now time.Time) Settlement {
	return ComputeSettlement(l.RentedAt, l.DaysBooked, l.Deposit, l.LateFeePerDay, now)
}

// IsLateAt returns (false, 0) when the listing is not rented.
func (l Listing) IsLateAt(now time.Time) (bool, int64) {
	if !l.IsRented {
		return false, 0
	}

	settlement := l.SettlementAt(now)

	return settlement.IsLate(), settlement.LateDays
}

// Evolve applies event to the listing. Events of other listings and unknown events are ignored.
func (l Listing) Evolve(event DomainEvent) Listing {
	if l.Exists() && event.ListingKey() != l.ID.String() {
		return l
	}

	if _, isListed := event.(BookListed); !isListed && !l.Exists() {
		return l
	}

	switch e := event.(type) {
	case BookListed:
		id, err := ParseListingID(e.ListingID)
		if err != nil {
			return l
		}

		return Listing{
			ID:            id,
			Owner:         e.OwnerID,
			Title:         e.Title,
			Description:   e.Description,
			ImageRef:      e.ImageRef,
			PricePerDay:   e.PricePerDay,
			LateFeePerDay: e.LateFeePerDay,
			Deposit:       e.Deposit,
			ListedAt:      e.OccurredAt,
		}

	case BookRented:
		l.Renter = e.RenterID
		l.RentedAt = e.OccurredAt
		l.DaysBooked = e.DaysBooked
		l.RentCostPaid = e.RentPaid
		l.IsRented = true

	case BookReturned:
		l.Renter = ""
		l.RentedAt = time.Time{}
		l.DaysBooked = 0
		l.IsRented = false
	}

	return l
}

// ListingFrom folds history into the listing it describes.
func ListingFrom(history DomainEvents) Listing {
	var listing Listing
	for _, event := range history {
		listing = listing.Evolve(event)
	}

	return listing
}
