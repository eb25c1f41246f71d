package core

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// MaxRentalDays is the longest rental period that can be booked.
const MaxRentalDays = 30

// Day is the length of a rental day. Rental time is measured in elapsed seconds, not calendar days.
const Day = 24 * time.Hour

// ListingIDString is the listing id as stored in event payloads, the predicate key is "ListingID".
type ListingIDString = string

// PrincipalString identifies a party. The empty string is the null principal.
type PrincipalString = string

// EventTypeString is the event type discriminator.
type EventTypeString = string

// OccurredAtTS is the timestamp of an event, UTC with microsecond precision.
type OccurredAtTS = time.Time

// Money is an exact decimal amount in the ledger's currency unit.
type Money = decimal.Decimal

// ListingID is the sequential identifier of a listing, starting at 1.
type ListingID uint64

func (id ListingID) String() ListingIDString {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseListingID parses the decimal form of a ListingID. Zero is not a valid id.
func ParseListingID(s string) (ListingID, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrNotFound
	}

	return ListingID(id), nil
}

// ToOccurredAt normalizes t to UTC with microsecond precision, which is what Postgres stores.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}
