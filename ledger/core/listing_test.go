package core_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

func Test_ListingFrom_FoldsLifecycle(t *testing.T) {
	// arrange
	listedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rentedAt := listedAt.Add(time.Hour)

	listed := givenBookListed(t, 1, "alice", listedAt)
	rented := core.BuildBookRented("1", "alice", "bob", 2, money("0.02"), money("0.1"), rentedAt)

	// act
	listing := core.ListingFrom(core.DomainEvents{listed, rented})

	// assert
	require.True(t, listing.Exists())
	assert.Equal(t, core.ListingID(1), listing.ID)
	assert.Equal(t, "alice", listing.Owner)
	assert.Equal(t, "bob", listing.Renter)
	assert.True(t, listing.IsRented)
	assert.False(t, listing.IsAvailable())
	assert.Equal(t, 2, listing.DaysBooked)
	assert.Equal(t, rentedAt.Add(2*core.Day), listing.DueDate())
	assertMoney(t, "0.02", listing.RentCostPaid)
}

func Test_ListingFrom_ReturnResetsRentalFields(t *testing.T) {
	// arrange
	listedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rentedAt := listedAt.Add(time.Hour)
	returnedAt := rentedAt.Add(core.Day)
	settlement := core.ComputeSettlement(rentedAt, 2, money("0.1"), money("0.015"), returnedAt)

	history := core.DomainEvents{
		givenBookListed(t, 1, "alice", listedAt),
		core.BuildBookRented("1", "alice", "bob", 2, money("0.02"), money("0.1"), rentedAt),
		core.BuildBookReturned("1", "alice", "bob", settlement, returnedAt),
	}

	// act
	listing := core.ListingFrom(history)

	// assert
	assert.True(t, listing.IsAvailable())
	assert.Equal(t, "", listing.Renter)
	assert.True(t, listing.RentedAt.IsZero())
	assert.Equal(t, 0, listing.DaysBooked)
	assert.True(t, listing.DueDate().IsZero())
	assertMoney(t, "0.02", listing.RentCostPaid)

	late, lateDays := listing.IsLateAt(returnedAt.Add(30 * core.Day))
	assert.False(t, late)
	assert.Equal(t, int64(0), lateDays)
}

func Test_ListingFrom_IgnoresEventsOfOtherListings(t *testing.T) {
	// arrange
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	history := core.DomainEvents{
		givenBookListed(t, 1, "alice", now),
		core.BuildBookRented("2", "carol", "bob", 2, money("0.02"), money("0.1"), now),
	}

	// act
	listing := core.ListingFrom(history)

	// assert
	assert.Equal(t, core.ListingID(1), listing.ID)
	assert.False(t, listing.IsRented)
}

func Test_ListingFrom_EmptyHistoryDoesNotExist(t *testing.T) {
	rented := core.BuildBookRented("7", "alice", "bob", 2, money("0.02"), money("0.1"), time.Now())

	assert.False(t, core.ListingFrom(nil).Exists())
	assert.False(t, core.ListingFrom(core.DomainEvents{rented}).Exists())
}

func Test_Listing_IsLateAt(t *testing.T) {
	// arrange
	rentedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	listing := core.ListingFrom(core.DomainEvents{
		givenBookListed(t, 1, "alice", rentedAt),
		core.BuildBookRented("1", "alice", "bob", 2, money("0.02"), money("0.1"), rentedAt),
	})

	// act
	late, lateDays := listing.IsLateAt(rentedAt.Add(4 * core.Day))
	onTime, noDays := listing.IsLateAt(rentedAt.Add(2 * core.Day))

	// assert
	assert.True(t, late)
	assert.Equal(t, int64(2), lateDays)
	assert.False(t, onTime)
	assert.Equal(t, int64(0), noDays)
}

func Test_ParseListingID(t *testing.T) {
	id, err := core.ParseListingID("42")
	assert.NoError(t, err)
	assert.Equal(t, core.ListingID(42), id)
	assert.Equal(t, "42", id.String())

	for _, invalid := range []string{"0", "", "-1", "abc"} {
		_, err = core.ParseListingID(invalid)
		assert.ErrorIs(t, err, core.ErrNotFound, invalid)
	}
}

func Test_ToOccurredAt_NormalizesToUTCMicroseconds(t *testing.T) {
	local := time.Date(2026, 3, 1, 9, 0, 0, 123456789, time.FixedZone("CET", 3600))

	occurredAt := core.ToOccurredAt(local)

	assert.Equal(t, time.UTC, occurredAt.Location())
	assert.Equal(t, 123456000, occurredAt.Nanosecond())
	assert.True(t, occurredAt.Equal(local.Truncate(time.Microsecond)))
}

func givenBookListed(t *testing.T, id core.ListingID, owner core.PrincipalString, at time.Time) core.BookListed {
	t.Helper()

	return core.BuildBookListed(id, owner, core.ListingTerms{
		Title:         "Dune",
		Description:   "paperback, 1990 edition",
		ImageRef:      "ipfs://dune",
		PricePerDay:   money("0.01"),
		LateFeePerDay: money("0.015"),
		Deposit:       money("0.1"),
	}, at)
}

func money(s string) core.Money {
	return decimal.RequireFromString(s)
}
