package rentalsbyrenter

import (
	"slices"

	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

// Rentals represents the listings a renter currently holds.
type Rentals struct {
	RenterID       core.PrincipalString
	ListingIDs     []core.ListingID
	Count          int
	SequenceNumber uint
}

// GetSequenceNumber returns the sequence number of the last event the projection includes.
func (r Rentals) GetSequenceNumber() uint {
	return r.SequenceNumber
}

// Includes reports whether the renter currently rents listingID.
func (r Rentals) Includes(listingID core.ListingID) bool {
	_, found := slices.BinarySearch(r.ListingIDs, listingID)

	return found
}
