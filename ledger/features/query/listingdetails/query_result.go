package listingdetails

import (
	"time"

	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

// ListingDetails is the projected state of one listing.
// DueDate is zero and IsLate is false while the listing is available.
type ListingDetails struct {
	Listing        core.Listing
	DueDate        time.Time
	IsLate         bool
	LateDays       int64
	SequenceNumber uint
}

// GetSequenceNumber returns the sequence number of the last event the projection includes.
func (r ListingDetails) GetSequenceNumber() uint {
	return r.SequenceNumber
}
