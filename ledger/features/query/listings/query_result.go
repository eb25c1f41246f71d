package listings

import (
	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

// Listings contains all listings ordered by id.
type Listings struct {
	Listings       []core.Listing
	Total          int
	Rented         int
	SequenceNumber uint
}

// GetSequenceNumber returns the sequence number of the last event the projection includes.
func (r Listings) GetSequenceNumber() uint {
	return r.SequenceNumber
}
