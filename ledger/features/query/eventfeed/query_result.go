package eventfeed

import (
	"github.com/bookbnb/rental-ledger-go/ledger/shell"
)

// Feed is one page of the event log.
type Feed struct {
	Events         shell.EventEnvelopes
	NextCursor     uint
	HasMore        bool
	SequenceNumber uint
}

// GetSequenceNumber returns the sequence number of the last event read, which may lie one past the page.
func (r Feed) GetSequenceNumber() uint {
	return r.SequenceNumber
}
