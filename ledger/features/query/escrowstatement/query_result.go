package escrowstatement

import (
	"time"

	"github.com/bookbnb/rental-ledger-go/ledger/core"
	"github.com/bookbnb/rental-ledger-go/ledger/escrow"
)

// Holding is the deposit held for one active rental.
type Holding struct {
	ListingID core.ListingID
	Renter    core.PrincipalString
	Amount    core.Money
	HeldSince time.Time
}

// Statement is the custody balance of the ledger.
type Statement struct {
	Holdings       []Holding
	TotalHeld      core.Money
	Received       core.Money
	PaidOut        core.Money
	Payouts        map[core.PrincipalString]map[escrow.Reason]core.Money
	SequenceNumber uint
}

// GetSequenceNumber returns the sequence number of the last event the projection includes.
func (r Statement) GetSequenceNumber() uint {
	return r.SequenceNumber
}

// PaidTo returns the cumulative amount paid to principal for reason.
func (r Statement) PaidTo(principal core.PrincipalString, reason escrow.Reason) core.Money {
	return r.Payouts[principal][reason]
}
