package escrowstatement

import (
	"slices"

	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
	"github.com/bookbnb/rental-ledger-go/ledger/escrow"
)

// Project replays every rent and return and books each amount on the custody account.
//
//	GIVEN: all BookRented and BookReturned events
//	WHEN:  EscrowStatement is queried
//	THEN:  open holdings by listing id, totals, and payouts by principal and reason
func Project(history core.DomainEvents, _ Query, maxSequenceNumber eventstore.MaxSequenceNumberUint) Statement {
	holdings := make(map[core.ListingID]Holding)
	statement := Statement{
		Payouts:        make(map[core.PrincipalString]map[escrow.Reason]core.Money),
		SequenceNumber: maxSequenceNumber,
	}

	pay := func(principal core.PrincipalString, reason escrow.Reason, amount core.Money) {
		if amount.IsZero() {
			return
		}

		if statement.Payouts[principal] == nil {
			statement.Payouts[principal] = make(map[escrow.Reason]core.Money)
		}

		statement.Payouts[principal][reason] = statement.Payouts[principal][reason].Add(amount)
		statement.PaidOut = statement.PaidOut.Add(amount)
	}

	for _, event := range history {
		switch e := event.(type) {
		case core.BookRented:
			id, err := core.ParseListingID(e.ListingID)
			if err != nil {
				continue
			}

			statement.Received = statement.Received.Add(e.RentPaid).Add(e.DepositHeld)
			pay(e.OwnerID, escrow.ReasonRent, e.RentPaid)
			holdings[id] = Holding{ListingID: id, Renter: e.RenterID, Amount: e.DepositHeld, HeldSince: e.OccurredAt}

		case core.BookReturned:
			id, err := core.ParseListingID(e.ListingID)
			if err != nil {
				continue
			}

			pay(e.OwnerID, escrow.ReasonLateFee, e.OwnerPaid)
			pay(e.RenterID, escrow.ReasonDepositRefund, e.RenterRefund)
			delete(holdings, id)
		}
	}

	statement.Holdings = make([]Holding, 0, len(holdings))
	for _, holding := range holdings {
		statement.Holdings = append(statement.Holdings, holding)
		statement.TotalHeld = statement.TotalHeld.Add(holding.Amount)
	}

	slices.SortFunc(statement.Holdings, func(a, b Holding) int {
		switch {
		case a.ListingID < b.ListingID:
			return -1
		case a.ListingID > b.ListingID:
			return 1
		}

		return 0
	})

	return statement
}

// BuildEventFilter selects every event that moves money.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookRentedEventType,
			core.BookReturnedEventType,
		).
		Finalize()
}
