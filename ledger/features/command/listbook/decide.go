package listbook

import (
	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

// Decide validates the terms and assigns the next listing id.
//
//	GIVEN: all BookListed events so far
//	WHEN:  ListBook is received
//	THEN:  BookListed with id = number of listings + 1
//	ERROR: AnonymousCaller, then ZeroPrice, ZeroLateFee, ZeroDeposit, InsufficientDeposit
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if err := core.ValidatePrincipal(command.OwnerID); err != nil {
		return core.ErrorDecision(err)
	}

	terms := command.Terms
	if err := core.ValidateTerms(terms.PricePerDay, terms.LateFeePerDay, terms.Deposit); err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(
		core.BuildBookListed(nextListingID(history), command.OwnerID, terms, command.OccurredAt),
	)
}

func nextListingID(history core.DomainEvents) core.ListingID {
	var listed uint64
	for _, event := range history {
		if _, ok := event.(core.BookListed); ok {
			listed++
		}
	}

	return core.ListingID(listed + 1)
}

// BuildEventFilter selects every BookListed event, which is the stream the listing id is derived from.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookListedEventType).
		Finalize()
}
