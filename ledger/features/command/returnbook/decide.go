package returnbook

import (
	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

// Decide implements the business logic to return a rented listing.
//
//	GIVEN: the events of one listing
//	WHEN:  ReturnBook is received
//	THEN:  BookReturned with the deposit split computed at OccurredAt
//	ERROR: AnonymousCaller, NotFound, NotRented, NotRenter (in this order)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if err := core.ValidatePrincipal(command.CallerID); err != nil {
		return core.ErrorDecision(err)
	}

	listing := core.ListingFrom(history)

	switch {
	case !listing.Exists() || listing.ID != command.ListingID:
		return core.ErrorDecision(core.ErrNotFound)
	case !listing.IsRented:
		return core.ErrorDecision(core.ErrNotRented)
	case listing.Renter != command.CallerID:
		return core.ErrorDecision(core.ErrNotRenter)
	}

	return core.SuccessDecision(
		core.BuildBookReturned(
			listing.ID.String(),
			listing.Owner,
			listing.Renter,
			listing.SettlementAt(command.OccurredAt),
			command.OccurredAt,
		),
	)
}

// BuildEventFilter selects every event of the listing.
func BuildEventFilter(listingID core.ListingID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookListedEventType,
			core.BookRentedEventType,
			core.BookReturnedEventType,
		).
		AndAnyPredicateOf(eventstore.P("ListingID", listingID.String())).
		Finalize()
}
