package rentbook

import (
	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

// Decide implements the business logic to rent a listing.
//
//	GIVEN: the events of one listing
//	WHEN:  RentBook is received
//	THEN:  BookRented with the rent for the owner and the deposit to hold
//	ERROR: AnonymousCaller, NotFound, AlreadyRented, OwnerCannotRent,
//	       InvalidPeriod or ExceedsMaxPeriod, WrongPayment (in this order)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if err := core.ValidatePrincipal(command.RenterID); err != nil {
		return core.ErrorDecision(err)
	}

	listing := core.ListingFrom(history)

	switch {
	case !listing.Exists() || listing.ID != command.ListingID:
		return core.ErrorDecision(core.ErrNotFound)
	case listing.IsRented:
		return core.ErrorDecision(core.ErrAlreadyRented)
	case listing.Owner == command.RenterID:
		return core.ErrorDecision(core.ErrOwnerCannotRent)
	}

	if err := core.ValidateRentalPeriod(command.Days); err != nil {
		return core.ErrorDecision(err)
	}

	// exact amount only, an overpayment is rejected like an underpayment
	if !command.Payment.Equal(core.AmountDue(listing.PricePerDay, listing.Deposit, command.Days)) {
		return core.ErrorDecision(core.ErrWrongPayment)
	}

	return core.SuccessDecision(
		core.BuildBookRented(
			listing.ID.String(),
			listing.Owner,
			command.RenterID,
			command.Days,
			core.RentCost(listing.PricePerDay, command.Days),
			listing.Deposit,
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
