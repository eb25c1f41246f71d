package listingdetails

import (
	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

// Project folds the listing's events and evaluates its lateness at query.At.
//
//	GIVEN: the events of one listing
//	WHEN:  ListingDetails is queried
//	THEN:  the listing record, due date and late days at query.At
//	ERROR: NotFound when the listing does not exist
func Project(history core.DomainEvents, query Query, maxSequenceNumber eventstore.MaxSequenceNumberUint) (ListingDetails, error) {
	listing := core.ListingFrom(history)
	if !listing.Exists() || listing.ID != query.ListingID {
		return ListingDetails{}, core.ErrNotFound
	}

	isLate, lateDays := listing.IsLateAt(query.At)

	return ListingDetails{
		Listing:        listing,
		DueDate:        listing.DueDate(),
		IsLate:         isLate,
		LateDays:       lateDays,
		SequenceNumber: maxSequenceNumber,
	}, nil
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
