package rentalsbyrenter

import (
	"slices"

	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

// Project implements the query logic to determine the listings currently rented by a renter.
//
//	GIVEN: the rent and return events of RenterID
//	WHEN:  RentalsByRenter is queried
//	THEN:  the ids rented and not yet returned, ascending
func Project(history core.DomainEvents, query Query, maxSequenceNumber eventstore.MaxSequenceNumberUint) Rentals {
	current := make(map[core.ListingID]struct{})

	for _, event := range history {
		switch e := event.(type) {
		case core.BookRented:
			if e.RenterID != query.RenterID {
				continue
			}

			if id, err := core.ParseListingID(e.ListingID); err == nil {
				current[id] = struct{}{}
			}

		case core.BookReturned:
			if e.RenterID != query.RenterID {
				continue
			}

			if id, err := core.ParseListingID(e.ListingID); err == nil {
				delete(current, id)
			}
		}
	}

	ids := make([]core.ListingID, 0, len(current))
	for id := range current {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return Rentals{
		RenterID:       query.RenterID,
		ListingIDs:     ids,
		Count:          len(ids),
		SequenceNumber: maxSequenceNumber,
	}
}

// BuildEventFilter selects the rent and return events of renterID.
func BuildEventFilter(renterID core.PrincipalString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookRentedEventType,
			core.BookReturnedEventType,
		).
		AndAnyPredicateOf(eventstore.P("RenterID", renterID)).
		Finalize()
}
