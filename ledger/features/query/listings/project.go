package listings

import (
	"slices"

	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

// Project folds the whole ledger into one Listing per id.
func Project(history core.DomainEvents, _ Query, maxSequenceNumber eventstore.MaxSequenceNumberUint) Listings {
	byID := make(map[core.ListingIDString]core.Listing)

	for _, event := range history {
		key := event.ListingKey()
		byID[key] = byID[key].Evolve(event)
	}

	all := make([]core.Listing, 0, len(byID))
	rented := 0
	for _, listing := range byID {
		if !listing.Exists() {
			continue
		}

		if listing.IsRented {
			rented++
		}

		all = append(all, listing)
	}

	slices.SortFunc(all, func(a, b core.Listing) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}

		return 0
	})

	return Listings{
		Listings:       all,
		Total:          len(all),
		Rented:         rented,
		SequenceNumber: maxSequenceNumber,
	}
}

// BuildEventFilter selects every ledger event.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookListedEventType,
			core.BookRentedEventType,
			core.BookReturnedEventType,
		).
		Finalize()
}
