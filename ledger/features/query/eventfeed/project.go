package eventfeed

import (
	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
	"github.com/bookbnb/rental-ledger-go/ledger/shell"
)

// Project cuts a page of at most query.Limit envelopes, which must be ordered by sequence number.
func Project(envelopes shell.EventEnvelopes, query Query, maxSequenceNumber eventstore.MaxSequenceNumberUint) Feed {
	limit := BuildQuery(query.After, query.Limit).Limit

	page := envelopes
	if len(page) > limit {
		page = page[:limit]
	}

	nextCursor := query.After
	if len(page) > 0 {
		nextCursor = page[len(page)-1].SequenceNumber
	}

	return Feed{
		Events:         page,
		NextCursor:     nextCursor,
		HasMore:        len(envelopes) > len(page),
		SequenceNumber: maxSequenceNumber,
	}
}

// BuildEventFilter selects at most limit ledger events after the cursor.
func BuildEventFilter(after uint, limit int) eventstore.Filter {
	return eventstore.BuildEventFilter().
		WithSequenceNumberHigherThan(after).
		WithLimit(uint(max(limit, 0))).
		Matching().
		AnyEventTypeOf(
			core.BookListedEventType,
			core.BookRentedEventType,
			core.BookReturnedEventType,
		).
		Finalize()
}
