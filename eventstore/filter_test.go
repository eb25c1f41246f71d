package eventstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bookbnb/rental-ledger-go/eventstore"
)

func Test_FilterBuilder_ValidCombinations(t *testing.T) {
	tests := []struct {
		name     string
		build    func() eventstore.Filter
		validate func(t *testing.T, f eventstore.Filter)
	}{
		{
			name: "matching_any_event_creates_empty_filter",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().MatchingAnyEvent()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Empty(t, f.Items())
				assert.Equal(t, uint(0), f.SequenceNumberHigherThan())
			},
		},
		{
			name: "sequence_bound_on_any_event",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().WithSequenceNumberHigherThan(42).MatchingAnyEvent()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Empty(t, f.Items())
				assert.Equal(t, uint(42), f.SequenceNumberHigherThan())
			},
		},
		{
			name: "event_types_are_sanitized",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("BookRented", "", "BookListed", "BookRented").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.Equal(t, []string{"BookListed", "BookRented"}, f.Items()[0].EventTypes())
				assert.Empty(t, f.Items()[0].Predicates())
			},
		},
		{
			name: "event_types_and_any_predicate",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("BookRented").
					AndAnyPredicateOf(eventstore.P("ListingID", "7"), eventstore.P("", "x"), eventstore.P("ListingID", "7")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				item := f.Items()[0]
				assert.Equal(t, []eventstore.FilterPredicate{eventstore.P("ListingID", "7")}, item.Predicates())
				assert.False(t, item.AllPredicatesMustMatch())
			},
		},
		{
			name: "all_predicates_then_event_type",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AllPredicatesOf(eventstore.P("RenterID", "bob"), eventstore.P("ListingID", "3")).
					AndAnyEventTypeOf("BookReturned").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				item := f.Items()[0]
				assert.True(t, item.AllPredicatesMustMatch())
				assert.Equal(t, "ListingID", item.Predicates()[0].Key())
				assert.Equal(t, "RenterID", item.Predicates()[1].Key())
				assert.Equal(t, []string{"BookReturned"}, item.EventTypes())
			},
		},
		{
			name: "or_matching_creates_multiple_items",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("BookListed").
					OrMatching().
					AnyEventTypeOf("BookRented").
					AndAnyPredicateOf(eventstore.P("RenterID", "alice")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 2)
				assert.Equal(t, []string{"BookListed"}, f.Items()[0].EventTypes())
				assert.Equal(t, "alice", f.Items()[1].Predicates()[0].Val())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, tt.build())
		})
	}
}

func Test_FilterBuilder_WithLimit(t *testing.T) {
	// act
	limited := eventstore.BuildEventFilter().WithLimit(5).Matching().AnyEventTypeOf("BookListed").Finalize()
	unlimited := eventstore.BuildEventFilter().MatchingAnyEvent()

	// assert
	assert.Equal(t, uint(5), limited.Limit())
	assert.Len(t, limited.Items(), 1)
	assert.Equal(t, uint(0), unlimited.Limit())
}

func Test_FilterBuilder_PartialBuildersCanBeReused(t *testing.T) {
	// arrange
	base := eventstore.BuildEventFilter().Matching().AnyEventTypeOf("BookRented")

	// act
	first := base.AndAnyPredicateOf(eventstore.P("ListingID", "1")).Finalize()
	second := base.AndAnyPredicateOf(eventstore.P("ListingID", "2")).Finalize()

	// assert
	assert.Equal(t, "1", first.Items()[0].Predicates()[0].Val())
	assert.Equal(t, "2", second.Items()[0].Predicates()[0].Val())
	assert.Len(t, second.Items()[0].Predicates(), 1)
}
