package eventstore

import (
	"cmp"
	"slices"
)

type FilterEventTypeString = string
type FilterKeyString = string
type FilterValString = string

/***** Filter *****/

// Filter describes a "dynamic event stream": its items are OR-ed, an optional lower sequence number bound is AND-ed.
type Filter struct {
	items                    []FilterItem
	sequenceNumberHigherThan uint
	limit                    uint
}

func (f Filter) Items() []FilterItem {
	return f.items
}

// SequenceNumberHigherThan returns the exclusive lower bound for sequence numbers, 0 means unbounded.
func (f Filter) SequenceNumberHigherThan() uint {
	return f.sequenceNumberHigherThan
}

// Limit returns the maximum number of events a Query returns, 0 means unbounded.
// Appends ignore it, the concurrency check always covers the whole stream.
func (f Filter) Limit() uint {
	return f.limit
}

/***** FilterItem *****/

// FilterItem matches events whose type is any of EventTypes AND whose payload satisfies the Predicates.
// Empty EventTypes or empty Predicates do not restrict.
type FilterItem struct {
	eventTypes             []FilterEventTypeString
	predicates             []FilterPredicate
	allPredicatesMustMatch bool
}

func (fi FilterItem) EventTypes() []FilterEventTypeString {
	return fi.eventTypes
}

func (fi FilterItem) Predicates() []FilterPredicate {
	return fi.predicates
}

// AllPredicatesMustMatch reports whether the predicates are AND-ed instead of OR-ed.
func (fi FilterItem) AllPredicatesMustMatch() bool {
	return fi.allPredicatesMustMatch
}

/***** FilterPredicate *****/

// FilterPredicate matches a top-level string property of the JSON payload.
type FilterPredicate struct {
	key FilterKeyString
	val FilterValString
}

// P is a short factory for FilterPredicate.
func P(key FilterKeyString, val FilterValString) FilterPredicate {
	return FilterPredicate{key: key, val: val}
}

func (fp FilterPredicate) Key() FilterKeyString {
	return fp.key
}

func (fp FilterPredicate) Val() FilterValString {
	return fp.val
}

/***** FilterBuilder *****/

// FilterBuilder only allows filter combinations that are useful for event-sourced workflows:
//
//   - empty filter
//   - (eventType OR eventType...)
//   - (predicate OR predicate...) or (predicate AND predicate...)
//   - ((eventType OR eventType...) AND (predicate OR/AND predicate...))
//   - any of the above OR-ed with further items
//
// Each can be limited to sequence numbers higher than a given one and, for queries, to a number of events.
type FilterBuilder interface {
	// Matching starts a new FilterItem.
	Matching() EmptyFilterItemBuilder

	// MatchingAnyEvent directly creates a Filter without items.
	MatchingAnyEvent() Filter

	// WithSequenceNumberHigherThan limits the resulting Filter to events stored after sequenceNumber.
	WithSequenceNumberHigherThan(sequenceNumber uint) FilterBuilder

	// WithLimit caps the number of events a Query returns, the first ones in sequence order are kept.
	WithLimit(limit uint) FilterBuilder
}

type EmptyFilterItemBuilder interface {
	// AnyEventTypeOf adds event types to the current FilterItem (sanitized: no empty, sorted, unique).
	AnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) FilterItemBuilderLackingPredicates

	// AnyPredicateOf adds predicates of which any must match (sanitized: no partial, sorted, unique).
	AnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEventTypes

	// AllPredicatesOf adds predicates which all must match (sanitized: no partial, sorted, unique).
	AllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEventTypes
}

type FilterItemBuilderLackingPredicates interface {
	AndAnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder
	AndAllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder
	OrMatching() EmptyFilterItemBuilder
	Finalize() Filter
}

type FilterItemBuilderLackingEventTypes interface {
	AndAnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) CompletedFilterItemBuilder
	OrMatching() EmptyFilterItemBuilder
	Finalize() Filter
}

type CompletedFilterItemBuilder interface {
	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// Finalize returns the Filter including the current FilterItem.
	Finalize() Filter
}

// filterBuilder implements all builder interfaces. It is a value type, so partial builders can be reused safely.
type filterBuilder struct {
	filter            Filter
	currentFilterItem FilterItem
}

// BuildEventFilter creates a FilterBuilder which must eventually be finalized with Finalize() or MatchingAnyEvent().
func BuildEventFilter() FilterBuilder {
	return filterBuilder{}
}

func (fb filterBuilder) WithSequenceNumberHigherThan(sequenceNumber uint) FilterBuilder {
	fb.filter.sequenceNumberHigherThan = sequenceNumber

	return fb
}

func (fb filterBuilder) WithLimit(limit uint) FilterBuilder {
	fb.filter.limit = limit

	return fb
}

func (fb filterBuilder) Matching() EmptyFilterItemBuilder {
	fb.currentFilterItem = FilterItem{}

	return fb
}

func (fb filterBuilder) AnyEventTypeOf(
	eventType FilterEventTypeString,
	eventTypes ...FilterEventTypeString,
) FilterItemBuilderLackingPredicates {

	fb.currentFilterItem.eventTypes = sanitizeEventTypes(
		append(slices.Clone(fb.currentFilterItem.eventTypes), append([]FilterEventTypeString{eventType}, eventTypes...)...),
	)

	return fb
}

func (fb filterBuilder) AndAnyEventTypeOf(
	eventType FilterEventTypeString,
	eventTypes ...FilterEventTypeString,
) CompletedFilterItemBuilder {

	return fb.AnyEventTypeOf(eventType, eventTypes...)
}

func (fb filterBuilder) AnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilderLackingEventTypes {

	fb.currentFilterItem.predicates = sanitizePredicates(
		append(slices.Clone(fb.currentFilterItem.predicates), append([]FilterPredicate{predicate}, predicates...)...),
	)

	return fb
}

func (fb filterBuilder) AndAnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedFilterItemBuilder {

	return fb.AnyPredicateOf(predicate, predicates...)
}

func (fb filterBuilder) AllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilderLackingEventTypes {

	fb.currentFilterItem.allPredicatesMustMatch = true

	return fb.AnyPredicateOf(predicate, predicates...)
}

func (fb filterBuilder) AndAllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedFilterItemBuilder {

	return fb.AllPredicatesOf(predicate, predicates...)
}

func (fb filterBuilder) OrMatching() EmptyFilterItemBuilder {
	fb.filter.items = append(slices.Clone(fb.filter.items), fb.currentFilterItem)
	fb.currentFilterItem = FilterItem{}

	return fb
}

func (fb filterBuilder) MatchingAnyEvent() Filter {
	return fb.filter
}

func (fb filterBuilder) Finalize() Filter {
	fb.filter.items = append(slices.Clone(fb.filter.items), fb.currentFilterItem)

	return fb.filter
}

func sanitizeEventTypes(eventTypes []FilterEventTypeString) []FilterEventTypeString {
	eventTypes = slices.DeleteFunc(eventTypes, func(e FilterEventTypeString) bool { return e == "" })
	slices.Sort(eventTypes)

	return slices.Clip(slices.Compact(eventTypes))
}

func sanitizePredicates(predicates []FilterPredicate) []FilterPredicate {
	predicates = slices.DeleteFunc(predicates, func(p FilterPredicate) bool { return p.key == "" || p.val == "" })
	slices.SortFunc(predicates, func(a, b FilterPredicate) int {
		if c := cmp.Compare(a.key, b.key); c != 0 {
			return c
		}

		return cmp.Compare(a.val, b.val)
	})

	return slices.Clip(slices.Compact(predicates))
}
