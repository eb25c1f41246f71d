package memoryengine

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/bookbnb/rental-ledger-go/eventstore"
)

const (
	logMsgQueryCompleted      = "eventstore operation: query completed"
	logMsgEventsAppended      = "eventstore operation: events appended"
	logMsgConcurrencyConflict = "eventstore operation: concurrency conflict detected"
	logMsgCommitGuardRejected = "eventstore operation: commit guard rejected append"
	logAttrEventCount         = "event_count"
	logAttrMaxSequence        = "max_sequence"
	logAttrExpectedSequence   = "expected_sequence"
	logAttrError              = "error"
)

var ErrUndecodablePayload = errors.New("payload could not be decoded for predicate matching")

type record struct {
	event   eventstore.StorableEvent
	payload map[string]any
}

// EventStore keeps all events in process memory behind a mutex.
//
// Query and Append follow the same "dynamic event stream" contract as the Postgres engine,
// so command handlers cannot tell the two apart. Appends are fully serialized, which makes
// a CommitGuard run while no other append can interleave.
type EventStore struct {
	mu      sync.RWMutex
	records []record

	logger           eventstore.Logger
	contextualLogger eventstore.ContextualLogger
}

// NewEventStore creates an empty in-memory EventStore.
func NewEventStore(options ...Option) (*EventStore, error) {
	es := &EventStore{}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query returns the events matching filter in sequence order and the sequence number of the last one.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	if err := ctx.Err(); err != nil {
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	es.mu.RLock()
	defer es.mu.RUnlock()

	events := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, r := range es.records {
		if filter.Limit() > 0 && uint(len(events)) == filter.Limit() {
			break
		}

		if matches(filter, r) {
			events = append(events, r.event)
			maxSequenceNumber = r.event.SequenceNumber
		}
	}

	es.logOperation(ctx, logMsgQueryCompleted, logAttrEventCount, len(events), logAttrMaxSequence, maxSequenceNumber)

	return events, maxSequenceNumber, nil
}

// Append appends the events if the stream described by filter still ends at expectedMaxSequenceNumber.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	return es.AppendGuarded(ctx, filter, expectedMaxSequenceNumber, nil, event, additionalEvents...)
}

// AppendGuarded works like Append and runs guard after the concurrency check, before the events become visible.
// A guard error discards the events.
func (es *EventStore) AppendGuarded(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	guard eventstore.CommitGuard,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	if err := ctx.Err(); err != nil {
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	allEvents := append(eventstore.StorableEvents{event}, additionalEvents...)

	newRecords := make([]record, 0, len(allEvents))
	for _, e := range allEvents {
		payload, err := decodePayload(e.PayloadJSON)
		if err != nil {
			return errors.Join(eventstore.ErrAppendingEventFailed, err)
		}

		newRecords = append(newRecords, record{event: e, payload: payload})
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	if current := es.currentMaxSequenceNumber(filter); current != expectedMaxSequenceNumber {
		es.logOperation(
			ctx,
			logMsgConcurrencyConflict,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
			logAttrMaxSequence, current,
		)

		return eventstore.ErrConcurrencyConflict
	}

	if guard != nil {
		if err := guard(ctx); err != nil {
			es.logOperation(ctx, logMsgCommitGuardRejected, logAttrError, err.Error())

			return errors.Join(eventstore.ErrCommitGuardRejected, err)
		}
	}

	next := uint(len(es.records))
	for i := range newRecords {
		next++
		newRecords[i].event = newRecords[i].event.WithSequenceNumber(next)
		if newRecords[i].event.OccurredAt.IsZero() {
			newRecords[i].event.OccurredAt = time.Now().UTC()
		}
	}

	es.records = append(es.records, newRecords...)

	es.logOperation(ctx, logMsgEventsAppended, logAttrEventCount, len(newRecords), logAttrMaxSequence, next)

	return nil
}

// Len returns the number of stored events.
func (es *EventStore) Len() int {
	es.mu.RLock()
	defer es.mu.RUnlock()

	return len(es.records)
}

func (es *EventStore) currentMaxSequenceNumber(filter eventstore.Filter) eventstore.MaxSequenceNumberUint {
	for i := len(es.records) - 1; i >= 0; i-- {
		if matches(filter, es.records[i]) {
			return es.records[i].event.SequenceNumber
		}
	}

	return 0
}

func (es *EventStore) logOperation(ctx context.Context, msg string, args ...any) {
	if es.contextualLogger != nil {
		es.contextualLogger.InfoContext(ctx, msg, args...)
	}

	if es.logger != nil {
		es.logger.Debug(msg, args...)
	}
}

func decodePayload(payloadJSON []byte) (map[string]any, error) {
	payload := make(map[string]any)

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload); err != nil {
		return nil, errors.Join(ErrUndecodablePayload, err)
	}

	return payload, nil
}

func matches(filter eventstore.Filter, r record) bool {
	if r.event.SequenceNumber <= filter.SequenceNumberHigherThan() {
		return false
	}

	if len(filter.Items()) == 0 {
		return true
	}

	return slices.ContainsFunc(filter.Items(), func(item eventstore.FilterItem) bool {
		return matchesItem(item, r)
	})
}

func matchesItem(item eventstore.FilterItem, r record) bool {
	if len(item.EventTypes()) > 0 && !slices.Contains(item.EventTypes(), r.event.EventType) {
		return false
	}

	if len(item.Predicates()) == 0 {
		return true
	}

	predicateHolds := func(p eventstore.FilterPredicate) bool {
		val, ok := r.payload[p.Key()].(string)
		return ok && val == p.Val()
	}

	if item.AllPredicatesMustMatch() {
		for _, p := range item.Predicates() {
			if !predicateHolds(p) {
				return false
			}
		}

		return true
	}

	return slices.ContainsFunc(item.Predicates(), predicateHolds)
}
