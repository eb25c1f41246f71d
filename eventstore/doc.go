// Package eventstore provides the storage-agnostic types of the rental ledger's event store:
// filters describing "dynamic event streams", the StorableEvent DTO, the errors shared by all
// engines, consistency hints and the dependency-free observability interfaces.
//
// A dynamic event stream is not a fixed aggregate stream. It is whatever the Filter matches:
//   - event types (OR)
//   - JSON payload predicates (OR or AND)
//   - a lower sequence number bound
//
// Engines (see memoryengine and postgresengine) implement the same contract:
//
//	filter := eventstore.BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(core.BookRentedEventType, core.BookReturnedEventType).
//		AndAnyPredicateOf(eventstore.P("ListingID", listingID.String())).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	// ... decide ...
//	err = store.Append(ctx, filter, maxSeq, newEvent)
//
// Append succeeds only if the stream's max sequence number still equals maxSeq,
// otherwise it fails with ErrConcurrencyConflict and nothing is written.
// AppendGuarded additionally runs a CommitGuard inside the append's transaction.
package eventstore
