package eventstore

import (
	"context"
	"errors"
)

var (
	// ErrEmptyEventsTableName is returned when an empty table name is supplied to an engine.
	ErrEmptyEventsTableName = errors.New("events table name must not be empty")

	// ErrNilDatabaseConnection is returned when a nil connection is supplied to an engine factory.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrConcurrencyConflict is returned by Append when the "dynamic event stream" has changed since it was queried.
	ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")

	ErrQueryingEventsFailed        = errors.New("querying events failed")
	ErrScanningDBRowFailed         = errors.New("scanning db row failed")
	ErrBuildingStorableEventFailed = errors.New("building storable event failed")
	ErrBuildingQueryFailed         = errors.New("building query failed")
	ErrAppendingEventFailed        = errors.New("appending the event failed")
	ErrGettingRowsAffectedFailed   = errors.New("getting rows affected failed")
	ErrCommittingAppendFailed      = errors.New("committing the append transaction failed")

	// ErrCommitGuardRejected wraps the error of a CommitGuard that vetoed an append.
	ErrCommitGuardRejected = errors.New("commit guard rejected the append")

	// ErrCommitAfterGuardFailed marks a failed commit whose CommitGuard already ran. It is never a concurrency conflict,
	// retrying would run the guard's side effects a second time.
	ErrCommitAfterGuardFailed = errors.New("commit failed after the commit guard succeeded")
)

// MaxSequenceNumberUint is a type alias for uint, representing the maximum sequence number for a "dynamic event stream".
type MaxSequenceNumberUint = uint

// CommitGuard runs after the events of an append have been written but before they become visible.
//
// Returning an error aborts the append; nothing of it is persisted.
// Engines run the guard at most once per append and never for an append that lost a concurrency check.
type CommitGuard func(ctx context.Context) error
