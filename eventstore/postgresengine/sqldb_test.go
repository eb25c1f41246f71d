package postgresengine_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/eventstore/postgresengine"
)

var (
	lockStatement = regexp.QuoteMeta(`LOCK TABLE "events" IN EXCLUSIVE MODE`)
	insertPattern = regexp.QuoteMeta(`INSERT INTO "events"`)
	selectPattern = `SELECT .+ FROM "events"`
)

func Test_SQLDB_Query_ReturnsEventsAndMaxSequenceNumber(t *testing.T) {
	// arrange
	es, mock := givenSQLMockEventStore(t)
	occurredAt := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(selectPattern).WillReturnRows(
		sqlmock.NewRows([]string{"event_type", "occurred_at", "payload", "metadata", "sequence_number"}).
			AddRow("BookListed", occurredAt, []byte(`{"ListingID":"1"}`), []byte(`{}`), int64(3)).
			AddRow("BookRented", occurredAt, []byte(`{"ListingID":"1"}`), []byte(`{}`), int64(7)),
	)

	// act
	events, maxSequenceNumber, err := es.Query(t.Context(), givenListingFilter("1"))

	// assert
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "BookRented", events[1].EventType)
	assert.Equal(t, uint(3), events[0].SequenceNumber)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(7), maxSequenceNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_SQLDB_Query_WrapsDriverErrors(t *testing.T) {
	// arrange
	es, mock := givenSQLMockEventStore(t)
	mock.ExpectQuery(selectPattern).WillReturnError(errors.New("connection reset"))

	// act
	_, _, err := es.Query(t.Context(), givenListingFilter("1"))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrQueryingEventsFailed)
}

func Test_SQLDB_AppendGuarded_LocksInsertsAndCommits(t *testing.T) {
	// arrange
	es, mock := givenSQLMockEventStore(t)
	guardCalls := 0

	mock.ExpectBegin()
	mock.ExpectExec(lockStatement).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(insertPattern).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// act
	err := es.AppendGuarded(t.Context(), givenListingFilter("1"), 0,
		func(context.Context) error {
			guardCalls++
			return nil
		},
		givenListedEvent(t),
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, guardCalls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_SQLDB_AppendGuarded_RollsBack(t *testing.T) {
	payoutErr := errors.New("payout declined")

	testCases := []struct {
		name            string
		insert          func(*sqlmock.ExpectedExec)
		guardErr        error
		expectedErr     error
		expectGuardCall bool
	}{
		{
			name:            "guard rejects",
			insert:          func(e *sqlmock.ExpectedExec) { e.WillReturnResult(sqlmock.NewResult(0, 1)) },
			guardErr:        payoutErr,
			expectedErr:     eventstore.ErrCommitGuardRejected,
			expectGuardCall: true,
		},
		{
			name:        "stream moved",
			insert:      func(e *sqlmock.ExpectedExec) { e.WillReturnResult(sqlmock.NewResult(0, 0)) },
			expectedErr: eventstore.ErrConcurrencyConflict,
		},
		{
			name: "serialization failure",
			insert: func(e *sqlmock.ExpectedExec) {
				e.WillReturnError(&pq.Error{Code: pq.ErrorCode(pgerrcode.SerializationFailure)})
			},
			expectedErr: eventstore.ErrConcurrencyConflict,
		},
		{
			name:        "other database error",
			insert:      func(e *sqlmock.ExpectedExec) { e.WillReturnError(errors.New("disk full")) },
			expectedErr: eventstore.ErrAppendingEventFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			es, mock := givenSQLMockEventStore(t)
			guardCalled := false

			mock.ExpectBegin()
			mock.ExpectExec(lockStatement).WillReturnResult(sqlmock.NewResult(0, 0))
			tc.insert(mock.ExpectExec(insertPattern))
			mock.ExpectRollback()

			// act
			err := es.AppendGuarded(t.Context(), givenListingFilter("1"), 4,
				func(context.Context) error {
					guardCalled = true
					return tc.guardErr
				},
				givenListedEvent(t),
			)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
			if tc.guardErr != nil {
				assert.ErrorIs(t, err, tc.guardErr)
			}
			assert.Equal(t, tc.expectGuardCall, guardCalled)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func givenSQLMockEventStore(t *testing.T) (*postgresengine.EventStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	es, err := postgresengine.NewEventStoreFromSQLDB(db)
	require.NoError(t, err)

	return es, mock
}

func givenListingFilter(listingID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("BookListed", "BookRented", "BookReturned").
		AndAnyPredicateOf(eventstore.P("ListingID", listingID)).
		Finalize()
}

func givenListedEvent(t *testing.T) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEventWithEmptyMetadata("BookListed", time.Now(), []byte(`{"ListingID":"1"}`))
	require.NoError(t, err)

	return event
}
