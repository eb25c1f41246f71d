package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"

	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/eventstore/postgresengine/internal/adapters"
)

const (
	defaultEventTableName = "events"

	colEventType      = "event_type"
	colOccurredAt     = "occurred_at"
	colPayload        = "payload"
	colMetadata       = "metadata"
	colSequenceNumber = "sequence_number"
	cteContext        = "context"
	cteVals           = "vals"
	dialectPostgres   = "postgres"
	aliasMaxSeq       = "max_seq"
	castText          = "?::text"
	castTimestamp     = "?::timestamp with time zone"
	castJsonb         = "?::jsonb"
	containsJsonb     = "payload @> ?::jsonb"
)

type sqlQueryString = string

// EventStore is the Postgres implementation of the dynamic-event-stream store.
//
// Appends run in a transaction that first takes an EXCLUSIVE lock on the events table,
// so all appends are serialized while reads continue. The optimistic concurrency check is
// the CTE of the insert statement: no row is inserted if the stream moved on.
type EventStore struct {
	db               adapters.DBAdapter
	eventTableName   string
	logger           eventstore.Logger
	contextualLogger eventstore.ContextualLogger
	metricsCollector eventstore.MetricsCollector
	tracingCollector eventstore.TracingCollector
}

type queryResultRow struct {
	eventType      string
	payload        []byte
	metadata       []byte
	occurredAt     time.Time
	sequenceNumber eventstore.MaxSequenceNumberUint
}

// NewEventStoreFromPGXPool creates a new EventStore using a pgx Pool with optional configuration.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromPGXPoolAndReplica serves eventually consistent queries from replica.
func NewEventStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil || replica == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewEventStoreFromSQLDB creates a new EventStore using a sql.DB with optional configuration.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates a new EventStore using a sqlx.DB with optional configuration.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (*EventStore, error) {
	es := &EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query retrieves the events matching filter ordered by sequence number,
// together with the MaxSequenceNumberUint of this "dynamic event stream" at the time of the query.
// With a Filter limit, the sequence number is the one of the last event returned.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	obs := es.startObservation(ctx, operationQuery, nil)

	sqlQuery, buildQueryErr := es.buildSelectQuery(filter)
	if buildQueryErr != nil {
		obs.fail(errorTypeBuildQuery, buildQueryErr)
		return nil, 0, buildQueryErr
	}

	start := time.Now()
	rows, queryErr := es.db.Query(obs.ctx, sqlQuery)
	es.logSQL(obs.ctx, operationQuery, sqlQuery, time.Since(start))

	if queryErr != nil {
		obs.fail(errorTypeDatabaseQuery, queryErr, logAttrQuery, sqlQuery)
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}
	defer es.closeRows(obs.ctx, rows)

	eventStream, maxSequenceNumber, scanErr := es.processQueryResults(rows)
	if scanErr != nil {
		obs.fail(errorTypeRowScan, scanErr)
		return nil, 0, scanErr
	}

	obs.succeedQuery(len(eventStream), maxSequenceNumber)

	return eventStream, maxSequenceNumber, nil
}

func (es *EventStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		es.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

func (es *EventStore) processQueryResults(rows adapters.DBRows) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	result := queryResultRow{}
	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		rowScanErr := rows.Scan(&result.eventType, &result.occurredAt, &result.payload, &result.metadata, &result.sequenceNumber)
		if rowScanErr != nil {
			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, rowScanErr)
		}

		event, buildStorableErr := eventstore.BuildStorableEvent(result.eventType, result.occurredAt, result.payload, result.metadata)
		if buildStorableErr != nil {
			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildStorableErr)
		}

		eventStream = append(eventStream, event.WithSequenceNumber(result.sequenceNumber))
		maxSequenceNumber = result.sequenceNumber
	}

	if err := rows.Err(); err != nil {
		return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, err)
	}

	return eventStream, maxSequenceNumber, nil
}

// Append appends one or multiple events if the "dynamic event stream" described by filter
// still ends at expectedMaxSequenceNumber. The filter should be the one used for the Query
// the business decision was based on.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	return es.AppendGuarded(ctx, filter, expectedMaxSequenceNumber, nil, event, additionalEvents...)
}

// AppendGuarded works like Append and runs guard inside the append's transaction after the insert.
// A guard error rolls the insert back and is returned joined with eventstore.ErrCommitGuardRejected.
//
// If the commit itself fails after the guard succeeded, the side effects of the guard are not undone.
// This is logged at error level with the expected sequence number so it can be reconciled, and the error
// is joined with eventstore.ErrCommitAfterGuardFailed instead of ErrConcurrencyConflict, even for
// serialization failures, so callers do not retry it.
func (es *EventStore) AppendGuarded(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	guard eventstore.CommitGuard,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	allEvents := append(eventstore.StorableEvents{event}, additionalEvents...)
	obs := es.startObservation(ctx, operationAppend, map[string]string{
		spanAttrEventType:   event.EventType,
		spanAttrEventCount:  fmt.Sprintf("%d", len(allEvents)),
		spanAttrExpectedSeq: fmt.Sprintf("%d", expectedMaxSequenceNumber),
	})

	sqlQuery, buildQueryErr := es.buildInsertQuery(allEvents, filter, expectedMaxSequenceNumber)
	if buildQueryErr != nil {
		obs.fail(errorTypeBuildQuery, buildQueryErr)
		return buildQueryErr
	}

	tx, beginErr := es.db.Begin(obs.ctx)
	if beginErr != nil {
		obs.fail(errorTypeDatabaseExec, beginErr)
		return errors.Join(eventstore.ErrAppendingEventFailed, beginErr)
	}

	committed := false
	defer func() {
		if !committed {
			if rollbackErr := tx.Rollback(context.WithoutCancel(obs.ctx)); rollbackErr != nil {
				es.logWarn(obs.ctx, logMsgRollbackFailed, logAttrError, rollbackErr.Error())
			}
		}
	}()

	if _, lockErr := tx.Exec(obs.ctx, es.lockTableStatement()); lockErr != nil {
		return es.failAppend(obs, lockErr, sqlQuery)
	}

	start := time.Now()
	result, execErr := tx.Exec(obs.ctx, sqlQuery)
	es.logSQL(obs.ctx, operationAppend, sqlQuery, time.Since(start))

	if execErr != nil {
		return es.failAppend(obs, execErr, sqlQuery)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		obs.fail(errorTypeRowsAffected, rowsAffectedErr)
		return errors.Join(eventstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if rowsAffected < int64(len(allEvents)) {
		obs.conflict(len(allEvents), rowsAffected, expectedMaxSequenceNumber)
		return eventstore.ErrConcurrencyConflict
	}

	if guard != nil {
		if guardErr := guard(obs.ctx); guardErr != nil {
			obs.guardRejected(guardErr)
			return errors.Join(eventstore.ErrCommitGuardRejected, guardErr)
		}
	}

	if commitErr := tx.Commit(obs.ctx); commitErr != nil {
		if guard != nil {
			es.logError(obs.ctx, logMsgCommitAfterGuardFailed, commitErr, logAttrExpectedSequence, expectedMaxSequenceNumber)
			obs.fail(errorTypeCommit, commitErr)
			return errors.Join(eventstore.ErrCommitAfterGuardFailed, eventstore.ErrCommittingAppendFailed, commitErr)
		}

		if isSerializationConflict(commitErr) {
			obs.conflict(len(allEvents), 0, expectedMaxSequenceNumber)
			return eventstore.ErrConcurrencyConflict
		}

		obs.fail(errorTypeCommit, commitErr)
		return errors.Join(eventstore.ErrCommittingAppendFailed, commitErr)
	}

	committed = true
	obs.succeedAppend(len(allEvents), rowsAffected)

	return nil
}

func (es *EventStore) failAppend(obs *observation, err error, sqlQuery string) error {
	if isSerializationConflict(err) {
		obs.conflict(0, 0, 0)
		return eventstore.ErrConcurrencyConflict
	}

	obs.fail(errorTypeDatabaseExec, err, logAttrQuery, sqlQuery)

	return errors.Join(eventstore.ErrAppendingEventFailed, err)
}

// isSerializationConflict recognizes failures that mean "retry the whole decision" for both drivers.
func isSerializationConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgerrcode.SerializationFailure || string(pqErr.Code) == pgerrcode.DeadlockDetected
	}

	return false
}

func (es *EventStore) lockTableStatement() sqlQueryString {
	return "LOCK TABLE " + pgx.Identifier(strings.Split(es.eventTableName, ".")).Sanitize() + " IN EXCLUSIVE MODE"
}

func (es *EventStore) buildSelectQuery(filter eventstore.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt, err := es.addWhereClause(filter, selectStmt)
	if err != nil {
		return "", err
	}

	if filter.Limit() > 0 {
		selectStmt = selectStmt.Limit(filter.Limit())
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) buildInsertQuery(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, err := es.addWhereClause(
		filter,
		builder.From(es.eventTableName).Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq)),
	)
	if err != nil {
		return "", err
	}

	valueStmts := make([]*goqu.SelectDataset, len(events))
	for i, event := range events {
		valueStmts[i] = builder.Select(
			goqu.L(castText, event.EventType).As(colEventType),
			goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
			goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
		)
	}

	valuesStmt := valueStmts[0]
	for _, stmt := range valueStmts[1:] {
		valuesStmt = valuesStmt.UnionAll(stmt)
	}

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					goqu.T(cteVals).Col(colEventType),
					goqu.T(cteVals).Col(colOccurredAt),
					goqu.T(cteVals).Col(colPayload),
					goqu.T(cteVals).Col(colMetadata),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) addWhereClause(filter eventstore.Filter, selectStmt *goqu.SelectDataset) (*goqu.SelectDataset, error) {
	itemsExpressions := make([]goqu.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		eventTypeExpressions := make([]goqu.Expression, 0, len(item.EventTypes()))
		for _, eventType := range item.EventTypes() {
			eventTypeExpressions = append(eventTypeExpressions, goqu.Ex{colEventType: eventType})
		}

		predicateExpressions := make([]goqu.Expression, 0, len(item.Predicates()))
		for _, predicate := range item.Predicates() {
			containment, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(
				map[string]string{predicate.Key(): predicate.Val()},
			)
			if err != nil {
				return nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
			}

			predicateExpressions = append(predicateExpressions, goqu.L(containsJsonb, string(containment)))
		}

		var predicatesExpressionList exp.ExpressionList
		if item.AllPredicatesMustMatch() {
			predicatesExpressionList = goqu.And(predicateExpressions...)
		} else {
			predicatesExpressionList = goqu.Or(predicateExpressions...)
		}

		itemsExpressions = append(itemsExpressions, goqu.And(goqu.Or(eventTypeExpressions...), predicatesExpressionList))
	}

	conditions := []goqu.Expression{goqu.Or(itemsExpressions...)}

	if filter.SequenceNumberHigherThan() > 0 {
		conditions = append(conditions, goqu.C(colSequenceNumber).Gt(filter.SequenceNumberHigherThan()))
	}

	return selectStmt.Where(goqu.And(conditions...)), nil
}
