// Package postgresengine provides the PostgreSQL implementation of the event store.
//
// It supports pgxpool.Pool (optionally with a read replica), database/sql with lib/pq and sqlx.DB.
// Every append runs in its own transaction:
//
//	LOCK TABLE events IN EXCLUSIVE MODE
//	WITH context AS (SELECT MAX(sequence_number) AS max_seq FROM events WHERE <filter>)
//	INSERT INTO events (...) SELECT ... WHERE COALESCE(max_seq, 0) = <expected>
//	-- commit guard runs here
//	COMMIT
//
// Usage:
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(pool, postgresengine.WithLogger(logger))
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.AppendGuarded(ctx, filter, maxSeq, payout, newEvent)
package postgresengine
