// Package adapters hides the differences between pgxpool.Pool, sql.DB and sqlx.DB behind DBAdapter.
//
// Every adapter can run plain statements and open a transaction in which the event store
// locks the events table, inserts, runs its commit guard and commits.
package adapters
