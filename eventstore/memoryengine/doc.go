// Package memoryengine provides an in-process implementation of the event store.
//
// It backs the ledger in tests and in single-node deployments without a database.
// Payload predicates are evaluated against the decoded JSON payload with the same
// semantics as the Postgres "payload @> {key: value}" containment check.
package memoryengine
