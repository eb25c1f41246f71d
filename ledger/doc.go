// Package ledger is the entry point of the BookBnB rental ledger.
//
// A Ledger lists books for rent, rents them out against an exact payment of rent plus deposit,
// and settles the deposit when the book comes back. Every mutation appends exactly one event to
// the event store and runs its payouts through the escrow gateway inside the same append, so a
// failed payout leaves no trace. Reads are projections of the same events.
//
// Concurrent mutations behave as if they were executed one after the other: a command that lost
// an optimistic concurrency race is decided again on the fresh history.
package ledger
