// Package eventfeed implements the Event Feed query: the ledger's events after a sequence-number
// cursor, oldest first, with their metadata.
//
// Consumers page through the log by passing NextCursor as the next After. An empty page
// returns the cursor unchanged.
package eventfeed
