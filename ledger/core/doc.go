// Package core is the pure domain of the rental ledger: the ledger events, the Listing record
// and how events evolve it, the fee engine, the error taxonomy and the clock abstraction.
//
// Nothing in here performs I/O. The feature slices decide on a history of core events,
// the shell maps them to and from storable events.
package core
