// Package shell holds the infrastructure shared by the ledger's feature slices:
// mapping between core events and storable events, event metadata, the retry loop for
// optimistic concurrency conflicts, and the observability helpers used by the observable wrappers.
package shell
