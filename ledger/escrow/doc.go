// Package escrow moves the money of the ledger.
//
// The Ledger turns a rental or return event into a batch of payouts and hands the batch to a Gateway.
// A batch is all-or-nothing: either every payout of it is delivered or none is, and the failure
// surfaces as core.ErrTransferFailure. Command handlers call the Ledger from inside the commit guard
// of their append, so a failed payout also discards the event.
//
// Deposits stay in custody between rent and return. The custody balance is not stored here,
// it is projected from the event log by the escrowstatement query.
package escrow
