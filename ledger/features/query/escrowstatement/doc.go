// Package escrowstatement implements the Escrow Statement query.
//
// The statement shows the deposits currently held in custody, per listing and in total, and the
// cumulative payouts per principal and reason. Everything tendered by renters either was paid
// out or is still held, so Received always equals PaidOut plus TotalHeld.
package escrowstatement
