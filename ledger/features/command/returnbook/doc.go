// Package returnbook implements the Return Book use case: the renter gives the book back
// and the held deposit is split between the owner (late fees) and the renter (refund).
//
// Late days are counted in whole days past the due date. The owner's share is capped at the
// deposit, so a very late return forfeits the deposit and nothing more.
package returnbook
