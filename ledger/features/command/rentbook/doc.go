// Package rentbook implements the Rent Book use case: a renter pays the rent plus the deposit,
// the rent goes to the owner immediately and the deposit is held in escrow until the return.
//
// The rent payout is a commit guard of the append. If the payout fails, BookRented is not
// recorded and the renter keeps their payment.
package rentbook
