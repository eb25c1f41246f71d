// Package rentalsbyrenter implements the Rentals By Renter query: the ids of the listings
// a principal currently rents, ascending. A returned listing leaves the set.
package rentalsbyrenter
