package rentalsbyrenter

import (
	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

const (
	queryType = "RentalsByRenter"
)

// Query represents the intent to query the listings currently rented by RenterID.
type Query struct {
	RenterID core.PrincipalString
}

// BuildQuery creates a new Query with the provided renter.
func BuildQuery(renterID core.PrincipalString) Query {
	return Query{
		RenterID: renterID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
