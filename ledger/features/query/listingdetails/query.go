package listingdetails

import (
	"time"

	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

const (
	queryType = "ListingDetails"
)

// Query asks for listing ListingID as of At. At only affects the lateness fields.
type Query struct {
	ListingID core.ListingID
	At        time.Time
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(listingID core.ListingID, at time.Time) Query {
	return Query{
		ListingID: listingID,
		At:        at,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
