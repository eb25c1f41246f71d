package listings

const (
	queryType = "Listings"
)

// Query asks for all listings.
type Query struct{}

func BuildQuery() Query {
	return Query{}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
