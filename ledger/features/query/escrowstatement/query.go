package escrowstatement

const (
	queryType = "EscrowStatement"
)

// Query asks for the escrow statement of the whole ledger.
type Query struct{}

func BuildQuery() Query {
	return Query{}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
