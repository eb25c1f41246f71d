package eventfeed

const (
	queryType = "EventFeed"

	// DefaultLimit is used when a Query has no positive limit.
	DefaultLimit = 100

	// MaxLimit caps the page size.
	MaxLimit = 1000
)

// Query asks for at most Limit events with a sequence number greater than After.
type Query struct {
	After uint
	Limit int
}

// BuildQuery creates a Query. The limit is clamped to 1..MaxLimit, 0 or less means DefaultLimit.
func BuildQuery(after uint, limit int) Query {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	return Query{
		After: after,
		Limit: limit,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
