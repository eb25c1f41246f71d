package eventfeed

import (
	"context"

	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/shell"
)

// QueryHandler runs Query -> Project for EventFeed.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
	}
}

// Handle reads one event more than the page holds, so HasMore is known without a second query.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Feed, error) {
	filter := BuildEventFilter(query.After, BuildQuery(query.After, query.Limit).Limit+1)

	ctx = eventstore.WithEventualConsistency(ctx)

	storableEvents, maxSeq, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return Feed{}, err
	}

	envelopes, err := shell.EventEnvelopesFrom(storableEvents)
	if err != nil {
		return Feed{}, err
	}

	return Project(envelopes, query, maxSeq), nil
}
