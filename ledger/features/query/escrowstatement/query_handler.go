package escrowstatement

import (
	"context"

	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/shell"
)

// QueryHandler runs Query -> Project for EscrowStatement.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
	}
}

func (h QueryHandler) Handle(ctx context.Context, query Query) (Statement, error) {
	filter := BuildEventFilter()

	ctx = eventstore.WithEventualConsistency(ctx)

	storableEvents, maxSeq, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return Statement{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return Statement{}, err
	}

	return Project(history, query, maxSeq), nil
}
