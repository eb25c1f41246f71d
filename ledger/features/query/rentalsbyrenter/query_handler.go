package rentalsbyrenter

import (
	"context"

	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/shell"
)

// QueryHandler runs Query -> Project for RentalsByRenter.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
	}
}

func (h QueryHandler) Handle(ctx context.Context, query Query) (Rentals, error) {
	filter := BuildEventFilter(query.RenterID)

	ctx = eventstore.WithEventualConsistency(ctx)

	storableEvents, maxSeq, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return Rentals{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return Rentals{}, err
	}

	return Project(history, query, maxSeq), nil
}
