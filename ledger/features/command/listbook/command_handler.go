package listbook

import (
	"context"

	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
	"github.com/bookbnb/rental-ledger-go/ledger/shell"
)

// CommandHandler runs Query -> Decide -> Append for ListBook, retrying on concurrency conflicts.
type CommandHandler struct {
	eventStore   shell.AppendsEventsGuarded
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

func NewCommandHandler(eventStore shell.AppendsEventsGuarded, opts ...Option) CommandHandler {
	handler := CommandHandler{eventStore: eventStore}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle returns the appended BookListed event in the HandlerResult.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var appended core.DomainEvent
	var metadata shell.EventMetadata

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		appended, metadata, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(appended, metadata, retryMetrics), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.DomainEvent, shell.EventMetadata, error) {
	filter := BuildEventFilter()

	ctx = eventstore.WithStrongConsistency(ctx)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return nil, shell.EventMetadata{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return nil, shell.EventMetadata{}, err
	}

	result := Decide(history, command)
	if err = result.HasError(); err != nil {
		return nil, shell.EventMetadata{}, err
	}

	metadata := shell.NewEventMetadata(ctx, command.OwnerID)

	storableEvent, err := shell.StorableEventFrom(result.Event, metadata)
	if err != nil {
		return nil, shell.EventMetadata{}, err
	}

	if err = h.eventStore.AppendGuarded(ctx, filter, maxSequenceNumber, nil, storableEvent); err != nil {
		return nil, shell.EventMetadata{}, err
	}

	return result.Event, metadata, nil
}
