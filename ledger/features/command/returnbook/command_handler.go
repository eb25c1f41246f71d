package returnbook

import (
	"context"

	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
	"github.com/bookbnb/rental-ledger-go/ledger/shell"
)

// Escrow releases the deposit held for a rental. reference identifies the payout for deduplication.
type Escrow interface {
	SettleReturn(ctx context.Context, event core.BookReturned, reference string) error
}

// CommandHandler runs Query -> Decide -> Append for ReturnBook, with the deposit release as commit guard.
type CommandHandler struct {
	eventStore   shell.AppendsEventsGuarded
	escrow       Escrow
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

func NewCommandHandler(eventStore shell.AppendsEventsGuarded, escrow Escrow, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
		escrow:     escrow,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle returns the appended BookReturned. Business rule violations are returned as errors and leave the store untouched.
// A failed deposit release returns core.ErrTransferFailure and the listing stays rented.
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
	filter := BuildEventFilter(command.ListingID)

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

	returned, ok := result.Event.(core.BookReturned)
	if !ok {
		return nil, shell.EventMetadata{}, shell.ErrMappingToDomainEventFailed
	}

	metadata := shell.NewEventMetadata(ctx, command.CallerID)

	storableEvent, err := shell.StorableEventFrom(returned, metadata)
	if err != nil {
		return nil, shell.EventMetadata{}, err
	}

	guard := func(guardCtx context.Context) error {
		return h.escrow.SettleReturn(guardCtx, returned, metadata.MessageID)
	}

	if err = h.eventStore.AppendGuarded(ctx, filter, maxSequenceNumber, guard, storableEvent); err != nil {
		return nil, shell.EventMetadata{}, err
	}

	return returned, metadata, nil
}
