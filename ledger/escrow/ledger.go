package escrow

import (
	"context"

	"github.com/bookbnb/rental-ledger-go/ledger/core"
	"github.com/bookbnb/rental-ledger-go/ledger/shell"
)

// Gateway delivers a batch of payouts atomically.
type Gateway interface {
	Transfer(ctx context.Context, batch Batch) error
}

// Ledger settles rentals and returns through a Gateway.
type Ledger struct {
	gateway          Gateway
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets a logger for payout logging.
func WithLogger(logger shell.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithContextualLogger sets a contextual logger for payout logging, it takes precedence over WithLogger.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(l *Ledger) {
		l.contextualLogger = logger
	}
}

func NewLedger(gateway Gateway, opts ...Option) *Ledger {
	l := &Ledger{gateway: gateway}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// SettleRent pays the rent to the owner. The deposit stays in custody.
func (l *Ledger) SettleRent(ctx context.Context, event core.BookRented, reference string) error {
	batch := Batch{Reference: reference, ListingID: event.ListingID}.
		withPayout(event.OwnerID, event.RentPaid, ReasonRent)

	return l.transfer(ctx, batch)
}

// SettleReturn releases the held deposit: late fees to the owner, the rest back to the renter.
// Zero amounts are skipped.
func (l *Ledger) SettleReturn(ctx context.Context, event core.BookReturned, reference string) error {
	batch := Batch{Reference: reference, ListingID: event.ListingID}.
		withPayout(event.OwnerID, event.OwnerPaid, ReasonLateFee).
		withPayout(event.RenterID, event.RenterRefund, ReasonDepositRefund)

	return l.transfer(ctx, batch)
}

func (l *Ledger) transfer(ctx context.Context, batch Batch) error {
	if len(batch.Payouts) == 0 {
		return nil
	}

	if err := l.gateway.Transfer(ctx, batch); err != nil {
		shell.LogError(ctx, l.logger, l.contextualLogger, "escrow payout failed",
			"reference", batch.Reference,
			shell.LogAttrListingID, batch.ListingID,
			shell.LogAttrError, err.Error(),
		)

		return core.TransferFailed(err)
	}

	shell.LogSuccess(ctx, l.logger, l.contextualLogger, "escrow payout delivered",
		"reference", batch.Reference,
		shell.LogAttrListingID, batch.ListingID,
		"payouts", len(batch.Payouts),
		"total", batch.Total().String(),
	)

	return nil
}
