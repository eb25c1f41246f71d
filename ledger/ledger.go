package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/bookbnb/rental-ledger-go/ledger/core"
	"github.com/bookbnb/rental-ledger-go/ledger/escrow"
	"github.com/bookbnb/rental-ledger-go/ledger/features/command/listbook"
	"github.com/bookbnb/rental-ledger-go/ledger/features/command/rentbook"
	"github.com/bookbnb/rental-ledger-go/ledger/features/command/returnbook"
	"github.com/bookbnb/rental-ledger-go/ledger/features/query/escrowstatement"
	"github.com/bookbnb/rental-ledger-go/ledger/features/query/eventfeed"
	"github.com/bookbnb/rental-ledger-go/ledger/features/query/listingdetails"
	"github.com/bookbnb/rental-ledger-go/ledger/features/query/listings"
	"github.com/bookbnb/rental-ledger-go/ledger/features/query/rentalsbyrenter"
	"github.com/bookbnb/rental-ledger-go/ledger/shell"
	"github.com/bookbnb/rental-ledger-go/ledger/shell/observable"
)

// ErrUnexpectedEvent is returned when a command handler reports success with an event of the wrong type.
var ErrUnexpectedEvent = errors.New("command handler returned an unexpected event")

// ListingInput holds what an owner provides to list a book.
type ListingInput = core.ListingTerms

// Ledger is the rental ledger. It is safe for concurrent use.
type Ledger struct {
	clock            core.Clock
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
	retryOptions     []shell.RetryOption

	listBook   shell.CommandHandler[listbook.Command]
	rentBook   shell.CommandHandler[rentbook.Command]
	returnBook shell.CommandHandler[returnbook.Command]

	listingDetails  shell.QueryHandler[listingdetails.Query, listingdetails.ListingDetails]
	listings        shell.QueryHandler[listings.Query, listings.Listings]
	rentalsByRenter shell.QueryHandler[rentalsbyrenter.Query, rentalsbyrenter.Rentals]
	escrowStatement shell.QueryHandler[escrowstatement.Query, escrowstatement.Statement]
	eventFeed       shell.QueryHandler[eventfeed.Query, eventfeed.Feed]
}

// New creates a Ledger on top of eventStore, paying out through gateway.
func New(eventStore shell.AppendsEventsGuarded, gateway escrow.Gateway, opts ...Option) (*Ledger, error) {
	l := &Ledger{clock: core.SystemClock{}}

	for _, opt := range opts {
		opt(l)
	}

	var escrowOpts []escrow.Option
	if l.logger != nil {
		escrowOpts = append(escrowOpts, escrow.WithLogger(l.logger))
	}
	if l.contextualLogger != nil {
		escrowOpts = append(escrowOpts, escrow.WithContextualLogger(l.contextualLogger))
	}
	escrowLedger := escrow.NewLedger(gateway, escrowOpts...)

	var err error

	if l.listBook, err = wrapCommand[listbook.Command](l,
		listbook.NewCommandHandler(eventStore, listbook.WithRetryOptions(l.retryOptions...))); err != nil {
		return nil, err
	}

	if l.rentBook, err = wrapCommand[rentbook.Command](l,
		rentbook.NewCommandHandler(eventStore, escrowLedger, rentbook.WithRetryOptions(l.retryOptions...))); err != nil {
		return nil, err
	}

	if l.returnBook, err = wrapCommand[returnbook.Command](l,
		returnbook.NewCommandHandler(eventStore, escrowLedger, returnbook.WithRetryOptions(l.retryOptions...))); err != nil {
		return nil, err
	}

	if l.listingDetails, err = wrapQuery[listingdetails.Query, listingdetails.ListingDetails](l,
		listingdetails.NewQueryHandler(eventStore)); err != nil {
		return nil, err
	}

	if l.listings, err = wrapQuery[listings.Query, listings.Listings](l,
		listings.NewQueryHandler(eventStore)); err != nil {
		return nil, err
	}

	if l.rentalsByRenter, err = wrapQuery[rentalsbyrenter.Query, rentalsbyrenter.Rentals](l,
		rentalsbyrenter.NewQueryHandler(eventStore)); err != nil {
		return nil, err
	}

	if l.escrowStatement, err = wrapQuery[escrowstatement.Query, escrowstatement.Statement](l,
		escrowstatement.NewQueryHandler(eventStore)); err != nil {
		return nil, err
	}

	if l.eventFeed, err = wrapQuery[eventfeed.Query, eventfeed.Feed](l,
		eventfeed.NewQueryHandler(eventStore)); err != nil {
		return nil, err
	}

	return l, nil
}

func wrapCommand[C shell.Command](l *Ledger, handler shell.CommandHandler[C]) (shell.CommandHandler[C], error) {
	return observable.NewCommandWrapper(handler,
		observable.WithCommandMetrics[C](l.metricsCollector),
		observable.WithCommandTracing[C](l.tracingCollector),
		observable.WithCommandContextualLogging[C](l.contextualLogger),
		observable.WithCommandLogging[C](l.logger),
	)
}

func wrapQuery[Q shell.Query, R shell.QueryResult](l *Ledger, handler shell.QueryHandler[Q, R]) (shell.QueryHandler[Q, R], error) {
	return observable.NewQueryWrapper(handler,
		observable.WithQueryMetrics[Q, R](l.metricsCollector),
		observable.WithQueryTracing[Q, R](l.tracingCollector),
		observable.WithQueryContextualLogging[Q, R](l.contextualLogger),
		observable.WithQueryLogging[Q, R](l.logger),
	)
}

// List creates a listing owned by owner and returns its id.
func (l *Ledger) List(ctx context.Context, owner core.PrincipalString, input ListingInput) (core.ListingID, error) {
	result, err := l.listBook.Handle(ctx, listbook.BuildCommand(owner, input, l.clock.Now()))
	if err != nil {
		return 0, err
	}

	listed, ok := result.Event.(core.BookListed)
	if !ok {
		return 0, ErrUnexpectedEvent
	}

	return core.ParseListingID(listed.ListingID)
}

// Rent rents listing id to caller for days days. payment must be exactly rent plus deposit.
func (l *Ledger) Rent(
	ctx context.Context,
	caller core.PrincipalString,
	id core.ListingID,
	days int,
	payment core.Money,
) (RentReceipt, error) {

	result, err := l.rentBook.Handle(ctx, rentbook.BuildCommand(id, caller, days, payment, l.clock.Now()))
	if err != nil {
		return RentReceipt{}, err
	}

	rented, ok := result.Event.(core.BookRented)
	if !ok {
		return RentReceipt{}, ErrUnexpectedEvent
	}

	return rentReceiptFrom(id, rented, result.Metadata.MessageID), nil
}

// Return ends the rental of listing id, settling the deposit at the current time.
func (l *Ledger) Return(ctx context.Context, caller core.PrincipalString, id core.ListingID) (ReturnReceipt, error) {
	result, err := l.returnBook.Handle(ctx, returnbook.BuildCommand(id, caller, l.clock.Now()))
	if err != nil {
		return ReturnReceipt{}, err
	}

	returned, ok := result.Event.(core.BookReturned)
	if !ok {
		return ReturnReceipt{}, ErrUnexpectedEvent
	}

	return returnReceiptFrom(id, returned, result.Metadata.MessageID), nil
}

// Get returns a copy of listing id.
func (l *Ledger) Get(ctx context.Context, id core.ListingID) (core.Listing, error) {
	details, err := l.Details(ctx, id)
	if err != nil {
		return core.Listing{}, err
	}

	return details.Listing, nil
}

// Details returns listing id together with its due date and lateness right now.
func (l *Ledger) Details(ctx context.Context, id core.ListingID) (listingdetails.ListingDetails, error) {
	return l.listingDetails.Handle(ctx, listingdetails.BuildQuery(id, l.clock.Now()))
}

// Total is the number of listings ever created.
func (l *Ledger) Total(ctx context.Context) (int, error) {
	result, err := l.listings.Handle(ctx, listings.BuildQuery())
	if err != nil {
		return 0, err
	}

	return result.Total, nil
}

// Listings returns all listings in id order.
func (l *Ledger) Listings(ctx context.Context) ([]core.Listing, error) {
	result, err := l.listings.Handle(ctx, listings.BuildQuery())
	if err != nil {
		return nil, err
	}

	return result.Listings, nil
}

// DueDate is the zero time when listing id is not rented.
func (l *Ledger) DueDate(ctx context.Context, id core.ListingID) (time.Time, error) {
	details, err := l.Details(ctx, id)
	if err != nil {
		return time.Time{}, err
	}

	return details.DueDate, nil
}

// IsLate reports whether listing id is overdue by at least one full day, and by how many.
func (l *Ledger) IsLate(ctx context.Context, id core.ListingID) (bool, int64, error) {
	details, err := l.Details(ctx, id)
	if err != nil {
		return false, 0, err
	}

	return details.IsLate, details.LateDays, nil
}

// RentalsOf returns the ids principal currently rents, ascending.
func (l *Ledger) RentalsOf(ctx context.Context, principal core.PrincipalString) ([]core.ListingID, error) {
	result, err := l.rentalsByRenter.Handle(ctx, rentalsbyrenter.BuildQuery(principal))
	if err != nil {
		return nil, err
	}

	return result.ListingIDs, nil
}

// HasRented reports whether principal currently rents listing id.
func (l *Ledger) HasRented(ctx context.Context, principal core.PrincipalString, id core.ListingID) (bool, error) {
	result, err := l.rentalsByRenter.Handle(ctx, rentalsbyrenter.BuildQuery(principal))
	if err != nil {
		return false, err
	}

	return result.Includes(id), nil
}

// EscrowStatement returns the custody balance of the ledger.
func (l *Ledger) EscrowStatement(ctx context.Context) (escrowstatement.Statement, error) {
	return l.escrowStatement.Handle(ctx, escrowstatement.BuildQuery())
}

// Events returns up to limit ledger events with a sequence number greater than after.
func (l *Ledger) Events(ctx context.Context, after uint, limit int) (eventfeed.Feed, error) {
	return l.eventFeed.Handle(ctx, eventfeed.BuildQuery(after, limit))
}

// MaxRentalDays is the longest rental period that can be booked.
func (l *Ledger) MaxRentalDays() int {
	return core.MaxRentalDays
}
