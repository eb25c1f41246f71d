package rentbook_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbnb/rental-ledger-go/eventstore/memoryengine"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
	"github.com/bookbnb/rental-ledger-go/ledger/escrow"
	"github.com/bookbnb/rental-ledger-go/ledger/features/command/listbook"
	"github.com/bookbnb/rental-ledger-go/ledger/features/command/rentbook"
)

func Test_CommandHandler_Handle_PaysRentAndHoldsDeposit(t *testing.T) {
	// arrange
	es := givenEventStoreWithListing(t, "alice")
	gateway := escrow.NewInternalGateway()
	handler := rentbook.NewCommandHandler(es, escrow.NewLedger(gateway))

	// act
	result, err := handler.Handle(t.Context(), rentbook.BuildCommand(1, "bob", 2, money("0.12"), time.Now()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.BookRentedEventType, result.Event.IsEventType())
	assert.Equal(t, "bob", result.Metadata.Principal)
	assert.True(t, money("0.02").Equal(gateway.Balance("alice")))
	assert.True(t, gateway.Balance("bob").IsZero())
	require.Len(t, gateway.Delivered(), 1)
	assert.Equal(t, result.Metadata.MessageID, gateway.Delivered()[0].Reference)
	assert.Equal(t, 2, es.Len())
}

func Test_CommandHandler_Handle_TransferFailureRecordsNothing(t *testing.T) {
	// arrange
	es := givenEventStoreWithListing(t, "alice")
	gateway := escrow.NewInternalGateway("alice")
	handler := rentbook.NewCommandHandler(es, escrow.NewLedger(gateway))

	// act
	_, err := handler.Handle(t.Context(), rentbook.BuildCommand(1, "bob", 2, money("0.12"), time.Now()))

	// assert
	assert.ErrorIs(t, err, core.ErrTransferFailure)
	assert.ErrorIs(t, err, escrow.ErrRecipientBlocked)
	assert.Equal(t, 1, es.Len())
	assert.Empty(t, gateway.Delivered())
}

func Test_CommandHandler_Handle_RejectionDoesNotPay(t *testing.T) {
	// arrange
	es := givenEventStoreWithListing(t, "alice")
	gateway := escrow.NewInternalGateway()
	handler := rentbook.NewCommandHandler(es, escrow.NewLedger(gateway))

	// act
	_, err := handler.Handle(t.Context(), rentbook.BuildCommand(1, "bob", 2, money("0.5"), time.Now()))

	// assert
	assert.ErrorIs(t, err, core.ErrWrongPayment)
	assert.Empty(t, gateway.Delivered())
	assert.Equal(t, 1, es.Len())
}

func Test_CommandHandler_Handle_ConcurrentRentersOnlyOneWins(t *testing.T) {
	// arrange
	es := givenEventStoreWithListing(t, "alice")
	gateway := escrow.NewInternalGateway()
	handler := rentbook.NewCommandHandler(es, escrow.NewLedger(gateway))
	renters := []core.PrincipalString{"bob", "carol", "dave", "erin"}

	var wg sync.WaitGroup
	var succeeded, alreadyRented atomic.Int32

	// act
	for _, renter := range renters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := handler.Handle(t.Context(), rentbook.BuildCommand(1, renter, 2, money("0.12"), time.Now()))
			switch {
			case err == nil:
				succeeded.Add(1)
			case assert.ErrorIs(t, err, core.ErrAlreadyRented):
				alreadyRented.Add(1)
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(len(renters)-1), alreadyRented.Load())
	assert.Len(t, gateway.Delivered(), 1)
	assert.True(t, money("0.02").Equal(gateway.Balance("alice")))
	assert.Equal(t, 2, es.Len())
}

func givenEventStoreWithListing(t *testing.T, owner core.PrincipalString) *memoryengine.EventStore {
	t.Helper()

	es, err := memoryengine.NewEventStore()
	require.NoError(t, err)

	terms := core.ListingTerms{
		Title:         "Dune",
		PricePerDay:   money("0.01"),
		LateFeePerDay: money("0.015"),
		Deposit:       money("0.1"),
	}

	_, err = listbook.NewCommandHandler(es).Handle(t.Context(), listbook.BuildCommand(owner, terms, time.Now()))
	require.NoError(t, err)

	return es
}
