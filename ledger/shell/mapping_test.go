package shell_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbnb/rental-ledger-go/eventstore"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
	"github.com/bookbnb/rental-ledger-go/ledger/shell"
)

func Test_StorableEventFrom_RoundTripsAllLedgerEvents(t *testing.T) {
	// arrange
	now := time.Date(2026, 3, 1, 9, 30, 0, 123456000, time.UTC)
	price := decimal.RequireFromString("0.01")
	deposit := decimal.RequireFromString("0.1")

	events := core.DomainEvents{
		core.BuildBookListed(3, "alice", core.ListingTerms{
			Title:         "Dune",
			PricePerDay:   price,
			LateFeePerDay: decimal.RequireFromString("0.015"),
			Deposit:       deposit,
		}, now),
		core.BuildBookRented("3", "alice", "bob", 2, decimal.RequireFromString("0.02"), deposit, now),
		core.BuildBookReturned("3", "alice", "bob", core.ComputeSettlement(now, 2, deposit, price, now.Add(4*core.Day)), now),
	}

	for _, event := range events {
		t.Run(event.IsEventType(), func(t *testing.T) {
			metadata := shell.NewEventMetadata(t.Context(), "bob")

			// act
			storable, err := shell.StorableEventFrom(event, metadata)
			require.NoError(t, err)
			mapped, mapErr := shell.DomainEventFrom(storable)
			envelope, envelopeErr := shell.EventEnvelopeFrom(storable.WithSequenceNumber(9))

			// assert
			require.NoError(t, mapErr)
			require.NoError(t, envelopeErr)
			assert.Equal(t, event.IsEventType(), storable.EventType)
			assert.Equal(t, event.HasOccurredAt(), storable.OccurredAt)
			assert.Equal(t, event.ListingKey(), mapped.ListingKey())
			assert.True(t, mapped.HasOccurredAt().Equal(event.HasOccurredAt()))
			assert.Equal(t, uint(9), envelope.SequenceNumber)
			assert.Equal(t, metadata, envelope.EventMetadata)
			assert.Equal(t, "bob", envelope.EventMetadata.Principal)
		})
	}
}

func Test_StorableEventFrom_PayloadCarriesListingIDPredicate(t *testing.T) {
	// arrange
	event := core.BuildBookRented("12", "alice", "bob", 1, decimal.RequireFromString("1"), decimal.RequireFromString("2"), time.Now())

	// act
	storable, err := shell.StorableEventFrom(event, shell.EventMetadata{})

	// assert
	require.NoError(t, err)
	assert.Contains(t, string(storable.PayloadJSON), `"ListingID":"12"`)
	assert.Contains(t, string(storable.PayloadJSON), `"RenterID":"bob"`)
	assert.Contains(t, string(storable.PayloadJSON), `"RentPaid":"1"`)
}

func Test_DomainEventFrom_PreservesMoneyExactly(t *testing.T) {
	// arrange
	event := core.BuildBookRented("1", "alice", "bob", 3, decimal.RequireFromString("0.030000000000000001"), decimal.RequireFromString("0.1"), time.Now())
	storable, err := shell.StorableEventFrom(event, shell.EventMetadata{})
	require.NoError(t, err)

	// act
	mapped, err := shell.DomainEventFrom(storable)

	// assert
	require.NoError(t, err)
	rented, ok := mapped.(core.BookRented)
	require.True(t, ok)
	assert.True(t, rented.RentPaid.Equal(event.RentPaid))
	assert.Equal(t, 3, rented.DaysBooked)
}

func Test_DomainEventFrom_UnknownEventType(t *testing.T) {
	// arrange
	storable, err := eventstore.BuildStorableEventWithEmptyMetadata("BookBurned", time.Now(), []byte(`{}`))
	require.NoError(t, err)

	// act
	_, err = shell.DomainEventFrom(storable)

	// assert
	assert.ErrorIs(t, err, shell.ErrMappingToDomainEventFailed)
	assert.ErrorIs(t, err, shell.ErrMappingToDomainEventUnknownEventType)
}

func Test_DomainEventFrom_BrokenPayload(t *testing.T) {
	// arrange
	storable, err := eventstore.BuildStorableEventWithEmptyMetadata(core.BookListedEventType, time.Now(), []byte(`{"DaysBooked": "many"}`))
	require.NoError(t, err)
	storable.EventType = core.BookRentedEventType

	// act
	_, err = shell.DomainEventFrom(storable)

	// assert
	assert.ErrorIs(t, err, shell.ErrMappingToDomainEventFailed)
}

func Test_NewEventMetadata_UsesCorrelationIDFromContext(t *testing.T) {
	// arrange
	ctx := shell.WithCorrelationID(context.Background(), "req-42")

	// act
	withCorrelation := shell.NewEventMetadata(ctx, "alice")
	withoutCorrelation := shell.NewEventMetadata(context.Background(), "alice")

	// assert
	assert.Equal(t, "req-42", withCorrelation.CorrelationID)
	assert.NotEmpty(t, withCorrelation.MessageID)
	assert.Equal(t, withCorrelation.MessageID, withCorrelation.CausationID)
	assert.Equal(t, withoutCorrelation.MessageID, withoutCorrelation.CorrelationID)
	assert.NotEqual(t, withCorrelation.MessageID, withoutCorrelation.MessageID)
}
