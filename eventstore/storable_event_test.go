package eventstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_BuildStorableEvent_ErrorCases(t *testing.T) {
	validPayloadJSON := []byte(`{"ListingID": "1"}`)
	validMetadataJSON := []byte(`{"MessageID": "abc"}`)

	tests := []struct {
		name         string
		payloadJSON  []byte
		metadataJSON []byte
		expectedErr  error
	}{
		{name: "invalid payload JSON", payloadJSON: []byte(`{"invalid": json}`), metadataJSON: validMetadataJSON, expectedErr: ErrInvalidPayloadJSON},
		{name: "invalid metadata JSON", payloadJSON: validPayloadJSON, metadataJSON: []byte(`{"invalid": json}`), expectedErr: ErrInvalidMetadataJSON},
		{name: "empty payload JSON", payloadJSON: []byte(``), metadataJSON: validMetadataJSON, expectedErr: ErrInvalidPayloadJSON},
		{name: "nil metadata JSON", payloadJSON: validPayloadJSON, metadataJSON: nil, expectedErr: ErrInvalidMetadataJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildStorableEvent("BookListed", time.Now(), tt.payloadJSON, tt.metadataJSON)

			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func Test_BuildStorableEventWithEmptyMetadata(t *testing.T) {
	// arrange
	occurredAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// act
	event, err := BuildStorableEventWithEmptyMetadata("BookListed", occurredAt, []byte(`{"ListingID": "1"}`))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "BookListed", event.EventType)
	assert.Equal(t, occurredAt, event.OccurredAt)
	assert.JSONEq(t, `{}`, string(event.MetadataJSON))
	assert.Zero(t, event.SequenceNumber)
}

func Test_StorableEvent_WithSequenceNumber_ReturnsCopy(t *testing.T) {
	// arrange
	event, err := BuildStorableEventWithEmptyMetadata("BookRented", time.Now(), []byte(`{}`))
	assert.NoError(t, err)

	// act
	stored := event.WithSequenceNumber(9)

	// assert
	assert.Equal(t, uint(9), stored.SequenceNumber)
	assert.Zero(t, event.SequenceNumber)
}

func Test_GetConsistencyLevel_DefaultsToStrong(t *testing.T) {
	ctx := t.Context()

	assert.Equal(t, StrongConsistency, GetConsistencyLevel(ctx))
	assert.Equal(t, EventualConsistency, GetConsistencyLevel(WithEventualConsistency(ctx)))
	assert.Equal(t, "strong", GetConsistencyLevel(WithStrongConsistency(ctx)).String())
}
