package core_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

func Test_ComputeSettlement(t *testing.T) {
	rentedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	deposit := decimal.RequireFromString("0.1")
	lateFee := decimal.RequireFromString("0.015")

	testCases := []struct {
		name             string
		now              time.Time
		expectedLateDays int64
		expectedOwner    string
		expectedRefund   string
	}{
		{name: "returned early", now: rentedAt.Add(24 * time.Hour), expectedLateDays: 0, expectedOwner: "0", expectedRefund: "0.1"},
		{name: "returned exactly at due date", now: rentedAt.Add(2 * core.Day), expectedLateDays: 0, expectedOwner: "0", expectedRefund: "0.1"},
		{name: "less than one full late day", now: rentedAt.Add(3*core.Day - time.Second), expectedLateDays: 0, expectedOwner: "0", expectedRefund: "0.1"},
		{name: "exactly one late day", now: rentedAt.Add(3 * core.Day), expectedLateDays: 1, expectedOwner: "0.015", expectedRefund: "0.085"},
		{name: "two late days", now: rentedAt.Add(4 * core.Day), expectedLateDays: 2, expectedOwner: "0.03", expectedRefund: "0.07"},
		{name: "late fees capped at deposit", now: rentedAt.Add(10 * core.Day), expectedLateDays: 8, expectedOwner: "0.1", expectedRefund: "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			settlement := core.ComputeSettlement(rentedAt, 2, deposit, lateFee, tc.now)

			// assert
			assert.Equal(t, rentedAt.Add(2*core.Day), settlement.DueDate)
			assert.Equal(t, tc.expectedLateDays, settlement.LateDays)
			assert.Equal(t, tc.expectedLateDays > 0, settlement.IsLate())
			assertMoney(t, tc.expectedOwner, settlement.OwnerPaid)
			assertMoney(t, tc.expectedRefund, settlement.RenterRefund)
			assert.True(t, settlement.OwnerPaid.Add(settlement.RenterRefund).Equal(deposit))
		})
	}
}

func Test_AmountDue_IsRentPlusDeposit(t *testing.T) {
	// act
	amount := core.AmountDue(decimal.RequireFromString("0.01"), decimal.RequireFromString("0.1"), 2)

	// assert
	assertMoney(t, "0.12", amount)
	assertMoney(t, "0.02", core.RentCost(decimal.RequireFromString("0.01"), 2))
}

func Test_LateDays_IsZeroBeforeDueDate(t *testing.T) {
	dueDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(0), core.LateDays(dueDate, dueDate.Add(-5*core.Day)))
}

func assertMoney(t *testing.T, expected string, actual core.Money) {
	t.Helper()

	assert.Truef(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}
