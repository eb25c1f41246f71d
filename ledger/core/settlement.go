package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement is the split of a held deposit at return time.
type Settlement struct {
	DueDate      time.Time
	LateDays     int64
	OwnerPaid    Money
	RenterRefund Money
}

// IsLate reports whether at least one full day passed since the due date.
func (s Settlement) IsLate() bool {
	return s.LateDays > 0
}

// DueDate is rentedAt plus daysBooked rental days.
func DueDate(rentedAt time.Time, daysBooked int) time.Time {
	return rentedAt.Add(time.Duration(daysBooked) * Day)
}

// LateDays counts the full days elapsed since dueDate, zero if now is not past it.
func LateDays(dueDate time.Time, now time.Time) int64 {
	overdue := now.Sub(dueDate)
	if overdue <= 0 {
		return 0
	}

	return int64(overdue / Day)
}

// ComputeSettlement charges lateFeePerDay for each late day, capped at the deposit,
// and refunds the rest of the deposit to the renter.
func ComputeSettlement(rentedAt time.Time, daysBooked int, deposit, lateFeePerDay Money, now time.Time) Settlement {
	dueDate := DueDate(rentedAt, daysBooked)
	lateDays := LateDays(dueDate, now)

	ownerPaid := decimal.Min(lateFeePerDay.Mul(decimal.NewFromInt(lateDays)), deposit)

	return Settlement{
		DueDate:      dueDate,
		LateDays:     lateDays,
		OwnerPaid:    ownerPaid,
		RenterRefund: deposit.Sub(ownerPaid),
	}
}

// RentCost is pricePerDay * days.
func RentCost(pricePerDay Money, days int) Money {
	return pricePerDay.Mul(decimal.NewFromInt(int64(days)))
}

// AmountDue is what a renter must tender for days: the rent plus the deposit.
func AmountDue(pricePerDay, deposit Money, days int) Money {
	return RentCost(pricePerDay, days).Add(deposit)
}
