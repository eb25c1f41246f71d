package escrow

import (
	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

// Reason says why a payout is made.
type Reason string

const (
	ReasonRent          Reason = "rent"
	ReasonLateFee       Reason = "late_fee"
	ReasonDepositRefund Reason = "deposit_refund"
)

// Payout is one transfer out of custody.
type Payout struct {
	Recipient core.PrincipalString `json:"recipient"`
	Amount    core.Money           `json:"amount"`
	Reason    Reason               `json:"reason"`
}

// Batch is a set of payouts that must be delivered together.
// Reference is unique per batch and is used as the idempotency key by gateways.
type Batch struct {
	Reference string               `json:"reference"`
	ListingID core.ListingIDString `json:"listingId"`
	Payouts   []Payout             `json:"payouts"`
}

// Total is the sum of all payouts of the batch.
func (b Batch) Total() core.Money {
	total := core.Money{}
	for _, payout := range b.Payouts {
		total = total.Add(payout.Amount)
	}

	return total
}

func (b Batch) withPayout(recipient core.PrincipalString, amount core.Money, reason Reason) Batch {
	if amount.IsZero() {
		return b
	}

	b.Payouts = append(b.Payouts, Payout{Recipient: recipient, Amount: amount, Reason: reason})

	return b
}
