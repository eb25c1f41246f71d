package ledger

import (
	"time"

	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

// RentReceipt confirms a rental.
type RentReceipt struct {
	ListingID   core.ListingID
	Renter      core.PrincipalString
	Owner       core.PrincipalString
	DaysBooked  int
	RentPaid    core.Money
	DepositHeld core.Money
	RentedAt    time.Time
	DueDate     time.Time
	Reference   string
}

// ReturnReceipt confirms a return and how the deposit was split.
type ReturnReceipt struct {
	ListingID    core.ListingID
	Renter       core.PrincipalString
	Owner        core.PrincipalString
	LateDays     int64
	OwnerPaid    core.Money
	RenterRefund core.Money
	ReturnedAt   time.Time
	Reference    string
}

func rentReceiptFrom(id core.ListingID, event core.BookRented, reference string) RentReceipt {
	return RentReceipt{
		ListingID:   id,
		Renter:      event.RenterID,
		Owner:       event.OwnerID,
		DaysBooked:  event.DaysBooked,
		RentPaid:    event.RentPaid,
		DepositHeld: event.DepositHeld,
		RentedAt:    event.OccurredAt,
		DueDate:     core.DueDate(event.OccurredAt, event.DaysBooked),
		Reference:   reference,
	}
}

func returnReceiptFrom(id core.ListingID, event core.BookReturned, reference string) ReturnReceipt {
	return ReturnReceipt{
		ListingID:    id,
		Renter:       event.RenterID,
		Owner:        event.OwnerID,
		LateDays:     event.LateDays,
		OwnerPaid:    event.OwnerPaid,
		RenterRefund: event.RenterRefund,
		ReturnedAt:   event.OccurredAt,
		Reference:    reference,
	}
}
