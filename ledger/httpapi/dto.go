package httpapi

import (
	"time"

	"github.com/bookbnb/rental-ledger-go/ledger"
	"github.com/bookbnb/rental-ledger-go/ledger/core"
	"github.com/bookbnb/rental-ledger-go/ledger/features/query/escrowstatement"
	"github.com/bookbnb/rental-ledger-go/ledger/features/query/eventfeed"
	"github.com/bookbnb/rental-ledger-go/ledger/features/query/listingdetails"
)

type listBookRequest struct {
	Title         string `json:"title" validate:"required,max=200"`
	Description   string `json:"description" validate:"max=4000"`
	ImageRef      string `json:"image_ref" validate:"omitempty,max=1024"`
	PricePerDay   string `json:"price_per_day" validate:"required,numeric"`
	LateFeePerDay string `json:"late_fee_per_day" validate:"required,numeric"`
	Deposit       string `json:"deposit" validate:"required,numeric"`
}

type rentBookRequest struct {
	Days    *int   `json:"days" validate:"required"`
	Payment string `json:"payment" validate:"required,numeric"`
}

// unixSeconds renders due dates; the zero time (not rented) becomes 0.
func unixSeconds(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.Unix()
}

type listBookResponse struct {
	ID core.ListingID `json:"id"`
}

type listingResponse struct {
	ID            core.ListingID `json:"id"`
	Owner         string         `json:"owner"`
	Renter        string         `json:"renter,omitempty"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	ImageRef      string         `json:"image_ref"`
	PricePerDay   core.Money     `json:"price_per_day"`
	LateFeePerDay core.Money     `json:"late_fee_per_day"`
	Deposit       core.Money     `json:"deposit"`
	ListedAt      time.Time      `json:"listed_at"`
	RentedAt      *time.Time     `json:"rented_at,omitempty"`
	DaysBooked    int            `json:"days_booked"`
	RentCostPaid  core.Money     `json:"rent_cost_paid"`
	IsRented      bool           `json:"is_rented"`
}

func listingResponseFrom(l core.Listing) listingResponse {
	resp := listingResponse{
		ID:            l.ID,
		Owner:         l.Owner,
		Renter:        l.Renter,
		Title:         l.Title,
		Description:   l.Description,
		ImageRef:      l.ImageRef,
		PricePerDay:   l.PricePerDay,
		LateFeePerDay: l.LateFeePerDay,
		Deposit:       l.Deposit,
		ListedAt:      l.ListedAt,
		DaysBooked:    l.DaysBooked,
		RentCostPaid:  l.RentCostPaid,
		IsRented:      l.IsRented,
	}

	if l.IsRented {
		rentedAt := l.RentedAt
		resp.RentedAt = &rentedAt
	}

	return resp
}

func listingResponsesFrom(ls []core.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, listingResponseFrom(l))
	}

	return out
}

type detailsResponse struct {
	Listing  listingResponse `json:"listing"`
	DueDate  int64           `json:"due_date"`
	IsLate   bool            `json:"is_late"`
	LateDays int64           `json:"late_days"`
}

func detailsResponseFrom(d listingdetails.ListingDetails) detailsResponse {
	resp := detailsResponse{
		Listing:  listingResponseFrom(d.Listing),
		DueDate:  unixSeconds(d.DueDate),
		IsLate:   d.IsLate,
		LateDays: d.LateDays,
	}

	return resp
}

type rentReceiptResponse struct {
	ListingID   core.ListingID `json:"listing_id"`
	Renter      string         `json:"renter"`
	Owner       string         `json:"owner"`
	DaysBooked  int            `json:"days_booked"`
	RentPaid    core.Money     `json:"rent_paid"`
	DepositHeld core.Money     `json:"deposit_held"`
	RentedAt    time.Time      `json:"rented_at"`
	DueDate     int64          `json:"due_date"`
	Reference   string         `json:"reference"`
}

func rentReceiptResponseFrom(r ledger.RentReceipt) rentReceiptResponse {
	return rentReceiptResponse{
		ListingID:   r.ListingID,
		Renter:      r.Renter,
		Owner:       r.Owner,
		DaysBooked:  r.DaysBooked,
		RentPaid:    r.RentPaid,
		DepositHeld: r.DepositHeld,
		RentedAt:    r.RentedAt,
		DueDate:     unixSeconds(r.DueDate),
		Reference:   r.Reference,
	}
}

type returnReceiptResponse struct {
	ListingID    core.ListingID `json:"listing_id"`
	Renter       string         `json:"renter"`
	Owner        string         `json:"owner"`
	LateDays     int64          `json:"late_days"`
	OwnerPaid    core.Money     `json:"owner_paid"`
	RenterRefund core.Money     `json:"renter_refund"`
	ReturnedAt   time.Time      `json:"returned_at"`
	Reference    string         `json:"reference"`
}

func returnReceiptResponseFrom(r ledger.ReturnReceipt) returnReceiptResponse {
	return returnReceiptResponse{
		ListingID:    r.ListingID,
		Renter:       r.Renter,
		Owner:        r.Owner,
		LateDays:     r.LateDays,
		OwnerPaid:    r.OwnerPaid,
		RenterRefund: r.RenterRefund,
		ReturnedAt:   r.ReturnedAt,
		Reference:    r.Reference,
	}
}

type rentalsResponse struct {
	Renter     string           `json:"renter"`
	ListingIDs []core.ListingID `json:"listing_ids"`
}

type holdingResponse struct {
	ListingID core.ListingID `json:"listing_id"`
	Renter    string         `json:"renter"`
	Amount    core.Money     `json:"amount"`
	HeldSince time.Time      `json:"held_since"`
}

type statementResponse struct {
	Holdings  []holdingResponse                `json:"holdings"`
	TotalHeld core.Money                       `json:"total_held"`
	Received  core.Money                       `json:"received"`
	PaidOut   core.Money                       `json:"paid_out"`
	Payouts   map[string]map[string]core.Money `json:"payouts"`
}

func statementResponseFrom(st escrowstatement.Statement) statementResponse {
	resp := statementResponse{
		Holdings:  make([]holdingResponse, 0, len(st.Holdings)),
		TotalHeld: st.TotalHeld,
		Received:  st.Received,
		PaidOut:   st.PaidOut,
		Payouts:   make(map[string]map[string]core.Money, len(st.Payouts)),
	}

	for _, h := range st.Holdings {
		resp.Holdings = append(resp.Holdings, holdingResponse(h))
	}

	for principal, byReason := range st.Payouts {
		resp.Payouts[principal] = make(map[string]core.Money, len(byReason))
		for reason, amount := range byReason {
			resp.Payouts[principal][string(reason)] = amount
		}
	}

	return resp
}

type eventResponse struct {
	SequenceNumber uint      `json:"sequence_number"`
	Type           string    `json:"type"`
	ListingID      string    `json:"listing_id"`
	OccurredAt     time.Time `json:"occurred_at"`
	MessageID      string    `json:"message_id"`
	CorrelationID  string    `json:"correlation_id"`
	Principal      string    `json:"principal"`
	Payload        any       `json:"payload"`
}

type feedResponse struct {
	Events     []eventResponse `json:"events"`
	NextCursor uint            `json:"next_cursor"`
	HasMore    bool            `json:"has_more"`
}

func feedResponseFrom(feed eventfeed.Feed) feedResponse {
	resp := feedResponse{
		Events:     make([]eventResponse, 0, len(feed.Events)),
		NextCursor: feed.NextCursor,
		HasMore:    feed.HasMore,
	}

	for _, envelope := range feed.Events {
		resp.Events = append(resp.Events, eventResponse{
			SequenceNumber: envelope.SequenceNumber,
			Type:           envelope.DomainEvent.IsEventType(),
			ListingID:      envelope.DomainEvent.ListingKey(),
			OccurredAt:     envelope.DomainEvent.HasOccurredAt(),
			MessageID:      envelope.EventMetadata.MessageID,
			CorrelationID:  envelope.EventMetadata.CorrelationID,
			Principal:      envelope.EventMetadata.Principal,
			Payload:        envelope.DomainEvent,
		})
	}

	return resp
}
