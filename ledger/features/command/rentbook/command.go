package rentbook

import (
	"time"

	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

const (
	commandType = "RentBook"
)

// Command represents the intent to rent a listing for Days days, tendering Payment.
type Command struct {
	ListingID  core.ListingID
	RenterID   core.PrincipalString
	Days       int
	Payment    core.Money
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	listingID core.ListingID,
	renterID core.PrincipalString,
	days int,
	payment core.Money,
	occurredAt time.Time,
) Command {

	return Command{
		ListingID:  listingID,
		RenterID:   renterID,
		Days:       days,
		Payment:    payment,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
