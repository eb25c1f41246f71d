package returnbook

import (
	"time"

	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

const (
	commandType = "ReturnBook"
)

// Command represents the intent of CallerID to return the listing. OccurredAt is the settlement time.
type Command struct {
	ListingID  core.ListingID
	CallerID   core.PrincipalString
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(listingID core.ListingID, callerID core.PrincipalString, occurredAt time.Time) Command {
	return Command{
		ListingID:  listingID,
		CallerID:   callerID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
