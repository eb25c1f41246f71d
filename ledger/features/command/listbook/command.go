package listbook

import (
	"time"

	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

const (
	commandType = "ListBook"
)

// Command represents the intent to list a book for rent.
type Command struct {
	OwnerID    core.PrincipalString
	Terms      core.ListingTerms
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(ownerID core.PrincipalString, terms core.ListingTerms, occurredAt time.Time) Command {
	return Command{
		OwnerID:    ownerID,
		Terms:      terms,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
