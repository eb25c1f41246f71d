package core

// DecisionResult is the outcome of a Decide function: exactly one event to append, or an error.
//
// Construct it with SuccessDecision or ErrorDecision only.
type DecisionResult struct {
	Outcome string
	Event   DomainEvent
	Err     error
}

const (
	successOutcome = "success"
	errorOutcome   = "error"
)

// SuccessDecision carries the event the command produces.
func SuccessDecision(event DomainEvent) DecisionResult {
	return DecisionResult{
		Outcome: successOutcome,
		Event:   event,
	}
}

// ErrorDecision carries a business rule violation. Nothing is appended for it.
func ErrorDecision(err error) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Err:     err,
	}
}

// HasEventToAppend returns true if there is an event to append to the event store.
func (r DecisionResult) HasEventToAppend() bool {
	return r.Outcome == successOutcome && r.Event != nil
}

// HasError returns the error if there is one, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}
