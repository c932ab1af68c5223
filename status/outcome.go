package status

// Outcome is the classification of a response code.
type Outcome int

const (
	// OutcomeAcceptedPending means the node accepted the transaction and
	// consensus has not been reached yet.
	OutcomeAcceptedPending Outcome = iota
	// OutcomeRetryableUnknown means the ledger does not know the outcome yet.
	OutcomeRetryableUnknown
	OutcomeSuccess
	OutcomePermanentFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAcceptedPending:
		return "accepted_pending"
	case OutcomeRetryableUnknown:
		return "retryable_unknown"
	case OutcomeSuccess:
		return "success"
	case OutcomePermanentFailure:
		return "permanent_failure"
	default:
		return "invalid"
	}
}

// Pending reports whether the caller should query again.
func (o Outcome) Pending() bool {
	return o == OutcomeAcceptedPending || o == OutcomeRetryableUnknown
}

// Classify maps a receipt status to an Outcome.
func Classify(c Code) Outcome {
	switch c {
	case OK:
		return OutcomeAcceptedPending
	case Unknown:
		return OutcomeRetryableUnknown
	case Success:
		return OutcomeSuccess
	default:
		return OutcomePermanentFailure
	}
}

// Error is a non-OK response code surfaced as an error.
type Error struct {
	Code Code
}

func (e *Error) Error() string {
	return Message(e.Code)
}

// Precheck returns nil when a node's synchronous verdict is OK and an *Error
// for any other code. Precheck failures are never retried.
func Precheck(c Code) error {
	if c == OK {
		return nil
	}
	return &Error{Code: c}
}
