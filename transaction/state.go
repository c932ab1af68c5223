package transaction

// State is the lifecycle position of a Transaction.
type State int

const (
	// StateUnsigned is a constructed transaction with no signatures.
	StateUnsigned State = iota
	// StateSigned holds at least one signature and has not been submitted.
	StateSigned
	// StateSubmitted was accepted by a node and awaits consensus.
	StateSubmitted
	// StateSucceeded reached consensus with SUCCESS.
	StateSucceeded
	// StateFailed was rejected at precheck or reached consensus with a failure status.
	StateFailed
	// StateTimedOut outlived its validity window without a final receipt.
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateUnsigned:
		return "unsigned"
	case StateSigned:
		return "signed"
	case StateSubmitted:
		return "submitted"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed_out"
	default:
		return "invalid"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateTimedOut
}
