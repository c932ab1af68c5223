package transaction

import (
	"errors"
	"fmt"
	"time"

	"github.com/pilacorp/go-ledger-sdk/model"
	"github.com/pilacorp/go-ledger-sdk/status"
)

var (
	// ErrAlreadySubmitted is returned when a transaction is signed or executed after submission.
	ErrAlreadySubmitted = errors.New("transaction already submitted")
	// ErrNotSubmitted is returned when waiting for the receipt of a transaction that was never accepted.
	ErrNotSubmitted = errors.New("transaction not submitted")
	// ErrNoOperator is returned when an operator account or signer is needed but not configured.
	ErrNoOperator = errors.New("client has no operator")
	// ErrMissingReceipt is returned when a receipt response carries no receipt.
	ErrMissingReceipt = errors.New("receipt response has no receipt")
	// ErrInvalidBody is returned for a transaction body that cannot be submitted.
	ErrInvalidBody = errors.New("invalid transaction body")

	errSlotPastDeadline = errors.New("receipt query slot opens after the validity window")
)

// Precheck stages.
const (
	StageSubmit = "submit"
	StageQuery  = "query"
)

// PrecheckError is a node's non-OK synchronous verdict, either on submission
// or on a receipt query.
type PrecheckError struct {
	TransactionID model.TransactionID
	Stage         string
	Status        status.Code
}

func (e *PrecheckError) Error() string {
	return fmt.Sprintf("transaction %s failed precheck at %s with status %s: %s",
		e.TransactionID, e.Stage, e.Status, status.Message(e.Status))
}

func (e *PrecheckError) Unwrap() error {
	return &status.Error{Code: e.Status}
}

// TimeoutError reports that the validity window would end before the next
// receipt query.
type TimeoutError struct {
	TransactionID model.TransactionID
	ValidUntil    time.Time
}

func (e *TimeoutError) Error() string {
	return "timed out waiting for consensus on transaction ID: " + e.TransactionID.String()
}

// ReceiptStatusError is a final receipt whose status is a permanent failure.
// Its message is the fixed text for the status.
type ReceiptStatusError struct {
	TransactionID model.TransactionID
	Status        status.Code
	Receipt       *model.TransactionReceipt
}

func (e *ReceiptStatusError) Error() string {
	return status.Message(e.Status)
}

func (e *ReceiptStatusError) Unwrap() error {
	return &status.Error{Code: e.Status}
}
