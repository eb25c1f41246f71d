package core

import (
	"errors"
)

// Error categories. Every ledger error wraps exactly one of them, so callers can map
// a whole family of failures, e.g. to an HTTP status, with errors.Is.
var (
	ErrValidation    = errors.New("validation failed")
	ErrAuthorization = errors.New("not authorized")
	ErrState         = errors.New("invalid listing state")
	ErrPayment       = errors.New("payment rejected")
	ErrTransfer      = errors.New("transfer failed")
)

// ErrorCode names a single failure kind of the ledger.
type ErrorCode string

const (
	CodeZeroPrice           ErrorCode = "ZeroPrice"
	CodeZeroLateFee         ErrorCode = "ZeroLateFee"
	CodeZeroDeposit         ErrorCode = "ZeroDeposit"
	CodeInsufficientDeposit ErrorCode = "InsufficientDeposit"
	CodeInvalidPeriod       ErrorCode = "InvalidPeriod"
	CodeExceedsMaxPeriod    ErrorCode = "ExceedsMaxPeriod"
	CodeOwnerCannotRent     ErrorCode = "OwnerCannotRent"
	CodeNotRenter           ErrorCode = "NotRenter"
	CodeAnonymousCaller     ErrorCode = "AnonymousCaller"
	CodeNotFound            ErrorCode = "NotFound"
	CodeAlreadyRented       ErrorCode = "AlreadyRented"
	CodeNotRented           ErrorCode = "NotRented"
	CodeWrongPayment        ErrorCode = "WrongPayment"
	CodeTransferFailure     ErrorCode = "TransferFailure"
)

// Error is a coded ledger failure.
//
// Two Errors match with errors.Is when their codes are equal, so a TransferFailure carrying a
// gateway cause still matches ErrTransferFailure.
type Error struct {
	Code     ErrorCode
	Category error
	Message  string
	cause    error
}

func newError(code ErrorCode, category error, message string) *Error {
	return &Error{Code: code, Category: category, Message: message}
}

var (
	ErrZeroPrice           = newError(CodeZeroPrice, ErrValidation, "price = 0")
	ErrZeroLateFee         = newError(CodeZeroLateFee, ErrValidation, "late fee = 0")
	ErrZeroDeposit         = newError(CodeZeroDeposit, ErrValidation, "deposit = 0")
	ErrInsufficientDeposit = newError(CodeInsufficientDeposit, ErrValidation, "deposit must cover at least one day of late fees")
	ErrInvalidPeriod       = newError(CodeInvalidPeriod, ErrValidation, "rental period must be at least one day")
	ErrExceedsMaxPeriod    = newError(CodeExceedsMaxPeriod, ErrValidation, "exceeds maximum rental period")
	ErrOwnerCannotRent     = newError(CodeOwnerCannotRent, ErrAuthorization, "owner cannot rent")
	ErrNotRenter           = newError(CodeNotRenter, ErrAuthorization, "only the renter can return")
	ErrAnonymousCaller     = newError(CodeAnonymousCaller, ErrAuthorization, "caller must not be the null principal")
	ErrNotFound            = newError(CodeNotFound, ErrState, "listing not found")
	ErrAlreadyRented       = newError(CodeAlreadyRented, ErrState, "already rented")
	ErrNotRented           = newError(CodeNotRented, ErrState, "not rented")
	ErrWrongPayment        = newError(CodeWrongPayment, ErrPayment, "wrong payment amount")
	ErrTransferFailure     = newError(CodeTransferFailure, ErrTransfer, "transfer failed")
)

// TransferFailed wraps a payout failure of the escrow gateway.
func TransferFailed(cause error) error {
	return &Error{Code: CodeTransferFailure, Category: ErrTransfer, Message: "transfer failed", cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Category, e.cause}
	}

	return []error{e.Category}
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Code == e.Code
}

// CodeOf returns the code of the first ledger Error in err's tree, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ""
}
