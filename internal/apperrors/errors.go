package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the resource is not in a state that allows the operation.
var ErrConflict = errors.New("conflicting resource state")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller may not act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected failure inside the ledger.
var ErrInternal = errors.New("internal error")

// Journal creation failures. Each of these rejects the whole entry.
var (
	ErrAccountNotFound = errors.New("account not found or inactive")
	ErrMalformedLine   = errors.New("malformed journal line")
	ErrUnbalancedEntry = errors.New("journal entry is not balanced")
)

// ErrAlreadyPosted is returned when an entry is no longer a draft, including
// when a concurrent post won the race.
var ErrAlreadyPosted = errors.New("journal entry already posted")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// LineError identifies the journal line that failed validation.
type LineError struct {
	Index       int
	AccountCode string
	Err         error
	Detail      string
}

func (e *LineError) Error() string {
	msg := fmt.Sprintf("line %d (account %s): %v", e.Index+1, e.AccountCode, e.Err)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// NewLineError wraps sentinel with the position of the offending line.
func NewLineError(index int, accountCode string, sentinel error, detail string) error {
	return &LineError{Index: index, AccountCode: accountCode, Err: sentinel, Detail: detail}
}

// NewValidationError wraps ErrValidation with a field-specific message.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
