package booking

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so callers never match on message text.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindBackend    ErrorKind = "backend"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NewValidationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// CheckoutError reports the draft whose submission stopped a checkout.
type CheckoutError struct {
	Index   int
	RoomID  int64
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout item %d (room %d): %s: %s", e.Index, e.RoomID, e.Kind, e.Message)
}

func (e *CheckoutError) Unwrap() error { return e.Err }

// KindOf extracts the kind from any booking error. Unknown errors are backend errors.
func KindOf(err error) ErrorKind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	var ce *CheckoutError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindBackend
}

// MessageOf returns the human message attached to a booking error.
func MessageOf(err error) string {
	var be *Error
	if errors.As(err, &be) {
		return be.Message
	}
	var ce *CheckoutError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}

// conflictReporter is implemented by transport errors that know the backend
// rejected a request because the dates overlap an existing booking.
type conflictReporter interface {
	Conflict() bool
}

func isBackendConflict(err error) bool {
	var cr conflictReporter
	return errors.As(err, &cr) && cr.Conflict()
}
