// Package apperr classifies the failures the storefront surfaces to shoppers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind categorizes storefront errors.
type Kind int

const (
	// Unauthenticated means there is no signed-in session; the shopper must sign in.
	Unauthenticated Kind = iota + 1
	// NetworkFailure means a remote call was rejected or did not complete.
	NetworkFailure
	// MalformedResponse means a remote answer could not be understood.
	MalformedResponse
	// ValidationFailure means required input was missing or invalid.
	ValidationFailure
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case NetworkFailure:
		return "network failure"
	case MalformedResponse:
		return "malformed response"
	case ValidationFailure:
		return "validation failure"
	}
	return "unknown"
}

// Error is a classified storefront error.
type Error struct {
	Kind    Kind
	Message string
	Field   string // set for ValidationFailure
	Status  int    // HTTP status of a rejected remote call, if any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns an error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap returns an error of the given kind caused by err.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: err}
}

// Invalid returns a ValidationFailure for field.
func Invalid(field, msg string) *Error {
	return &Error{Kind: ValidationFailure, Message: msg, Field: field}
}

// ErrUnauthenticated is returned when an operation needs a session and has none.
var ErrUnauthenticated = New(Unauthenticated, "please sign in to continue")

// KindOf returns the kind of err, or 0 when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
