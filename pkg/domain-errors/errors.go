// Package domainerrors defines the coded errors services return to transports.
//
// Services translate store sentinels into one of these codes exactly once;
// transports map codes to status codes without inspecting messages.
package domainerrors

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeValidation           Code = "validation"
	CodeBadRequest           Code = "bad_request"
	CodeInvalidInput         Code = "invalid_input"
	CodeConflict             Code = "conflict"
	CodeNotFound             Code = "not_found"
	CodeUnauthorized         Code = "unauthorized"
	CodeForbidden            Code = "forbidden"
	CodePreconditionRequired Code = "precondition_required"
	CodeInvariantViolation   Code = "invariant_violation"
	CodeTooManyRequests      Code = "too_many_requests"
	CodeInternal             Code = "internal"
)

// Error is a coded domain error. Field names the offending input when the
// failure is tied to one (unique collisions, field validation).
type Error struct {
	Code    Code
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same code and message, so tests can
// compare against a freshly built expectation.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// NewField builds an error tied to a named input field.
func NewField(code Code, field, message string) error {
	return &Error{Code: code, Field: field, Message: message}
}

func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, Err: err}
}

// As returns the outermost *Error in the chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether the outermost domain error carries code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// CodeOf returns the outermost domain error code, or CodeInternal for
// errors that never passed through a service boundary.
func CodeOf(err error) Code {
	if de, ok := As(err); ok {
		return de.Code
	}
	return CodeInternal
}

// FieldOf returns the field attached to the outermost domain error.
func FieldOf(err error) string {
	if de, ok := As(err); ok {
		return de.Field
	}
	return ""
}
