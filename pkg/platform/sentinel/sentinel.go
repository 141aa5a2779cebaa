package sentinel

import (
	"errors"
	"fmt"
)

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: record does not exist in store
//   - ErrExpired: code or token has expired
//   - ErrAlreadyUsed: a unique value is already taken
//   - ErrInvalidState: record in wrong state for requested operation
//   - ErrUnavailable: backing store temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrExpired      = errors.New("expired")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)

// UniqueViolation reports a write rejected by a unique constraint.
// Field is the API name of the colliding identity field.
type UniqueViolation struct {
	Field string
}

func (u *UniqueViolation) Error() string {
	return fmt.Sprintf("unique violation on %s", u.Field)
}

func (u *UniqueViolation) Is(target error) bool {
	return target == ErrAlreadyUsed
}

// ViolatedField extracts the field from a UniqueViolation anywhere in err.
func ViolatedField(err error) (string, bool) {
	var uv *UniqueViolation
	if errors.As(err, &uv) {
		return uv.Field, true
	}
	return "", false
}
