package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodedErrors(t *testing.T) {
	t.Run("HasCode sees through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(CodeConflict, "email already registered"))
		assert.True(t, HasCode(err, CodeConflict))
		assert.False(t, HasCode(err, CodeValidation))
	})

	t.Run("FieldOf returns the colliding field", func(t *testing.T) {
		err := NewField(CodeConflict, "registrationNumber", "registration number already registered")
		assert.Equal(t, "registrationNumber", FieldOf(err))
		assert.Equal(t, "", FieldOf(errors.New("plain")))
	})

	t.Run("CodeOf defaults to internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
		assert.Equal(t, CodeNotFound, CodeOf(New(CodeNotFound, "missing")))
	})

	t.Run("Wrap keeps the cause reachable", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := Wrap(cause, CodeInternal, "failed to load principal")
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("errors.Is compares code and message", func(t *testing.T) {
		err := New(CodeUnauthorized, "invalid token")
		assert.ErrorIs(t, err, New(CodeUnauthorized, "invalid token"))
		assert.NotErrorIs(t, err, New(CodeUnauthorized, "token has expired"))
	})
}
