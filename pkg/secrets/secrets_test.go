package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	dErrors "consultly/pkg/domain-errors"
)

func TestHasher(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	t.Run("round trip", func(t *testing.T) {
		hash, err := h.Hash("correct horse")
		require.NoError(t, err)
		assert.NotEqual(t, "correct horse", hash)
		assert.NoError(t, h.Verify("correct horse", hash))
		assert.ErrorIs(t, h.Verify("wrong horse", hash), ErrMismatch)
	})

	t.Run("empty hash never matches", func(t *testing.T) {
		assert.ErrorIs(t, h.Verify("anything", ""), ErrMismatch)
	})

	t.Run("empty secret is rejected", func(t *testing.T) {
		_, err := h.Hash("")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

		hash, err := h.HashOptional("")
		require.NoError(t, err)
		assert.Empty(t, hash)
	})

	t.Run("overlong secret is a validation error", func(t *testing.T) {
		_, err := h.Hash(strings.Repeat("x", 80))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("cost is clamped", func(t *testing.T) {
		assert.Equal(t, bcrypt.MinCost, NewHasher(0).cost)
		assert.Equal(t, bcrypt.MaxCost, NewHasher(99).cost)
	})
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", Mask(""))
	assert.Equal(t, "***(9)", Mask("password1"))
}
