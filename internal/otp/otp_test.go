package otp

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consultly/pkg/platform/sentinel"
)

func TestIssue(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	issuer := NewIssuer(6)

	code, secret, err := issuer.Issue(now, 10*time.Minute)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Regexp(t, `^\d{6}$`, code)
	assert.Equal(t, now.Add(10*time.Minute), secret.ExpiresAt)
	assert.NotContains(t, secret.Hash, code, "plaintext is never stored")
	assert.Equal(t, Hash(code), secret.Hash)
}

func TestIssueZeroPads(t *testing.T) {
	// An all-zero reader makes rand.Int return 0.
	issuer := NewIssuer(6, WithRandom(bytes.NewReader(make([]byte, 64))))
	code, _, err := issuer.Issue(time.Now(), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "000000", code)
}

func TestIssueReaderFailure(t *testing.T) {
	issuer := NewIssuer(6, WithRandom(bytes.NewReader(nil)))
	_, _, err := issuer.Issue(time.Now(), time.Minute)
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	code, secret, err := NewIssuer(6).Issue(now, 10*time.Minute)
	require.NoError(t, err)

	t.Run("correct code within window", func(t *testing.T) {
		assert.NoError(t, Verify(secret, code, now.Add(9*time.Minute)))
	})

	t.Run("correct code at exact expiry", func(t *testing.T) {
		assert.NoError(t, Verify(secret, code, secret.ExpiresAt))
	})

	t.Run("expired code", func(t *testing.T) {
		err := Verify(secret, code, now.Add(11*time.Minute))
		assert.ErrorIs(t, err, ErrExpired)
		assert.True(t, errors.Is(err, sentinel.ErrExpired))
	})

	t.Run("mismatch is reported before expiry", func(t *testing.T) {
		assert.ErrorIs(t, Verify(secret, "not-it", now.Add(time.Hour)), ErrMismatch)
	})

	t.Run("no secret issued", func(t *testing.T) {
		assert.ErrorIs(t, Verify(nil, code, now), ErrMismatch)
	})

	t.Run("empty code", func(t *testing.T) {
		assert.ErrorIs(t, Verify(secret, "", now), ErrMismatch)
	})
}
