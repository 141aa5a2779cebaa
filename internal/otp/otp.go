// Package otp issues and checks short numeric codes. Only a SHA-256 digest
// of each code is stored; the plaintext leaves the process once, through
// the notification queue.
package otp

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"consultly/internal/principal/models"
	"consultly/pkg/platform/sentinel"
)

var (
	// ErrMismatch means no code was issued or the submitted code differs.
	ErrMismatch = errors.New("code mismatch")
	// ErrExpired aliases the store-level sentinel so callers can match either.
	ErrExpired = sentinel.ErrExpired
)

// Issuer generates codes of a fixed number of digits.
type Issuer struct {
	length int
	random io.Reader
}

type Option func(*Issuer)

// WithRandom replaces the entropy source. Tests use a deterministic reader.
func WithRandom(r io.Reader) Option {
	return func(i *Issuer) {
		i.random = r
	}
}

func NewIssuer(length int, opts ...Option) *Issuer {
	i := &Issuer{length: length, random: rand.Reader}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue returns a fresh code and its stored form, valid until now+ttl.
func (i *Issuer) Issue(now time.Time, ttl time.Duration) (string, *models.Secret, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(i.length)), nil)
	n, err := rand.Int(i.random, limit)
	if err != nil {
		return "", nil, fmt.Errorf("generate code: %w", err)
	}
	code := fmt.Sprintf("%0*d", i.length, n)
	return code, &models.Secret{Hash: Hash(code), ExpiresAt: now.Add(ttl)}, nil
}

// Verify checks code against secret. A mismatch is reported before expiry,
// so a wrong code never reveals whether the window has passed.
func Verify(secret *models.Secret, code string, now time.Time) error {
	if secret == nil || secret.Hash == "" || code == "" {
		return ErrMismatch
	}
	if subtle.ConstantTimeCompare([]byte(secret.Hash), []byte(Hash(code))) != 1 {
		return ErrMismatch
	}
	if secret.Expired(now) {
		return ErrExpired
	}
	return nil
}

// Hash returns the hex SHA-256 digest of code.
func Hash(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
