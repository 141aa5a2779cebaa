// Package secrets hashes and checks long-lived passwords with bcrypt.
package secrets

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "consultly/pkg/domain-errors"
)

// ErrMismatch is returned by Verify when the secret does not match the hash.
var ErrMismatch = errors.New("secret does not match")

// Hasher hashes secrets at a fixed bcrypt cost.
type Hasher struct {
	cost int
}

// NewHasher clamps cost into bcrypt's accepted range.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

// DefaultHasher uses bcrypt.DefaultCost.
func DefaultHasher() *Hasher {
	return NewHasher(bcrypt.DefaultCost)
}

// Hash creates a bcrypt hash of secret.
func (h *Hasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "secret cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.NewField(dErrors.CodeValidation, "password", "password is too long")
		}
		return "", fmt.Errorf("could not hash secret: %w", err)
	}
	return string(hashed), nil
}

// HashOptional returns "" for an empty secret.
func (h *Hasher) HashOptional(secret string) (string, error) {
	if secret == "" {
		return "", nil
	}
	return h.Hash(secret)
}

// Verify checks a plaintext secret against a bcrypt hash. An empty hash
// never matches.
func (h *Hasher) Verify(secret, hash string) error {
	if hash == "" || secret == "" {
		return ErrMismatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("could not verify secret: %w", err)
	}
	return nil
}

// Mask renders a presented secret for logs without its content.
func Mask(secret string) string {
	if secret == "" {
		return ""
	}
	return fmt.Sprintf("***(%d)", len(secret))
}
