// Package domain holds identifier types shared across modules.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "consultly/pkg/domain-errors"
)

// PrincipalID is the internal record key of an individual or organization.
// It is distinct from the human-readable display ID.
type PrincipalID uuid.UUID

// NewPrincipalID returns a fresh random principal ID.
func NewPrincipalID() PrincipalID {
	return PrincipalID(uuid.New())
}

func (p PrincipalID) String() string {
	return uuid.UUID(p).String()
}

// IsNil reports whether the ID is the zero UUID.
func (p PrincipalID) IsNil() bool {
	return uuid.UUID(p) == uuid.Nil
}

func (p PrincipalID) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PrincipalID) UnmarshalText(b []byte) error {
	parsed, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*p = PrincipalID(parsed)
	return nil
}

// ParsePrincipalID parses a principal ID at a trust boundary.
// Empty, malformed and nil UUIDs are rejected.
func ParsePrincipalID(s string) (PrincipalID, error) {
	parsed, err := parseUUID(s, "principal ID")
	if err != nil {
		return PrincipalID{}, err
	}
	return PrincipalID(parsed), nil
}

func parseUUID(s, label string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return parsed, nil
}
