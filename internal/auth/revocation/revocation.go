// Package revocation keeps the jti of logged-out session tokens until the
// token would have expired anyway.
package revocation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"consultly/pkg/platform/sentinel"
)

// List records revoked token IDs.
type List interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Clock returns the current time.
type Clock func() time.Time

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", sentinel.ErrInvalidState)
	}
	return nil
}

// InMemory is a process-local revocation list for development and tests.
type InMemory struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	clock   Clock
}

func NewInMemory(clock Clock) *InMemory {
	if clock == nil {
		clock = time.Now
	}
	return &InMemory{revoked: make(map[string]time.Time), clock: clock}
}

func (m *InMemory) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if err := validateTTL(ttl); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = m.clock().Add(ttl)
	return nil
}

func (m *InMemory) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiresAt, ok := m.revoked[jti]
	if !ok {
		return false, nil
	}
	if m.clock().After(expiresAt) {
		delete(m.revoked, jti)
		return false, nil
	}
	return true, nil
}
