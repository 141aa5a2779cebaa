// Package sequence hands out monotonically increasing integers per named
// counter and formats them into display identifiers such as CON-003.
package sequence

import (
	"context"
	"fmt"
	"sync"
)

// Sequence names used for display IDs.
const (
	Consultant   = "consultant"
	Organization = "organization"
)

// Allocator returns the next value of the named counter. The first call for a
// name returns 1. Concurrent callers never receive the same value.
type Allocator interface {
	Next(ctx context.Context, name string) (int64, error)
}

// FormatDisplayID renders prefix-NNN with at least three digits.
func FormatDisplayID(prefix string, n int64) string {
	return fmt.Sprintf("%s-%03d", prefix, n)
}

// InMemory is a mutex-guarded allocator for tests and single-process runs.
type InMemory struct {
	mu       sync.Mutex
	counters map[string]int64
}

func NewInMemory() *InMemory {
	return &InMemory{counters: make(map[string]int64)}
}

func (a *InMemory) Next(_ context.Context, name string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counters[name]++
	return a.counters[name], nil
}
