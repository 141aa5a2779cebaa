package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "consultly/pkg/domain"
	audit "consultly/pkg/platform/audit"
	"consultly/pkg/platform/audit/store/memory"
	"consultly/pkg/requestcontext"
)

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	subject := id.NewPrincipalID()
	actor := id.NewPrincipalID()
	fixed := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), fixed)
	ctx = requestcontext.WithRequestID(ctx, "req-42")
	ctx = requestcontext.WithClientMetadata(ctx, "203.0.113.1",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	ctx = requestcontext.WithPrincipal(ctx, actor, "individual", []string{"admin"})

	err := pub.Emit(ctx, audit.Event{
		Action:    string(audit.EventPrincipalSuspended),
		SubjectID: subject,
		Severity:  audit.SeverityWarning,
	})
	require.NoError(t, err)

	events, err := pub.List(context.Background(), subject)
	require.NoError(t, err)
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, audit.CategorySecurity, e.Category)
	assert.Equal(t, fixed, e.Timestamp)
	assert.Equal(t, "req-42", e.RequestID)
	assert.Equal(t, "203.0.113.1", e.ClientIP)
	assert.Equal(t, actor.String(), e.ActorID)
	assert.Contains(t, e.Device, "Chrome")
	assert.Contains(t, e.Device, "Windows")
}

func TestPublisher_AsyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(10))

	subject := id.NewPrincipalID()
	require.NoError(t, pub.Emit(context.Background(), audit.Event{
		Action:    string(audit.EventPrincipalApproved),
		SubjectID: subject,
	}))

	// Close flushes the buffer.
	pub.Close()

	events, err := pub.List(context.Background(), subject)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.SeverityInfo, events[0].Severity)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)

	assert.NoError(t, pub.Emit(context.Background(), audit.Event{Action: "late"}), "emit after close is dropped silently")
}

func TestPublisher_SyncModeReturnsStoreError(t *testing.T) {
	pub := NewPublisher(failingStore{})
	err := pub.Emit(context.Background(), audit.Event{Action: "login_failed"})
	assert.Error(t, err)
}

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error {
	return errors.New("audit store down")
}

func (failingStore) ListBySubject(context.Context, id.PrincipalID) ([]audit.Event, error) {
	return nil, nil
}
