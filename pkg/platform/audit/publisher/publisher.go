// Package publisher enriches audit events with request metadata and hands
// them to a store, synchronously or through a bounded buffer.
package publisher

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/mssola/useragent"

	id "consultly/pkg/domain"
	audit "consultly/pkg/platform/audit"
	"consultly/pkg/requestcontext"
)

type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	async    chan audit.Event
	wg       sync.WaitGroup
	mu       sync.RWMutex
	isClosed bool
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithAsyncBuffer makes Emit non-blocking. Events beyond the buffer are
// dropped with a warning.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.async = make(chan audit.Event, size)
		}
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.async != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records event. In async mode it never blocks and returns nil; in
// sync mode store errors are returned so the caller can log them.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	event = enrich(ctx, event)
	if p.async == nil {
		return p.store.Append(ctx, event)
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.isClosed {
		p.warn(ctx, "audit publisher closed, dropping event", event)
		return nil
	}
	select {
	case p.async <- event:
	default:
		p.warn(ctx, "audit buffer full, dropping event", event)
	}
	return nil
}

// List returns events recorded for a subject.
func (p *Publisher) List(ctx context.Context, subjectID id.PrincipalID) ([]audit.Event, error) {
	return p.store.ListBySubject(ctx, subjectID)
}

// Close stops accepting events and flushes the buffer.
func (p *Publisher) Close() {
	p.mu.Lock()
	if !p.isClosed {
		p.isClosed = true
		if p.async != nil {
			close(p.async)
		}
	}
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.async {
		if err := p.store.Append(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Warn("failed to persist audit event",
				"action", event.Action,
				"request_id", event.RequestID,
				"error", err,
			)
		}
	}
}

func (p *Publisher) warn(ctx context.Context, msg string, event audit.Event) {
	if p.logger != nil {
		p.logger.WarnContext(ctx, msg, "action", event.Action, "request_id", event.RequestID)
	}
}

func enrich(ctx context.Context, event audit.Event) audit.Event {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if event.Severity == "" {
		event.Severity = audit.SeverityInfo
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.UserAgent == "" {
		event.UserAgent = requestcontext.UserAgent(ctx)
	}
	if event.ActorID == "" {
		if actor := requestcontext.PrincipalID(ctx); !actor.IsNil() {
			event.ActorID = actor.String()
		}
	}
	if event.Device == "" && event.UserAgent != "" {
		event.Device = DescribeDevice(event.UserAgent)
	}
	return event
}

// DescribeDevice renders a user agent as "browser version / os".
func DescribeDevice(ua string) string {
	parsed := useragent.New(ua)
	name, version := parsed.Browser()
	parts := make([]string, 0, 3)
	if name != "" {
		parts = append(parts, strings.TrimSpace(name+" "+version))
	}
	if osName := parsed.OS(); osName != "" {
		parts = append(parts, osName)
	}
	if parsed.Mobile() {
		parts = append(parts, "mobile")
	}
	return strings.Join(parts, " / ")
}
