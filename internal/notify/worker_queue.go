package notify

import (
	"context"
	"log/slog"
	"sync"

	"consultly/pkg/requestcontext"
)

// WorkerQueue delivers messages from a bounded in-process buffer with a
// fixed number of workers. Enqueue never blocks; a full buffer drops.
type WorkerQueue struct {
	dispatcher Dispatcher
	logger     *slog.Logger
	metrics    *Metrics

	inbox    chan Message
	wg       sync.WaitGroup
	mu       sync.RWMutex
	isClosed bool
}

type QueueOption func(*WorkerQueue)

func WithLogger(logger *slog.Logger) QueueOption {
	return func(q *WorkerQueue) {
		q.logger = logger
	}
}

func WithMetrics(m *Metrics) QueueOption {
	return func(q *WorkerQueue) {
		q.metrics = m
	}
}

func NewWorkerQueue(dispatcher Dispatcher, workers, buffer int, opts ...QueueOption) *WorkerQueue {
	if workers < 1 {
		workers = 1
	}
	if buffer < 1 {
		buffer = 1
	}
	q := &WorkerQueue{
		dispatcher: dispatcher,
		logger:     slog.Default(),
		inbox:      make(chan Message, buffer),
	}
	for _, opt := range opts {
		opt(q)
	}
	for range workers {
		q.wg.Add(1)
		go q.run()
	}
	return q
}

func (q *WorkerQueue) Enqueue(ctx context.Context, msg Message) {
	if msg.RequestID == "" {
		msg.RequestID = requestcontext.RequestID(ctx)
	}
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.isClosed {
		q.drop(ctx, "notification queue closed, dropping message", msg)
		return
	}
	select {
	case q.inbox <- msg:
		q.metrics.IncrementEnqueued(msg.Template)
	default:
		q.drop(ctx, "notification queue full, dropping message", msg)
	}
}

// Close stops intake and waits for queued messages to drain or ctx to end.
func (q *WorkerQueue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.isClosed {
		q.isClosed = true
		close(q.inbox)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *WorkerQueue) run() {
	defer q.wg.Done()
	for msg := range q.inbox {
		ctx := requestcontext.WithRequestID(context.Background(), msg.RequestID)
		deliverAndRecord(ctx, q.dispatcher, msg, q.logger, q.metrics)
	}
}

func (q *WorkerQueue) drop(ctx context.Context, reason string, msg Message) {
	q.metrics.IncrementDropped(msg.Template)
	q.logger.WarnContext(ctx, reason,
		"template", msg.Template,
		"channel", string(msg.Channel),
		"request_id", msg.RequestID,
	)
}

// deliverAndRecord delivers msg, recovering from dispatcher panics, and
// records the outcome.
func deliverAndRecord(ctx context.Context, d Dispatcher, msg Message, logger *slog.Logger, m *Metrics) {
	ok := func() (ok bool) {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorContext(ctx, "notification dispatcher panicked",
					"template", msg.Template,
					"panic", r,
				)
				ok = false
			}
		}()
		return Deliver(ctx, d, msg)
	}()
	if ok {
		m.IncrementDelivered(msg.Template)
		return
	}
	m.IncrementFailed(msg.Template)
	logger.WarnContext(ctx, "notification not delivered",
		"template", msg.Template,
		"channel", string(msg.Channel),
		"request_id", msg.RequestID,
	)
}
