package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"consultly/internal/platform/kafka/consumer"
	"consultly/pkg/requestcontext"
)

// Producer is the subset of the Kafka producer the queue needs.
type Producer interface {
	Produce(ctx context.Context, topic string, key, value []byte)
}

// KafkaQueue publishes messages to a topic; a Relay consumes and delivers
// them. Delivery survives process restarts between the two.
type KafkaQueue struct {
	producer Producer
	topic    string
	logger   *slog.Logger
	metrics  *Metrics
}

func NewKafkaQueue(producer Producer, topic string, logger *slog.Logger, metrics *Metrics) *KafkaQueue {
	return &KafkaQueue{producer: producer, topic: topic, logger: logger, metrics: metrics}
}

func (q *KafkaQueue) Enqueue(ctx context.Context, msg Message) {
	if msg.RequestID == "" {
		msg.RequestID = requestcontext.RequestID(ctx)
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		q.metrics.IncrementDropped(msg.Template)
		q.logger.ErrorContext(ctx, "failed to encode notification", "template", msg.Template, "error", err)
		return
	}
	// Keyed by recipient so one recipient's messages stay ordered.
	key := msg.Email
	if key == "" {
		key = msg.Phone
	}
	q.producer.Produce(context.WithoutCancel(ctx), q.topic, []byte(key), payload)
	q.metrics.IncrementEnqueued(msg.Template)
}

// Relay delivers messages consumed from the notification topic.
type Relay struct {
	dispatcher Dispatcher
	logger     *slog.Logger
	metrics    *Metrics
}

func NewRelay(dispatcher Dispatcher, logger *slog.Logger, metrics *Metrics) *Relay {
	return &Relay{dispatcher: dispatcher, logger: logger, metrics: metrics}
}

// Handle implements consumer.Handler. Undecodable payloads are skipped.
func (r *Relay) Handle(ctx context.Context, m *consumer.Message) error {
	var msg Message
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		r.logger.WarnContext(ctx, "skipping undecodable notification",
			"topic", m.Topic,
			"offset", m.Offset,
			"error", err,
		)
		return nil
	}
	ctx = requestcontext.WithRequestID(ctx, msg.RequestID)
	deliverAndRecord(ctx, r.dispatcher, msg, r.logger, r.metrics)
	return nil
}
