// Package producer publishes records to Kafka through franz-go.
package producer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer wraps a kgo client configured for producing only.
type Producer struct {
	client *kgo.Client
	logger *slog.Logger
}

// New connects to the seed brokers. The connection is lazy; use Ping to
// fail fast at startup.
func New(brokers []string, logger *slog.Logger, opts ...kgo.Opt) (*Producer, error) {
	opts = append([]kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerLinger(0),
	}, opts...)
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &Producer{client: client, logger: logger}, nil
}

// Ping checks that at least one broker is reachable.
func (p *Producer) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

// Produce sends asynchronously. Delivery failures are logged, never returned.
func (p *Producer) Produce(ctx context.Context, topic string, key, value []byte) {
	record := &kgo.Record{Topic: topic, Key: key, Value: value}
	p.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("kafka produce failed",
				"topic", r.Topic,
				"key", string(r.Key),
				"error", err,
			)
		}
	})
}

// ProduceSync sends and waits for the broker acknowledgement.
func (p *Producer) ProduceSync(ctx context.Context, topic string, key, value []byte) error {
	record := &kgo.Record{Topic: topic, Key: key, Value: value}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}
	return nil
}

// Close flushes buffered records, then closes the client.
func (p *Producer) Close(ctx context.Context) {
	if err := p.client.Flush(ctx); err != nil {
		p.logger.Warn("kafka flush on close failed", "error", err)
	}
	p.client.Close()
}

// Client exposes the underlying client for admin operations.
func (p *Producer) Client() *kgo.Client {
	return p.client
}
