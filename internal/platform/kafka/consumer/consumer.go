// Package consumer runs a franz-go consumer group and hands each record to
// a Handler, committing offsets after the handler returns.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is one consumed record.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Timestamp time.Time
}

// Handler processes a message. A returned error is logged and the record
// is still committed; handlers that want redelivery must retry internally.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg *Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg *Message) error { return f(ctx, msg) }

type Config struct {
	Brokers []string
	Group   string
	Topics  []string
}

type Consumer struct {
	client  *kgo.Client
	handler Handler
	logger  *slog.Logger
}

func New(cfg Config, handler Handler, logger *slog.Logger, opts ...kgo.Opt) (*Consumer, error) {
	if len(cfg.Topics) == 0 {
		return nil, errors.New("consumer needs at least one topic")
	}
	opts = append([]kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.Group),
		kgo.ConsumeTopics(cfg.Topics...),
		kgo.DisableAutoCommit(),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	}, opts...)
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return &Consumer{client: client, handler: handler, logger: logger}, nil
}

// Run polls until ctx is cancelled or the client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.client.Close()
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		for _, fe := range fetches.Errors() {
			c.logger.Warn("kafka fetch error",
				"topic", fe.Topic,
				"partition", fe.Partition,
				"error", fe.Err,
			)
		}

		var records []*kgo.Record
		fetches.EachRecord(func(r *kgo.Record) {
			msg := &Message{
				Topic:     r.Topic,
				Partition: r.Partition,
				Offset:    r.Offset,
				Key:       r.Key,
				Value:     r.Value,
				Timestamp: r.Timestamp,
			}
			if err := c.handler.Handle(ctx, msg); err != nil {
				c.logger.Error("kafka handler failed",
					"topic", r.Topic,
					"offset", r.Offset,
					"error", err,
				)
			}
			records = append(records, r)
		})
		if len(records) == 0 {
			continue
		}
		if err := c.client.CommitRecords(ctx, records...); err != nil && ctx.Err() == nil {
			c.logger.Error("kafka commit failed", "error", err)
		}
	}
}
