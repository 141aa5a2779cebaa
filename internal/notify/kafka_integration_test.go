//go:build integration

package notify_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"consultly/internal/notify"
	"consultly/internal/platform/kafka"
	"consultly/internal/platform/kafka/consumer"
	"consultly/internal/platform/kafka/producer"
	"consultly/pkg/testutil/containers"
)

type channelDispatcher struct {
	emails chan string
}

func (d *channelDispatcher) SendSMS(context.Context, string, string) bool { return true }

func (d *channelDispatcher) SendEmail(_ context.Context, to, _, _ string) bool {
	d.emails <- to
	return true
}

func (d *channelDispatcher) SendRegistrationPin(context.Context, string, string, string) bool {
	return true
}

func TestKafkaQueueDeliversThroughRelay(t *testing.T) {
	kc := containers.NewKafkaContainer(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	const topic = "consultly.notifications.test"

	p, err := producer.New(kc.Brokers, logger)
	require.NoError(t, err)
	defer p.Close(context.Background())
	require.NoError(t, kafka.EnsureTopic(ctx, p.Client(), topic, 1, 1))
	require.NoError(t, kafka.EnsureTopic(ctx, p.Client(), topic, 1, 1), "existing topic is not an error")

	dispatcher := &channelDispatcher{emails: make(chan string, 1)}
	c, err := consumer.New(consumer.Config{
		Brokers: kc.Brokers,
		Group:   "consultly-test",
		Topics:  []string{topic},
	}, notify.NewRelay(dispatcher, logger, nil), logger)
	require.NoError(t, err)
	go func() { _ = c.Run(ctx) }()

	notify.NewKafkaQueue(p, topic, logger, nil).
		Enqueue(ctx, notify.RegistrationReceived("a@x.com", "Amina"))

	select {
	case to := <-dispatcher.emails:
		require.Equal(t, "a@x.com", to)
	case <-ctx.Done():
		t.Fatal("notification was not relayed")
	}
}
