package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"consultly/internal/auth/revocation"
	"consultly/internal/notify"
	"consultly/internal/platform/config"
	"consultly/internal/platform/kafka"
	"consultly/internal/platform/kafka/consumer"
	"consultly/internal/platform/kafka/producer"
	platformredis "consultly/internal/platform/redis"
	"consultly/internal/principal"
	"consultly/internal/principal/store"
	"consultly/internal/sequence"
	httptransport "consultly/internal/transport/http"
	"consultly/pkg/platform/audit"
	auditmemory "consultly/pkg/platform/audit/store/memory"
	auditpostgres "consultly/pkg/platform/audit/store/postgres"
	"consultly/pkg/platform/circuit"
)

const (
	notificationPartitions  = 3
	notificationReplication = 1
)

// infrastructure picks a backend per concern: Postgres when DATABASE_URL
// is set, Redis when REDIS_URL is set, memory otherwise.
type infrastructure struct {
	cfg   *config.Config
	log   *slog.Logger
	db    *sql.DB
	redis *platformredis.Client
}

func (i infrastructure) directory() *principal.Directory {
	if i.db != nil {
		return principal.NewDirectory(store.NewIndividualsPostgres(i.db), store.NewOrganizationsPostgres(i.db))
	}
	i.log.Warn("DATABASE_URL not set, accounts are kept in memory")
	return principal.NewDirectory(store.NewIndividualsInMemory(), store.NewOrganizationsInMemory())
}

func (i infrastructure) sequences() (sequence.Allocator, error) {
	var alloc sequence.Allocator
	switch i.cfg.Sequence.Backend {
	case "postgres":
		alloc = sequence.NewPostgres(i.db)
	case "redis":
		if i.redis == nil {
			return nil, fmt.Errorf("redis sequence backend needs a redis client")
		}
		alloc = sequence.NewRedis(i.redis.Client)
	default:
		alloc = sequence.NewInMemory()
	}
	return sequence.NewInstrumented(alloc, sequence.NewMetrics()), nil
}

// revocations prefers Redis so every instance sees a logout at once. A
// local list covers Redis outages.
func (i infrastructure) revocations() revocation.List {
	switch {
	case i.redis != nil:
		return revocation.NewResilient(
			revocation.NewRedis(i.redis.Client),
			revocation.NewInMemory(time.Now),
			circuit.New("revocation"),
			i.log,
		)
	case i.db != nil:
		return revocation.NewPostgres(i.db, time.Now)
	default:
		return revocation.NewInMemory(time.Now)
	}
}

func (i infrastructure) auditStore() audit.Store {
	if i.db != nil {
		return auditpostgres.New(i.db)
	}
	return auditmemory.NewInMemoryStore()
}

func (i infrastructure) healthChecks(revocations revocation.List) map[string]httptransport.HealthCheck {
	checks := map[string]httptransport.HealthCheck{}
	if h, ok := revocations.(interface{ Health(context.Context) error }); ok {
		checks["revocations"] = h.Health
	}
	if i.db != nil {
		checks["postgres"] = i.db.PingContext
	}
	if i.redis != nil {
		checks["redis"] = i.redis.Health
	}
	return checks
}

// notificationPipeline is the queue the services enqueue on plus the
// background loops that deliver from it.
type notificationPipeline struct {
	queue   notify.Queue
	workers []func(ctx context.Context) error
	close   func(ctx context.Context)
}

// notifications publishes to Kafka and relays from the topic in-process
// when brokers are configured; otherwise a bounded worker pool delivers.
func (i infrastructure) notifications(ctx context.Context) (notificationPipeline, error) {
	m := notify.NewMetrics()
	dispatcher := notify.NewLogDispatcher(i.log, !i.cfg.IsProduction())

	if len(i.cfg.Kafka.Brokers) == 0 {
		q := notify.NewWorkerQueue(dispatcher, i.cfg.Notify.Workers, i.cfg.Notify.BufferSize,
			notify.WithLogger(i.log),
			notify.WithMetrics(m),
		)
		return notificationPipeline{
			queue: q,
			close: func(ctx context.Context) {
				if err := q.Close(ctx); err != nil {
					i.log.Warn("notification queue did not drain", "error", err)
				}
			},
		}, nil
	}

	topic := i.cfg.Kafka.NotificationTopic
	prod, err := producer.New(i.cfg.Kafka.Brokers, i.log)
	if err != nil {
		return notificationPipeline{}, err
	}
	if err := prod.Ping(ctx); err != nil {
		prod.Close(ctx)
		return notificationPipeline{}, fmt.Errorf("kafka ping: %w", err)
	}
	if err := kafka.EnsureTopic(ctx, prod.Client(), topic, notificationPartitions, notificationReplication); err != nil {
		prod.Close(ctx)
		return notificationPipeline{}, err
	}
	relay, err := consumer.New(consumer.Config{
		Brokers: i.cfg.Kafka.Brokers,
		Group:   i.cfg.Kafka.ConsumerGroup,
		Topics:  []string{topic},
	}, notify.NewRelay(dispatcher, i.log, m), i.log)
	if err != nil {
		prod.Close(ctx)
		return notificationPipeline{}, err
	}
	return notificationPipeline{
		queue:   notify.NewKafkaQueue(prod, topic, i.log, m),
		workers: []func(ctx context.Context) error{relay.Run},
		close:   prod.Close,
	}, nil
}
