package sequence

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"consultly/pkg/platform/sentinel"
)

const redisKeyPrefix = "sequence:"

// RedisAllocator uses INCR, which creates missing keys at 1.
type RedisAllocator struct {
	client redis.Cmdable
}

func NewRedis(client redis.Cmdable) *RedisAllocator {
	return &RedisAllocator{client: client}
}

func (a *RedisAllocator) Next(ctx context.Context, name string) (int64, error) {
	value, err := a.client.Incr(ctx, redisKeyPrefix+name).Result()
	if err != nil {
		return 0, fmt.Errorf("next %s: %w: %w", name, sentinel.ErrUnavailable, err)
	}
	return value, nil
}
