package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// usageWindow bounds how long a client's token count is kept.
const usageWindow = 24 * time.Hour

type RedisLimiter struct {
	client *redis.Client
	limit  int // max tokens per window; 0 disables the check
}

func NewRedisLimiter(client *redis.Client, limit int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
	}
}

func usageKey(clientID string) string {
	return "usage:" + clientID
}

func (r *RedisLimiter) CheckLimit(ctx context.Context, clientID string) (bool, error) {
	if r.limit <= 0 {
		return true, nil
	}
	val, err := r.client.Get(ctx, usageKey(clientID)).Result()
	if errors.Is(err, redis.Nil) {
		return true, nil // No usage yet
	}
	if err != nil {
		return false, err
	}
	usage, err := strconv.Atoi(val)
	if err != nil {
		return false, err
	}
	return usage < r.limit, nil
}

func (r *RedisLimiter) Increment(ctx context.Context, clientID string, tokens int) error {
	key := usageKey(clientID)
	pipe := r.client.TxPipeline()
	pipe.IncrBy(ctx, key, int64(tokens))
	pipe.ExpireNX(ctx, key, usageWindow)
	_, err := pipe.Exec(ctx)
	return err
}
