package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"student-assistant/internal/domain/entity"
)

// maxUpdateAttempts bounds optimistic-lock retries on a contended key.
const maxUpdateAttempts = 10

var ErrProgressContention = errors.New("progress update contention")

type RedisProgressStore struct {
	client *redis.Client
}

func NewRedisProgressStore(client *redis.Client) *RedisProgressStore {
	return &RedisProgressStore{client: client}
}

func progressKey(key string) string {
	return "progress:" + key
}

// Get returns nil, nil when nothing was stored under key.
func (s *RedisProgressStore) Get(ctx context.Context, key string) (*entity.Progress, error) {
	return readProgress(ctx, s.client, key)
}

func (s *RedisProgressStore) Put(ctx context.Context, p entity.Progress) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, progressKey(p.Key), raw, 0).Err(); err != nil {
		return fmt.Errorf("progress put %s: %w", p.Key, err)
	}
	return nil
}

// Update is a WATCH/MULTI read-modify-write, retried when another writer
// touched the key in between.
func (s *RedisProgressStore) Update(ctx context.Context, key string, fn func(cur *entity.Progress) (entity.Progress, error)) (*entity.Progress, error) {
	rk := progressKey(key)
	var out entity.Progress
	txf := func(tx *redis.Tx) error {
		cur, err := readProgress(ctx, tx, key)
		if err != nil {
			return err
		}
		next, err := fn(cur)
		if err != nil {
			return err
		}
		next.Key = key
		raw, err := json.Marshal(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, rk, raw, 0)
			return nil
		})
		if err == nil {
			out = next
		}
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, rk)
		if err == nil {
			return &out, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("progress update %s: %w", key, ErrProgressContention)
}

// stringGetter is satisfied by both *redis.Client and *redis.Tx.
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readProgress(ctx context.Context, c stringGetter, key string) (*entity.Progress, error) {
	raw, err := c.Get(ctx, progressKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("progress get %s: %w", key, err)
	}
	var p entity.Progress
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("progress decode %s: %w", key, err)
	}
	return &p, nil
}
