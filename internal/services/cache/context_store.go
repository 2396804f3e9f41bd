package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/paylume/checkout/internal/services/capture"
)

// RedisContextStore keeps the last issued capture context per session.
// Entries carry the session TTL so they expire with the session.
type RedisContextStore struct {
	client *RedisClient
	ttl    time.Duration
}

func NewRedisContextStore(client *RedisClient, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{
		client: client,
		ttl:    ttl,
	}
}

func contextKey(sessionID string) string {
	return fmt.Sprintf("checkout:context:%s", sessionID)
}

func (s *RedisContextStore) Get(ctx context.Context, sessionID string) (*capture.StoredContext, error) {
	data, err := s.client.client.Get(ctx, contextKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("[cache] failed to read capture context: %w", err)
	}

	var stored capture.StoredContext
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("[cache] failed to unmarshal capture context: %w", err)
	}
	return &stored, nil
}

func (s *RedisContextStore) Put(ctx context.Context, sessionID string, stored capture.StoredContext) error {
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("[cache] failed to marshal capture context: %w", err)
	}
	if err := s.client.client.Set(ctx, contextKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("[cache] failed to store capture context: %w", err)
	}
	return nil
}
