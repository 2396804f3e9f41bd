package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/paylume/checkout/internal/env"
)

type RedisClient struct {
	client *redis.Client
}

func NewRedisClient() *RedisClient {
	return &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr:         env.Env.RedisAddr,
			Password:     "",
			DB:           0,
			PoolSize:     100,
			MinIdleConns: 10,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolTimeout:  4 * time.Second,
		}),
	}
}

func (r *RedisClient) Ping(ctx context.Context) error {
	_, err := r.client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("[cache] failed to ping Redis: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	err := r.client.Close()
	if err != nil {
		return fmt.Errorf("[cache] failed to close Redis connection: %w", err)
	}
	return nil
}
