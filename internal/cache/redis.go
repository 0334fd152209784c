package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/psyline/psyline-api/internal/config"
)

// ErrMiss is returned on a cache miss.
var ErrMiss = redis.Nil

// Client is the small cache surface the handlers depend on. Callers must
// tolerate a nil Client: the cache is an optional dependency.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}

type redisClient struct {
	client *redis.Client
}

func New(cfg *config.Config) (Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &redisClient{client: client}, nil
}

func (r *redisClient) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return r.client.Get(ctx, key).Result()
}

func (r *redisClient) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *redisClient) Del(ctx context.Context, keys ...string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return r.client.Del(ctx, keys...).Err()
}

func (r *redisClient) Close() error {
	return r.client.Close()
}

// ProfileKey is the cache key for a psychologist's aggregated profile.
func ProfileKey(psychologistID uint) string {
	return fmt.Sprintf("psychologist:profile:%d", psychologistID)
}
