package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisCache stores vectors in Redis. Writes are last-write-wins; concurrent
// fills for the same key simply overwrite each other with equal values.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    zerolog.Logger
}

func NewRedisCache(redisURL, prefix string, ttl time.Duration, log zerolog.Logger) (*RedisCache, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL must be provided")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		log:    log.With().Str("component", "redis-cache").Logger(),
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", key).Msg("cache read failed, treating as miss")
		}
		return nil, false
	}

	vector, err := DecodeVector(data)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("corrupt cache entry, treating as miss")
		return nil, false
	}

	return vector, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []float32, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}
	return c.client.Set(ctx, c.prefix+key, EncodeVector(value), ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

// HealthCheck reports whether Redis is reachable.
func (c *RedisCache) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
