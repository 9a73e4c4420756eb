// Package cache provides vector cache backends for the embedding resolver.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"imagesim/internal/config"
	"imagesim/internal/domain/embedding"
)

// NoopCache disables caching; every lookup is a miss.
type NoopCache struct{}

func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (NoopCache) Get(context.Context, string) ([]float32, bool) {
	return nil, false
}

func (NoopCache) Set(context.Context, string, []float32, time.Duration) error {
	return nil
}

func (NoopCache) Delete(context.Context, string) error {
	return nil
}

// New builds the cache backend selected by configuration.
func New(cfg *config.Config, log zerolog.Logger) (embedding.Cache, error) {
	switch cfg.CacheBackend {
	case "redis":
		return NewRedisCache(cfg.RedisURL, cfg.CacheKeyPrefix, cfg.CacheTTL, log)
	case "memory":
		return NewMemoryCache(cfg.CacheMaxSize, cfg.CacheTTL)
	case "noop":
		return NewNoopCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.CacheBackend)
	}
}
