// Package cache provides a small Redis wrapper used as a read-through cache
// for schedule feed responses. The cache is an optimization only: every
// failure degrades to a direct feed fetch.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"nfl_pickem/service/internal/metrics"
)

// Config holds Redis connection configuration.
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisCache wraps a Redis client with byte-payload get/set.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Msg("Successfully connected to Redis")

	return &RedisCache{client: client}, nil
}

// Get returns the cached payload for key, or (nil, false) on a miss.
// Errors are logged and treated as misses.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	start := time.Now()
	payload, err := c.client.Get(ctx, key).Bytes()
	metrics.RecordCacheOperation("get", time.Since(start).Seconds())

	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		metrics.RecordCacheMiss()
		return nil, false
	}

	metrics.RecordCacheHit()
	return payload, true
}

// Set stores payload under key with the given TTL. Failures are logged only.
func (c *RedisCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	start := time.Now()
	err := c.client.Set(ctx, key, payload, ttl).Err()
	metrics.RecordCacheOperation("set", time.Since(start).Seconds())

	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// Close closes the underlying Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
