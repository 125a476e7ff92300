// Package cache keeps short-lived account state in Redis so the auth
// middleware does not hit Postgres on every request.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Options configures the Redis connection
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect returns a client, or nil when Addr is empty or Redis is unreachable.
// A nil client disables caching.
func Connect(ctx context.Context, opts Options, logger zerolog.Logger) *redis.Client {
	if opts.Addr == "" {
		logger.Warn().Msg("REDIS_ADDR not set, account status caching disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error().Err(err).Str("addr", opts.Addr).Msg("Could not connect to Redis, caching disabled")
		_ = client.Close()
		return nil
	}

	logger.Info().Str("addr", opts.Addr).Msg("Connected to Redis")
	return client
}

// StatusCache stores whether an account is active. All methods are no-ops on
// a nil receiver or nil client.
type StatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatusCache wraps client; client may be nil.
func NewStatusCache(client *redis.Client, ttl time.Duration) *StatusCache {
	return &StatusCache{client: client, ttl: ttl}
}

// Enabled reports whether a Redis client is attached.
func (c *StatusCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Key is the Redis key for one account.
func Key(role string, id int64) string {
	return fmt.Sprintf("account:active:%s:%d", role, id)
}

// Get returns (active, found). Cache errors are reported as a miss plus err.
func (c *StatusCache) Get(ctx context.Context, role string, id int64) (bool, bool, error) {
	if !c.Enabled() {
		return false, false, nil
	}
	val, err := c.client.Get(ctx, Key(role, id)).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return val == "1", true, nil
}

// Set records the active flag with the configured TTL.
func (c *StatusCache) Set(ctx context.Context, role string, id int64, active bool) error {
	if !c.Enabled() {
		return nil
	}
	val := "0"
	if active {
		val = "1"
	}
	return c.client.Set(ctx, Key(role, id), val, c.ttl).Err()
}

// Evict drops the cached flag, used when an account is deactivated or edited.
func (c *StatusCache) Evict(ctx context.Context, role string, id int64) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Del(ctx, Key(role, id)).Err()
}

// Close closes the underlying client.
func (c *StatusCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
