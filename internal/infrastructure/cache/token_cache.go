// Package cache provides Redis-backed caching for hot authentication lookups.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/forkful/v1/internal/infrastructure/config"
)

const tokenKeyPrefix = "forkful:token:"

// TokenCache maps opaque token keys to user IDs so that authenticated
// requests do not hit the database on every call. Entries are advisory:
// a miss always falls back to the token repository.
type TokenCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewTokenCache connects to Redis using the provided configuration.
func NewTokenCache(cfg config.RedisConfig, logger *zap.Logger) (*TokenCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &TokenCache{
		client: client,
		ttl:    cfg.CacheTTL,
		logger: logger,
	}, nil
}

// Get returns the cached user ID for a token key, if present.
func (c *TokenCache) Get(ctx context.Context, key string) (uuid.UUID, bool) {
	val, err := c.client.Get(ctx, tokenKeyPrefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("token cache read failed", zap.Error(err))
		}
		return uuid.Nil, false
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Set stores a token to user ID mapping for the configured TTL.
func (c *TokenCache) Set(ctx context.Context, key string, userID uuid.UUID) {
	if err := c.client.Set(ctx, tokenKeyPrefix+key, userID.String(), c.ttl).Err(); err != nil {
		c.logger.Warn("token cache write failed", zap.Error(err))
	}
}

// Invalidate drops a token mapping, used when tokens expire.
func (c *TokenCache) Invalidate(ctx context.Context, key string) {
	if err := c.client.Del(ctx, tokenKeyPrefix+key).Err(); err != nil {
		c.logger.Warn("token cache invalidation failed", zap.Error(err))
	}
}

// Close releases the underlying Redis connection.
func (c *TokenCache) Close() error {
	return c.client.Close()
}
