package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopcore/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// RedisEntityCache is an EntityCache shared between processes
type RedisEntityCache struct {
	client     *redis.Client
	ownsClient bool
	logger     *zap.Logger
}

// NewRedisEntityCache connects to redis and verifies the connection
func NewRedisEntityCache(cfg config.RedisConfig, logger *zap.Logger) (*RedisEntityCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := NewRedisEntityCacheWithClient(client, logger)
	c.ownsClient = true
	return c, nil
}

// NewRedisEntityCacheWithClient wraps an existing client.
// The caller keeps ownership of the client.
func NewRedisEntityCacheWithClient(client *redis.Client, logger *zap.Logger) *RedisEntityCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisEntityCache{client: client, logger: logger}
}

func (c *RedisEntityCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		c.logger.Error("Failed to read cache entry", zap.String("key", key), zap.Error(err))
		return nil, false, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}
	return data, true, nil
}

func (c *RedisEntityCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Error("Failed to write cache entry", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to set %s in cache: %w", key, err)
	}
	return nil
}

func (c *RedisEntityCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Error("Failed to delete cache entries", zap.Strings("keys", keys), zap.Error(err))
		return fmt.Errorf("failed to delete cache entries: %w", err)
	}
	return nil
}

// Close closes the client if the cache created it
func (c *RedisEntityCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}
