package cache

import (
	"fmt"

	"github.com/shopcore/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New creates the cache backend selected by cfg.Backend. When redis is
// selected but unreachable, the in-memory cache is used instead unless
// requireRedis is set.
func New(cfg config.CacheConfig, redisCfg config.RedisConfig, requireRedis bool, logger *zap.Logger) (EntityCache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Backend != config.CacheBackendRedis {
		return NewInMemoryEntityCache(0, logger), nil
	}

	c, err := NewRedisEntityCache(redisCfg, logger)
	if err == nil {
		logger.Info("Using redis entity cache", zap.String("addr", redisCfg.Addr()))
		return c, nil
	}
	if requireRedis {
		return nil, fmt.Errorf("redis entity cache unavailable: %w", err)
	}

	logger.Warn("Redis unavailable, falling back to in-memory entity cache", zap.Error(err))
	return NewInMemoryEntityCache(0, logger), nil
}
