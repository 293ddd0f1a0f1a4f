package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e *cacheEntry) isExpired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// InMemoryEntityCache is a process-local EntityCache. Expired entries are
// dropped on access and by a background sweep until Close is called.
type InMemoryEntityCache struct {
	entries sync.Map // map[string]*cacheEntry
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
}

// NewInMemoryEntityCache creates an in-memory cache sweeping expired entries
// every cleanupInterval; zero uses 30 seconds
func NewInMemoryEntityCache(cleanupInterval time.Duration, logger *zap.Logger) *InMemoryEntityCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cleanupInterval <= 0 {
		cleanupInterval = defaultCleanupInterval
	}
	c := &InMemoryEntityCache{
		logger: logger,
		stopCh: make(chan struct{}),
	}
	go c.cleanupExpired(cleanupInterval)
	return c
}

// Get returns a live entry
func (c *InMemoryEntityCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if value, ok := c.entries.Load(key); ok {
		entry := value.(*cacheEntry)
		if !entry.isExpired(time.Now()) {
			c.hits.Add(1)
			return entry.value, true, nil
		}
		c.entries.Delete(key)
	}
	c.misses.Add(1)
	return nil, false, nil
}

// Set stores value; a zero ttl never expires
func (c *InMemoryEntityCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := &cacheEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.entries.Store(key, entry)
	return nil
}

// Delete removes keys; unknown keys are ignored
func (c *InMemoryEntityCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.entries.Delete(key)
	}
	return nil
}

// Close stops the background sweep
func (c *InMemoryEntityCache) Close() error {
	if c.stopped.CompareAndSwap(false, true) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns hit and miss counters
func (c *InMemoryEntityCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *InMemoryEntityCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case now := <-ticker.C:
			if removed := c.sweep(now); removed > 0 {
				c.logger.Debug("Removed expired cache entries", zap.Int("count", removed))
			}
		}
	}
}

func (c *InMemoryEntityCache) sweep(now time.Time) int {
	removed := 0
	c.entries.Range(func(key, value any) bool {
		if value.(*cacheEntry).isExpired(now) {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	return removed
}
