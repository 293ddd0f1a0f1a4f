// Package cache keeps JSON snapshots of stored entities. ReadThroughStore
// fills and serves them and Invalidator drops them on written events.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntityCache stores serialized entities by key.
// Get reports a miss with found == false and a nil error.
type EntityCache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Keys builds cache keys of the form "<prefix><entity>:<uuid>"
type Keys struct {
	Prefix string
}

// Entity returns the key of one entity
func (k Keys) Entity(entityName string, id uuid.UUID) string {
	return fmt.Sprintf("%s%s:%s", k.Prefix, entityName, id)
}

// Load reads and decodes a cached entity
func Load[T any](ctx context.Context, c EntityCache, key string) (T, bool, error) {
	var value T
	data, found, err := c.Get(ctx, key)
	if err != nil || !found {
		return value, false, err
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return value, true, nil
}
