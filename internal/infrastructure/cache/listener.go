package cache

import (
	"context"
	"fmt"

	"github.com/shopcore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Invalidator drops the cached entries of written entities. It listens on
// the generic written envelope so one registration covers every entity.
type Invalidator struct {
	cache  EntityCache
	keys   Keys
	logger *zap.Logger
}

// NewInvalidator creates a cache invalidating listener
func NewInvalidator(c EntityCache, keys Keys, logger *zap.Logger) *Invalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invalidator{cache: c, keys: keys, logger: logger}
}

// Handle deletes the keys of every change record. A failed delete is
// returned so the write reports the stale cache.
func (i *Invalidator) Handle(ctx context.Context, event shared.NestedEvent) error {
	var written *shared.WrittenEvent
	switch e := event.(type) {
	case *shared.GenericWrittenEvent:
		written = e.Written()
	case *shared.WrittenEvent:
		written = e
	}
	if written == nil || len(written.Records()) == 0 {
		return nil
	}

	keys := make([]string, 0, len(written.Records()))
	for _, id := range written.UUIDs() {
		keys = append(keys, i.keys.Entity(written.EntityName(), id))
	}
	if err := i.cache.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("failed to invalidate %s cache: %w", written.EntityName(), err)
	}

	i.logger.Debug("Invalidated cache entries", zap.String("entity", written.EntityName()), zap.Int("count", len(keys)))
	return nil
}
