package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Store is the data access backend wrapped by ReadThroughStore
type Store[T shared.Entity] interface {
	shared.Reader[T]
	shared.Searcher[T]
	shared.Writer[T]
}

// ReadThroughStore serves ReadBasic from the entity cache and reads only
// the missing identifiers from the wrapped store. Rows are cached as the
// store returned them, before any listener enriches them, so derived fields
// are recomputed by the loaded event the repository dispatches on every read.
// Search and writes go straight to the wrapped store.
//
// Entries are keyed by entity and UUID only, so stores scoped by shop must
// not be wrapped.
type ReadThroughStore[T shared.Entity] struct {
	Store[T]
	cache      EntityCache
	keys       Keys
	entityName string
	ttl        time.Duration
	logger     *zap.Logger
}

// NewReadThroughStore wraps store with the entity cache
func NewReadThroughStore[T shared.Entity](
	store Store[T],
	c EntityCache,
	keys Keys,
	entityName string,
	ttl time.Duration,
	logger *zap.Logger,
) *ReadThroughStore[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReadThroughStore[T]{
		Store:      store,
		cache:      c,
		keys:       keys,
		entityName: entityName,
		ttl:        ttl,
		logger:     logger.With(zap.String("entity", entityName)),
	}
}

// ReadBasic returns cached entities and loads the rest from the wrapped
// store, caching them. The result follows the order of uuids. Cache
// failures are logged and fall back to the store.
func (s *ReadThroughStore[T]) ReadBasic(ctx context.Context, uuids []uuid.UUID, tctx shared.TranslationContext) (*shared.Collection[T], error) {
	if len(uuids) == 0 {
		return shared.NewCollection[T](), nil
	}

	hits := shared.NewCollection[T]()
	misses := make([]uuid.UUID, 0, len(uuids))
	for _, id := range uuids {
		if hits.Has(id) {
			continue
		}
		entity, found, err := Load[T](ctx, s.cache, s.keys.Entity(s.entityName, id))
		if err != nil {
			s.logger.Warn("Failed to read cached entity", zap.Stringer("uuid", id), zap.Error(err))
		}
		if found {
			hits.Add(entity)
			continue
		}
		misses = append(misses, id)
	}

	if len(misses) == 0 {
		s.logger.Debug("Served read from cache", zap.Int("hits", hits.Count()))
		return hits.SortedBy(uuids), nil
	}

	loaded, err := s.Store.ReadBasic(ctx, misses, tctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, loaded)

	s.logger.Debug("Read through cache",
		zap.Int("hits", hits.Count()),
		zap.Int("misses", len(misses)),
		zap.Int("loaded", loaded.Count()),
	)
	return hits.Merge(loaded).SortedBy(uuids), nil
}

func (s *ReadThroughStore[T]) store(ctx context.Context, loaded *shared.Collection[T]) {
	for entity := range loaded.All() {
		key := s.keys.Entity(s.entityName, entity.GetUUID())
		data, err := json.Marshal(entity)
		if err != nil {
			s.logger.Warn("Failed to encode entity for cache", zap.String("key", key), zap.Error(err))
			continue
		}
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.Warn("Failed to fill cache", zap.String("key", key), zap.Error(err))
			return
		}
	}
}
