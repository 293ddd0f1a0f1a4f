// Package repository orchestrates entity reads, searches and writes and
// dispatches the loaded and written events that describe their results.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// LoadedEventFactory builds the loaded event for a just-read collection
type LoadedEventFactory[T shared.Entity] func(*shared.Collection[T], shared.TranslationContext) *shared.LoadedEvent[T]

// Store is a backend offering every data access contract of an entity
type Store[T shared.Entity] interface {
	shared.Reader[T]
	shared.Searcher[T]
	shared.Writer[T]
}

// Definition describes one entity for an EntityRepository.
// DetailReader and DetailEvent are optional; without them ReadDetail
// behaves like ReadBasic.
type Definition[T shared.Entity] struct {
	EntityName   string
	BasicEvent   LoadedEventFactory[T]
	DetailEvent  LoadedEventFactory[T]
	Reader       shared.Reader[T]
	DetailReader shared.Reader[T]
	Searcher     shared.Searcher[T]
	Writer       shared.Writer[T]
}

// EntityRepository delegates to its reader, searcher and writer and
// dispatches an event for every read, search and write. Errors from the
// delegates and from listeners are returned unchanged.
type EntityRepository[T shared.Entity] struct {
	def        Definition[T]
	dispatcher shared.EventDispatcher
	logger     *zap.Logger
}

// NewEntityRepository creates a repository for def
func NewEntityRepository[T shared.Entity](def Definition[T], dispatcher shared.EventDispatcher, logger *zap.Logger) *EntityRepository[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntityRepository[T]{
		def:        def,
		dispatcher: dispatcher,
		logger:     logger.With(zap.String("entity", def.EntityName)),
	}
}

// EntityName returns the name used for the repository's events
func (r *EntityRepository[T]) EntityName() string {
	return r.def.EntityName
}

// ReadBasic loads the entities with the given identifiers and dispatches
// "<entity>.basic.loaded". An empty identifier set returns an empty
// collection without I/O or dispatch. Unknown identifiers are omitted.
func (r *EntityRepository[T]) ReadBasic(ctx context.Context, uuids []uuid.UUID, tctx shared.TranslationContext) (*shared.Collection[T], error) {
	if len(uuids) == 0 {
		return shared.NewCollection[T](), nil
	}

	ctx, span := r.startSpan(ctx, "read_basic", tctx, telemetry.WithInputCount(len(uuids)))
	defer span.End()

	collection, err := r.def.Reader.ReadBasic(ctx, uuids, tctx)
	if err != nil {
		return nil, telemetry.Fail(span, err)
	}

	if err := r.dispatchLoaded(ctx, r.def.BasicEvent(collection, tctx)); err != nil {
		return nil, telemetry.Fail(span, err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrResultCount, collection.Count())
	return collection, nil
}

// ReadDetail loads the entities through the detail reader and dispatches
// "<entity>.detail.loaded"
func (r *EntityRepository[T]) ReadDetail(ctx context.Context, uuids []uuid.UUID, tctx shared.TranslationContext) (*shared.Collection[T], error) {
	if r.def.DetailReader == nil || r.def.DetailEvent == nil {
		return r.ReadBasic(ctx, uuids, tctx)
	}
	if len(uuids) == 0 {
		return shared.NewCollection[T](), nil
	}

	ctx, span := r.startSpan(ctx, "read_detail", tctx, telemetry.WithInputCount(len(uuids)))
	defer span.End()

	collection, err := r.def.DetailReader.ReadBasic(ctx, uuids, tctx)
	if err != nil {
		return nil, telemetry.Fail(span, err)
	}

	if err := r.dispatchLoaded(ctx, r.def.DetailEvent(collection, tctx)); err != nil {
		return nil, telemetry.Fail(span, err)
	}
	return collection, nil
}

// Search runs criteria through the searcher and dispatches the basic loaded
// event over the returned page. Total is the size of the full match set.
func (r *EntityRepository[T]) Search(ctx context.Context, criteria *shared.Criteria, tctx shared.TranslationContext) (*shared.SearchResult[T], error) {
	ctx, span := r.startSpan(ctx, "search", tctx)
	defer span.End()

	result, err := r.def.Searcher.Search(ctx, criteria, tctx)
	if err != nil {
		return nil, telemetry.Fail(span, err)
	}

	if err := r.dispatchLoaded(ctx, r.def.BasicEvent(result.Collection, tctx)); err != nil {
		return nil, telemetry.Fail(span, err)
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrResultCount, result.Count(),
		telemetry.SpanAttrTotal, result.Total,
	)
	return result, nil
}

// SearchUUIDs returns matching identifiers only; nothing is dispatched
func (r *EntityRepository[T]) SearchUUIDs(ctx context.Context, criteria *shared.Criteria, tctx shared.TranslationContext) (*shared.UuidSearchResult, error) {
	ctx, span := r.startSpan(ctx, "search_uuids", tctx)
	defer span.End()

	result, err := r.def.Searcher.SearchUUIDs(ctx, criteria, tctx)
	if err != nil {
		return nil, telemetry.Fail(span, err)
	}
	return result, nil
}

// Aggregate passes criteria through to the searcher; nothing is dispatched
func (r *EntityRepository[T]) Aggregate(ctx context.Context, criteria *shared.Criteria, tctx shared.TranslationContext) (*shared.AggregationResult, error) {
	ctx, span := r.startSpan(ctx, "aggregate", tctx)
	defer span.End()

	result, err := r.def.Searcher.Aggregate(ctx, criteria, tctx)
	if err != nil {
		return nil, telemetry.Fail(span, err)
	}
	return result, nil
}

// Create inserts data and dispatches the written envelope
func (r *EntityRepository[T]) Create(ctx context.Context, data []T, tctx shared.TranslationContext) (*shared.WrittenEvent, error) {
	return r.write(ctx, "create", data, tctx, r.def.Writer.Create)
}

// Update modifies existing rows and dispatches the written envelope
func (r *EntityRepository[T]) Update(ctx context.Context, data []T, tctx shared.TranslationContext) (*shared.WrittenEvent, error) {
	return r.write(ctx, "update", data, tctx, r.def.Writer.Update)
}

// Upsert inserts or updates data and dispatches the written envelope
func (r *EntityRepository[T]) Upsert(ctx context.Context, data []T, tctx shared.TranslationContext) (*shared.WrittenEvent, error) {
	return r.write(ctx, "upsert", data, tctx, r.def.Writer.Upsert)
}

type writeFunc[T shared.Entity] func(context.Context, []T, shared.TranslationContext) (*shared.WrittenEvent, error)

// write runs fn, dispatches "entity.written" wrapping the typed event and
// returns the typed event. The envelope itself is never returned.
func (r *EntityRepository[T]) write(ctx context.Context, operation string, data []T, tctx shared.TranslationContext, fn writeFunc[T]) (*shared.WrittenEvent, error) {
	ctx, span := r.startSpan(ctx, operation, tctx, telemetry.WithInputCount(len(data)))
	defer span.End()

	written, err := fn(ctx, data, tctx)
	if err != nil {
		return nil, telemetry.Fail(span, err)
	}
	if written == nil {
		written = shared.NewWrittenEvent(r.def.EntityName, nil, tctx)
	}

	envelope := shared.NewGenericWrittenEvent(written, tctx)
	r.logger.Debug("dispatching written event",
		zap.String("operation", operation),
		zap.Int("records", len(written.Records())),
	)
	if err := r.dispatcher.Dispatch(ctx, envelope.Name(), envelope); err != nil {
		return nil, telemetry.Fail(span, err)
	}
	return written, nil
}

func (r *EntityRepository[T]) dispatchLoaded(ctx context.Context, event *shared.LoadedEvent[T]) error {
	r.logger.Debug("dispatching loaded event",
		zap.String("event", event.Name()),
		zap.Int("count", event.Collection().Count()),
	)
	return r.dispatcher.Dispatch(ctx, event.Name(), event)
}

func (r *EntityRepository[T]) startSpan(ctx context.Context, operation string, tctx shared.TranslationContext, opts ...telemetry.SpanOption) (context.Context, trace.Span) {
	opts = append(opts, telemetry.WithTranslationContext(tctx))
	return telemetry.StartEntitySpan(ctx, r.def.EntityName, operation, opts...)
}

// Ensure EntityRepository implements Repository
var _ shared.Repository[shared.Entity] = (*EntityRepository[shared.Entity])(nil)
