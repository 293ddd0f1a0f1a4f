package shared

import (
	"context"

	"github.com/google/uuid"
)

// Reader loads entities by identifier. Unknown identifiers are omitted from
// the result and are not an error.
type Reader[T Entity] interface {
	ReadBasic(ctx context.Context, uuids []uuid.UUID, tctx TranslationContext) (*Collection[T], error)
}

// Searcher runs criteria searches
type Searcher[T Entity] interface {
	Search(ctx context.Context, criteria *Criteria, tctx TranslationContext) (*SearchResult[T], error)
	SearchUUIDs(ctx context.Context, criteria *Criteria, tctx TranslationContext) (*UuidSearchResult, error)
	Aggregate(ctx context.Context, criteria *Criteria, tctx TranslationContext) (*AggregationResult, error)
}

// Writer persists entities and reports the applied changes
type Writer[T Entity] interface {
	Create(ctx context.Context, data []T, tctx TranslationContext) (*WrittenEvent, error)
	Update(ctx context.Context, data []T, tctx TranslationContext) (*WrittenEvent, error)
	Upsert(ctx context.Context, data []T, tctx TranslationContext) (*WrittenEvent, error)
}

// Repository is the read/search/write contract every entity repository offers
type Repository[T Entity] interface {
	EntityName() string
	ReadBasic(ctx context.Context, uuids []uuid.UUID, tctx TranslationContext) (*Collection[T], error)
	ReadDetail(ctx context.Context, uuids []uuid.UUID, tctx TranslationContext) (*Collection[T], error)
	Search(ctx context.Context, criteria *Criteria, tctx TranslationContext) (*SearchResult[T], error)
	SearchUUIDs(ctx context.Context, criteria *Criteria, tctx TranslationContext) (*UuidSearchResult, error)
	Aggregate(ctx context.Context, criteria *Criteria, tctx TranslationContext) (*AggregationResult, error)
	Create(ctx context.Context, data []T, tctx TranslationContext) (*WrittenEvent, error)
	Update(ctx context.Context, data []T, tctx TranslationContext) (*WrittenEvent, error)
	Upsert(ctx context.Context, data []T, tctx TranslationContext) (*WrittenEvent, error)
}
