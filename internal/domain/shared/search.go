package shared

import "github.com/google/uuid"

// SearchResult is a page of hydrated entities plus the total match count.
// Total may exceed the page size.
type SearchResult[T Entity] struct {
	*Collection[T]
	Total int64
}

// NewSearchResult creates a search result
func NewSearchResult[T Entity](collection *Collection[T], total int64) *SearchResult[T] {
	if collection == nil {
		collection = NewCollection[T]()
	}
	return &SearchResult[T]{Collection: collection, Total: total}
}

// UuidSearchResult is an identifier-only search result
type UuidSearchResult struct {
	UUIDs []uuid.UUID
	Total int64
}

// AggregationResult maps aggregation names to their values
type AggregationResult struct {
	Values map[string]any
	Total  int64
}

// Get returns the value of a named aggregation
func (r *AggregationResult) Get(name string) (any, bool) {
	if r == nil || r.Values == nil {
		return nil, false
	}
	v, ok := r.Values[name]
	return v, ok
}
