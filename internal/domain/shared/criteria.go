package shared

import "strings"

// SortDirection is the direction of a field sorting
type SortDirection string

const (
	Ascending  SortDirection = "ASC"
	Descending SortDirection = "DESC"
)

// FilterType identifies the kind of a Filter
type FilterType string

const (
	FilterTerm   FilterType = "term"
	FilterTerms  FilterType = "terms"
	FilterRange  FilterType = "range"
	FilterPrefix FilterType = "prefix"
)

// Filter restricts a search to matching rows.
// Field names are qualified with the entity name, e.g. "product_media.product_uuid".
type Filter struct {
	Type   FilterType
	Field  string
	Value  any
	Values []any
	GTE    any
	LTE    any
}

// TermFilter matches a single value
func TermFilter(field string, value any) Filter {
	return Filter{Type: FilterTerm, Field: field, Value: value}
}

// TermsFilter matches any of the given values
func TermsFilter[V any](field string, values []V) Filter {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return Filter{Type: FilterTerms, Field: field, Values: vs}
}

// RangeFilter matches values within [gte, lte]; a nil bound is open
func RangeFilter(field string, gte, lte any) Filter {
	return Filter{Type: FilterRange, Field: field, GTE: gte, LTE: lte}
}

// PrefixFilter matches string values starting with prefix
func PrefixFilter(field, prefix string) Filter {
	return Filter{Type: FilterPrefix, Field: field, Value: prefix}
}

// FieldSorting orders results by a field
type FieldSorting struct {
	Field     string
	Direction SortDirection
}

// AggregationType identifies an aggregation function
type AggregationType string

const (
	AggregationCount AggregationType = "count"
	AggregationSum   AggregationType = "sum"
	AggregationAvg   AggregationType = "avg"
	AggregationMin   AggregationType = "min"
	AggregationMax   AggregationType = "max"
)

// Aggregation requests a named aggregate over a field
type Aggregation struct {
	Name  string
	Type  AggregationType
	Field string
}

// Criteria is a query specification passed opaquely to a Searcher
type Criteria struct {
	Filters      []Filter
	Sortings     []FieldSorting
	Aggregations []Aggregation
	Offset       int
	Limit        int
}

// NewCriteria creates an empty criteria without paging
func NewCriteria() *Criteria {
	return &Criteria{}
}

// AddFilter appends a filter
func (c *Criteria) AddFilter(f Filter) *Criteria {
	c.Filters = append(c.Filters, f)
	return c
}

// AddSorting appends a sorting; an empty direction means ascending
func (c *Criteria) AddSorting(field string, dir SortDirection) *Criteria {
	if dir == "" {
		dir = Ascending
	}
	c.Sortings = append(c.Sortings, FieldSorting{Field: field, Direction: dir})
	return c
}

// AddAggregation appends an aggregation
func (c *Criteria) AddAggregation(a Aggregation) *Criteria {
	c.Aggregations = append(c.Aggregations, a)
	return c
}

// SetPage sets offset and limit; a limit of zero disables paging
func (c *Criteria) SetPage(offset, limit int) *Criteria {
	c.Offset = offset
	c.Limit = limit
	return c
}

// SplitField splits a qualified field name into entity and column.
// Unqualified fields return an empty entity.
func SplitField(field string) (entity, column string) {
	if i := strings.LastIndex(field, "."); i >= 0 {
		return field[:i], field[i+1:]
	}
	return "", field
}
