package persistence

import (
	"fmt"
	"strings"

	"github.com/shopcore/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// criteriaTranslator turns shared.Criteria into gorm clauses for one table.
// Only columns mapped on the entity's gorm schema are accepted, so a filter
// or sorting can never inject SQL.
type criteriaTranslator struct {
	schema *schema.Schema
}

func invalidCriteria(format string, args ...any) error {
	return shared.WrapDomainError(shared.CodeInvalidCriteria, fmt.Sprintf(format, args...), nil)
}

// column resolves a qualified field ("product.name") or a bare column to a
// column of the current table
func (t criteriaTranslator) column(field string) (clause.Column, error) {
	entity, name := shared.SplitField(strings.TrimSpace(field))
	if entity != "" && entity != t.schema.Table {
		return clause.Column{}, invalidCriteria("field %q does not belong to %s", field, t.schema.Table)
	}
	f, ok := t.schema.FieldsByDBName[name]
	if !ok {
		return clause.Column{}, invalidCriteria("unknown field %q on %s", field, t.schema.Table)
	}
	return clause.Column{Table: clause.CurrentTable, Name: f.DBName}, nil
}

func (t criteriaTranslator) filter(f shared.Filter) (clause.Expression, error) {
	col, err := t.column(f.Field)
	if err != nil {
		return nil, err
	}

	switch f.Type {
	case shared.FilterTerm:
		return clause.Eq{Column: col, Value: f.Value}, nil
	case shared.FilterTerms:
		return clause.IN{Column: col, Values: f.Values}, nil
	case shared.FilterRange:
		if f.GTE == nil && f.LTE == nil {
			return nil, invalidCriteria("range filter on %q needs at least one bound", f.Field)
		}
		var exprs []clause.Expression
		if f.GTE != nil {
			exprs = append(exprs, clause.Gte{Column: col, Value: f.GTE})
		}
		if f.LTE != nil {
			exprs = append(exprs, clause.Lte{Column: col, Value: f.LTE})
		}
		return clause.And(exprs...), nil
	case shared.FilterPrefix:
		prefix, ok := f.Value.(string)
		if !ok {
			return nil, invalidCriteria("prefix filter on %q needs a string value", f.Field)
		}
		return clause.Like{Column: col, Value: prefix + "%"}, nil
	default:
		return nil, invalidCriteria("unsupported filter type %q", f.Type)
	}
}

// Where applies the filters of c
func (t criteriaTranslator) Where(db *gorm.DB, c *shared.Criteria) (*gorm.DB, error) {
	for _, f := range c.Filters {
		expr, err := t.filter(f)
		if err != nil {
			return nil, err
		}
		db = db.Where(expr)
	}
	return db, nil
}

// Order applies the sortings of c
func (t criteriaTranslator) Order(db *gorm.DB, c *shared.Criteria) (*gorm.DB, error) {
	for _, s := range c.Sortings {
		col, err := t.column(s.Field)
		if err != nil {
			return nil, err
		}
		dir, err := ValidateSortDirection(s.Direction)
		if err != nil {
			return nil, err
		}
		db = db.Order(clause.OrderByColumn{Column: col, Desc: dir == shared.Descending})
	}
	return db, nil
}

// Page applies offset and limit; a zero limit leaves the query unpaged
func (t criteriaTranslator) Page(db *gorm.DB, c *shared.Criteria) (*gorm.DB, error) {
	if c.Offset < 0 || c.Limit < 0 {
		return nil, invalidCriteria("offset and limit cannot be negative")
	}
	if c.Limit > 0 {
		db = db.Limit(c.Limit)
	}
	if c.Offset > 0 {
		db = db.Offset(c.Offset)
	}
	return db, nil
}

// aggregationFunctions maps aggregation types to SQL functions
var aggregationFunctions = map[shared.AggregationType]string{
	shared.AggregationCount: "COUNT",
	shared.AggregationSum:   "SUM",
	shared.AggregationAvg:   "AVG",
	shared.AggregationMin:   "MIN",
	shared.AggregationMax:   "MAX",
}

// Select builds the select expression of an aggregation
func (t criteriaTranslator) Select(db *gorm.DB, a shared.Aggregation) (string, error) {
	fn, ok := aggregationFunctions[a.Type]
	if !ok {
		return "", invalidCriteria("unsupported aggregation type %q", a.Type)
	}
	if strings.TrimSpace(a.Name) == "" {
		return "", invalidCriteria("aggregation on %q needs a name", a.Field)
	}
	if a.Type == shared.AggregationCount && a.Field == "" {
		return "COUNT(*)", nil
	}
	col, err := t.column(a.Field)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", fn, db.Statement.Quote(col.Name)), nil
}

// ValidateSortDirection normalizes a sort direction; empty means ascending
func ValidateSortDirection(dir shared.SortDirection) (shared.SortDirection, error) {
	switch shared.SortDirection(strings.ToUpper(strings.TrimSpace(string(dir)))) {
	case "", shared.Ascending:
		return shared.Ascending, nil
	case shared.Descending:
		return shared.Descending, nil
	default:
		return "", invalidCriteria("invalid sort direction %q", dir)
	}
}
