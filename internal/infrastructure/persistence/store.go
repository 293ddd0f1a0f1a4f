package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// StoreOption configures a GormStore
type StoreOption func(*storeOptions)

type storeOptions struct {
	preloads   []string
	shopColumn string
	validate   *validator.Validate
	logger     *zap.Logger
}

// WithPreloads sets the associations loaded together with every row,
// e.g. "Customer.DefaultAddress.Country"
func WithPreloads(associations ...string) StoreOption {
	return func(o *storeOptions) {
		o.preloads = append(o.preloads, associations...)
	}
}

// WithShopScope restricts searches and aggregations to the shop of the
// translation context using the given column
func WithShopScope(column string) StoreOption {
	return func(o *storeOptions) {
		o.shopColumn = column
	}
}

// WithValidator sets the validator used for write payloads
func WithValidator(v *validator.Validate) StoreOption {
	return func(o *storeOptions) {
		o.validate = v
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) StoreOption {
	return func(o *storeOptions) {
		o.logger = logger
	}
}

// GormStore is the reader, searcher and writer of one entity table.
// E is the entity struct and T its pointer, the type held in collections.
type GormStore[E any, T interface {
	*E
	shared.Entity
}] struct {
	db         *gorm.DB
	entityName string
	opts       storeOptions
}

// NewGormStore creates a store for the entity named entityName
func NewGormStore[E any, T interface {
	*E
	shared.Entity
}](db *gorm.DB, entityName string, opts ...StoreOption) *GormStore[E, T] {
	o := storeOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.validate == nil {
		o.validate = NewValidator()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	o.logger = o.logger.With(zap.String("entity", entityName))

	return &GormStore[E, T]{
		db:         db,
		entityName: entityName,
		opts:       o,
	}
}

func (s *GormStore[E, T]) schema() (*schema.Schema, error) {
	stmt := &gorm.Statement{DB: s.db}
	if err := stmt.Parse(new(E)); err != nil {
		return nil, fmt.Errorf("failed to parse %s schema: %w", s.entityName, err)
	}
	return stmt.Schema, nil
}

// query starts a statement on the entity table
func (s *GormStore[E, T]) query(ctx context.Context) (*gorm.DB, criteriaTranslator, error) {
	sch, err := s.schema()
	if err != nil {
		return nil, criteriaTranslator{}, err
	}
	return s.db.WithContext(ctx).Model(new(E)), criteriaTranslator{schema: sch}, nil
}

func (s *GormStore[E, T]) preload(tx *gorm.DB) *gorm.DB {
	for _, association := range s.opts.preloads {
		tx = tx.Preload(association)
	}
	return tx
}

// filtered applies the shop scope and the criteria filters
func (s *GormStore[E, T]) filtered(ctx context.Context, criteria *shared.Criteria, tctx shared.TranslationContext) (*gorm.DB, criteriaTranslator, error) {
	if criteria == nil {
		criteria = shared.NewCriteria()
	}
	tx, t, err := s.query(ctx)
	if err != nil {
		return nil, t, err
	}
	if s.opts.shopColumn != "" && tctx.ShopUUID() != uuid.Nil {
		tx = tx.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: s.opts.shopColumn},
			Value:  tctx.ShopUUID(),
		})
	}
	tx, err = t.Where(tx, criteria)
	if err != nil {
		return nil, t, err
	}
	return tx.Session(&gorm.Session{}), t, nil
}

// ordered applies sortings and paging on top of a filtered statement
func (s *GormStore[E, T]) ordered(tx *gorm.DB, t criteriaTranslator, criteria *shared.Criteria) (*gorm.DB, error) {
	if criteria == nil {
		return tx, nil
	}
	tx, err := t.Order(tx, criteria)
	if err != nil {
		return nil, err
	}
	return t.Page(tx, criteria)
}

// ReadBasic loads the rows with the given identifiers. Unknown identifiers
// are omitted.
func (s *GormStore[E, T]) ReadBasic(ctx context.Context, uuids []uuid.UUID, _ shared.TranslationContext) (*shared.Collection[T], error) {
	if len(uuids) == 0 {
		return shared.NewCollection[T](), nil
	}

	tx, _, err := s.query(ctx)
	if err != nil {
		return nil, err
	}

	values := make([]any, len(uuids))
	for i, id := range uuids {
		values[i] = id
	}

	var rows []T
	if err := s.preload(tx).Where(clause.IN{Column: clause.PrimaryColumn, Values: values}).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.entityName, err)
	}

	s.opts.logger.Debug("Read rows", zap.Int("requested", len(uuids)), zap.Int("found", len(rows)))
	return shared.NewCollection(rows...), nil
}

// Search returns one page of hydrated rows and the total match count
func (s *GormStore[E, T]) Search(ctx context.Context, criteria *shared.Criteria, tctx shared.TranslationContext) (*shared.SearchResult[T], error) {
	tx, t, err := s.filtered(ctx, criteria, tctx)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", s.entityName, err)
	}

	page, err := s.ordered(tx, t, criteria)
	if err != nil {
		return nil, err
	}

	var rows []T
	if err := s.preload(page).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", s.entityName, err)
	}

	return shared.NewSearchResult(shared.NewCollection(rows...), total), nil
}

// SearchUUIDs returns the identifiers of one page and the total match count
func (s *GormStore[E, T]) SearchUUIDs(ctx context.Context, criteria *shared.Criteria, tctx shared.TranslationContext) (*shared.UuidSearchResult, error) {
	tx, t, err := s.filtered(ctx, criteria, tctx)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", s.entityName, err)
	}

	page, err := s.ordered(tx, t, criteria)
	if err != nil {
		return nil, err
	}

	ids := []uuid.UUID{}
	if err := page.Pluck(t.schema.PrioritizedPrimaryField.DBName, &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to search %s identifiers: %w", s.entityName, err)
	}

	return &shared.UuidSearchResult{UUIDs: ids, Total: total}, nil
}

// Aggregate evaluates the aggregations of criteria over the filtered rows
// in a single query. Total is the number of matching rows.
func (s *GormStore[E, T]) Aggregate(ctx context.Context, criteria *shared.Criteria, tctx shared.TranslationContext) (*shared.AggregationResult, error) {
	if criteria == nil {
		criteria = shared.NewCriteria()
	}
	tx, t, err := s.filtered(ctx, criteria, tctx)
	if err != nil {
		return nil, err
	}

	selects := []string{"COUNT(*)"}
	for _, a := range criteria.Aggregations {
		expr, err := t.Select(tx, a)
		if err != nil {
			return nil, err
		}
		selects = append(selects, expr)
	}

	raw := make([]any, len(criteria.Aggregations))
	result := &shared.AggregationResult{Values: make(map[string]any, len(criteria.Aggregations))}
	dest := []any{&result.Total}
	for i := range raw {
		dest = append(dest, &raw[i])
	}

	rows, err := tx.Select(strings.Join(selects, ", ")).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s: %w", s.entityName, err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan %s aggregations: %w", s.entityName, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to aggregate %s: %w", s.entityName, err)
	}

	for i, a := range criteria.Aggregations {
		value, err := aggregationValue(a.Type, raw[i])
		if err != nil {
			return nil, fmt.Errorf("aggregation %q on %s: %w", a.Name, s.entityName, err)
		}
		result.Values[a.Name] = value
	}
	return result, nil
}

// aggregationValue normalizes driver values: counts become int64, sums and
// averages decimal.Decimal. Min and max keep the driver type, with byte
// slices turned into strings. A NULL sum, average, min or max stays nil.
func aggregationValue(typ shared.AggregationType, v any) (any, error) {
	if v == nil {
		if typ == shared.AggregationCount {
			return int64(0), nil
		}
		return nil, nil
	}

	switch typ {
	case shared.AggregationCount, shared.AggregationSum, shared.AggregationAvg:
		var d decimal.Decimal
		if err := d.Scan(v); err != nil {
			return nil, err
		}
		if typ == shared.AggregationCount {
			return d.IntPart(), nil
		}
		return d, nil
	default:
		if b, ok := v.([]byte); ok {
			return string(b), nil
		}
		return v, nil
	}
}

// Create inserts new rows. Associations are not written.
func (s *GormStore[E, T]) Create(ctx context.Context, data []T, tctx shared.TranslationContext) (*shared.WrittenEvent, error) {
	if len(data) == 0 {
		return shared.NewWrittenEvent(s.entityName, nil, tctx), nil
	}
	if err := validatePayload(s.opts.validate, s.entityName, data); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(data).Error; err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.entityName, err)
	}

	return s.written(data, shared.OperationInsert, tctx), nil
}

// Update overwrites existing rows. A missing row aborts the whole batch
// with a not-found error.
func (s *GormStore[E, T]) Update(ctx context.Context, data []T, tctx shared.TranslationContext) (*shared.WrittenEvent, error) {
	if len(data) == 0 {
		return shared.NewWrittenEvent(s.entityName, nil, tctx), nil
	}
	if err := validatePayload(s.opts.validate, s.entityName, data); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range data {
			res := tx.Model(item).Select("*").Omit("created_at", clause.Associations).Updates(item)
			if res.Error != nil {
				return fmt.Errorf("failed to update %s %s: %w", s.entityName, item.GetUUID(), res.Error)
			}
			if res.RowsAffected == 0 {
				return shared.WrapDomainError(shared.CodeNotFound,
					fmt.Sprintf("%s %s not found", s.entityName, item.GetUUID()), gorm.ErrRecordNotFound)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.written(data, shared.OperationUpdate, tctx), nil
}

// Upsert inserts rows or overwrites them on identifier conflict
func (s *GormStore[E, T]) Upsert(ctx context.Context, data []T, tctx shared.TranslationContext) (*shared.WrittenEvent, error) {
	if len(data) == 0 {
		return shared.NewWrittenEvent(s.entityName, nil, tctx), nil
	}
	if err := validatePayload(s.opts.validate, s.entityName, data); err != nil {
		return nil, err
	}

	sch, err := s.schema()
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: sch.PrioritizedPrimaryField.DBName}},
		UpdateAll: true,
	}).Create(data).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert %s: %w", s.entityName, err)
	}

	return s.written(data, shared.OperationUpsert, tctx), nil
}

func (s *GormStore[E, T]) written(data []T, op shared.WriteOperation, tctx shared.TranslationContext) *shared.WrittenEvent {
	records := make([]shared.ChangeRecord, 0, len(data))
	for _, item := range data {
		records = append(records, shared.ChangeRecord{UUID: item.GetUUID(), Operation: op, Payload: item})
	}
	s.opts.logger.Debug("Wrote rows", zap.String("operation", string(op)), zap.Int("count", len(records)))
	return shared.NewWrittenEvent(s.entityName, records, tctx)
}
