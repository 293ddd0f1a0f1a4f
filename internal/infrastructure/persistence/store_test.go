package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/seo"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupStoreTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   gormlogger.Discard,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	// every pooled connection would open its own in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&shop.Currency{},
		&shop.Shop{},
		&catalog.Tax{},
		&catalog.Unit{},
		&catalog.UnitTranslation{},
		&catalog.Media{},
		&catalog.Product{},
		&catalog.ProductPrice{},
		&catalog.ProductListingPrice{},
		&catalog.ProductMedia{},
		&seo.SeoUrl{},
	)
	require.NoError(t, err)
	return db
}

func newTax(name string, rate int64) *catalog.Tax {
	return &catalog.Tax{BaseEntity: shared.NewBaseEntity(), Name: name, Rate: decimal.NewFromInt(rate)}
}

func testTranslationContext() shared.TranslationContext {
	return shared.NewTranslationContext(uuid.New(), true, language.BritishEnglish)
}

func TestGormStore_CreateAndReadBasic(t *testing.T) {
	db := setupStoreTestDB(t)
	store := NewTaxStore(db)
	ctx := context.Background()
	tctx := testTranslationContext()

	standard := newTax("Standard", 19)
	reduced := newTax("Reduced", 7)

	written, err := store.Create(ctx, []*catalog.Tax{standard, reduced}, tctx)
	require.NoError(t, err)
	assert.Equal(t, "tax.written", written.Name())
	assert.Equal(t, []uuid.UUID{standard.UUID, reduced.UUID}, written.UUIDs())
	assert.Equal(t, shared.OperationInsert, written.Records()[0].Operation)

	t.Run("reads back the written rows", func(t *testing.T) {
		taxes, err := store.ReadBasic(ctx, []uuid.UUID{standard.UUID, reduced.UUID}, tctx)
		require.NoError(t, err)
		require.Equal(t, 2, taxes.Count())

		got, ok := taxes.Get(standard.UUID)
		require.True(t, ok)
		assert.Equal(t, "Standard", got.Name)
		assert.True(t, decimal.NewFromInt(19).Equal(got.Rate))
	})

	t.Run("omits unknown identifiers", func(t *testing.T) {
		taxes, err := store.ReadBasic(ctx, []uuid.UUID{reduced.UUID, uuid.New()}, tctx)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{reduced.UUID}, taxes.UUIDs())
	})

	t.Run("empty input reads nothing", func(t *testing.T) {
		taxes, err := store.ReadBasic(ctx, nil, tctx)
		require.NoError(t, err)
		assert.True(t, taxes.IsEmpty())
	})
}

func TestGormStore_ReadBasicPreloadsAssociations(t *testing.T) {
	db := setupStoreTestDB(t)
	ctx := context.Background()
	tctx := testTranslationContext()

	tax := newTax("Standard", 19)
	_, err := NewTaxStore(db).Create(ctx, []*catalog.Tax{tax}, tctx)
	require.NoError(t, err)

	product := &catalog.Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       "Espresso Cup",
		Active:     true,
		TaxUUID:    tax.UUID,
	}
	store := NewProductStore(db)
	_, err = store.Create(ctx, []*catalog.Product{product}, tctx)
	require.NoError(t, err)

	price := &catalog.ProductPrice{
		BaseEntity: shared.NewBaseEntity(),
		PriceRow: catalog.PriceRow{
			ProductUUID:       product.UUID,
			CustomerGroupUUID: uuid.New(),
			QuantityStart:     1,
			Price:             decimal.NewFromInt(10),
		},
	}
	require.NoError(t, db.Create(price).Error)

	products, err := store.ReadBasic(ctx, []uuid.UUID{product.UUID}, tctx)
	require.NoError(t, err)

	got, ok := products.Get(product.UUID)
	require.True(t, ok)
	require.NotNil(t, got.Tax)
	assert.Equal(t, tax.UUID, got.Tax.UUID)
	require.Len(t, got.Prices, 1)
	assert.Equal(t, price.UUID, got.Prices[0].UUID)
	assert.Nil(t, got.Unit)
	assert.Empty(t, got.Media)
}

func TestGormStore_CreateDoesNotWriteAssociations(t *testing.T) {
	db := setupStoreTestDB(t)
	ctx := context.Background()

	tax := newTax("Standard", 19)
	product := &catalog.Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       "Teapot",
		TaxUUID:    tax.UUID,
		Tax:        tax,
	}
	_, err := NewProductStore(db).Create(ctx, []*catalog.Product{product}, testTranslationContext())
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&catalog.Tax{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGormStore_Validation(t *testing.T) {
	db := setupStoreTestDB(t)
	store := NewTaxStore(db)
	ctx := context.Background()
	tctx := testTranslationContext()

	tests := []struct {
		name string
		tax  *catalog.Tax
	}{
		{"missing name", &catalog.Tax{BaseEntity: shared.NewBaseEntity(), Rate: decimal.NewFromInt(19)}},
		{"missing uuid", &catalog.Tax{Name: "Standard", Rate: decimal.NewFromInt(19)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Create(ctx, []*catalog.Tax{tt.tax}, tctx)
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrValidation)

			_, err = store.Upsert(ctx, []*catalog.Tax{tt.tax}, tctx)
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}

	t.Run("message names the json field", func(t *testing.T) {
		_, err := store.Create(ctx, []*catalog.Tax{tests[0].tax}, tctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name: is required")
	})

	t.Run("nothing was written", func(t *testing.T) {
		var count int64
		require.NoError(t, db.Model(&catalog.Tax{}).Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestGormStore_Update(t *testing.T) {
	db := setupStoreTestDB(t)
	store := NewTaxStore(db)
	ctx := context.Background()
	tctx := testTranslationContext()

	tax := newTax("Standard", 19)
	_, err := store.Create(ctx, []*catalog.Tax{tax}, tctx)
	require.NoError(t, err)

	t.Run("overwrites an existing row", func(t *testing.T) {
		changed := *tax
		changed.Name = "Standard rate"
		changed.Rate = decimal.NewFromInt(20)

		written, err := store.Update(ctx, []*catalog.Tax{&changed}, tctx)
		require.NoError(t, err)
		assert.Equal(t, shared.OperationUpdate, written.Records()[0].Operation)

		taxes, err := store.ReadBasic(ctx, []uuid.UUID{tax.UUID}, tctx)
		require.NoError(t, err)
		got, _ := taxes.Get(tax.UUID)
		assert.Equal(t, "Standard rate", got.Name)
		assert.True(t, decimal.NewFromInt(20).Equal(got.Rate))
	})

	t.Run("missing row is not found", func(t *testing.T) {
		_, err := store.Update(ctx, []*catalog.Tax{newTax("Ghost", 1)}, tctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("a missing row rolls back the batch", func(t *testing.T) {
		changed := *tax
		changed.Name = "Rolled back"

		_, err := store.Update(ctx, []*catalog.Tax{&changed, newTax("Ghost", 1)}, tctx)
		require.Error(t, err)

		taxes, err := store.ReadBasic(ctx, []uuid.UUID{tax.UUID}, tctx)
		require.NoError(t, err)
		got, _ := taxes.Get(tax.UUID)
		assert.Equal(t, "Standard rate", got.Name)
	})
}

func TestGormStore_Upsert(t *testing.T) {
	db := setupStoreTestDB(t)
	store := NewTaxStore(db)
	ctx := context.Background()
	tctx := testTranslationContext()

	existing := newTax("Standard", 19)
	_, err := store.Create(ctx, []*catalog.Tax{existing}, tctx)
	require.NoError(t, err)

	changed := *existing
	changed.Name = "Standard rate"
	fresh := newTax("Zero", 0)

	written, err := store.Upsert(ctx, []*catalog.Tax{&changed, fresh}, tctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{existing.UUID, fresh.UUID}, written.UUIDs())
	assert.Equal(t, shared.OperationUpsert, written.Records()[1].Operation)

	taxes, err := store.ReadBasic(ctx, []uuid.UUID{existing.UUID, fresh.UUID}, tctx)
	require.NoError(t, err)
	assert.Equal(t, 2, taxes.Count())

	got, _ := taxes.Get(existing.UUID)
	assert.Equal(t, "Standard rate", got.Name)
}

func TestGormStore_EmptyWrites(t *testing.T) {
	db := setupStoreTestDB(t)
	store := NewTaxStore(db)
	tctx := testTranslationContext()

	for name, write := range map[string]func(context.Context, []*catalog.Tax, shared.TranslationContext) (*shared.WrittenEvent, error){
		"create": store.Create,
		"update": store.Update,
		"upsert": store.Upsert,
	} {
		t.Run(name, func(t *testing.T) {
			written, err := write(context.Background(), nil, tctx)
			require.NoError(t, err)
			assert.Equal(t, "tax.written", written.Name())
			assert.Empty(t, written.Records())
		})
	}
}

func seedTaxes(t *testing.T, store *TaxStore) []*catalog.Tax {
	t.Helper()
	taxes := []*catalog.Tax{newTax("Reduced", 7), newTax("Standard", 19), newTax("Reduced Food", 7), newTax("Zero", 0)}
	_, err := store.Create(context.Background(), taxes, testTranslationContext())
	require.NoError(t, err)
	return taxes
}

func TestGormStore_Search(t *testing.T) {
	db := setupStoreTestDB(t)
	store := NewTaxStore(db)
	ctx := context.Background()
	tctx := testTranslationContext()
	taxes := seedTaxes(t, store)

	t.Run("pages sorted rows and reports the full total", func(t *testing.T) {
		criteria := shared.NewCriteria().
			AddSorting("tax.name", shared.Descending).
			SetPage(1, 2)

		result, err := store.Search(ctx, criteria, tctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), result.Total)
		assert.Equal(t, []uuid.UUID{taxes[1].UUID, taxes[2].UUID}, result.UUIDs())
	})

	t.Run("term filter", func(t *testing.T) {
		criteria := shared.NewCriteria().AddFilter(shared.TermFilter("tax.rate", 7))

		result, err := store.SearchUUIDs(ctx, criteria, tctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Total)
		assert.ElementsMatch(t, []uuid.UUID{taxes[0].UUID, taxes[2].UUID}, result.UUIDs)
	})

	t.Run("terms filter", func(t *testing.T) {
		criteria := shared.NewCriteria().
			AddFilter(shared.TermsFilter("tax.uuid", []uuid.UUID{taxes[1].UUID, taxes[3].UUID})).
			AddSorting("tax.name", shared.Ascending)

		result, err := store.SearchUUIDs(ctx, criteria, tctx)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{taxes[1].UUID, taxes[3].UUID}, result.UUIDs)
	})

	t.Run("range filter with open bound", func(t *testing.T) {
		criteria := shared.NewCriteria().AddFilter(shared.RangeFilter("tax.rate", 5, nil))

		result, err := store.SearchUUIDs(ctx, criteria, tctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.Total)
	})

	t.Run("prefix filter", func(t *testing.T) {
		criteria := shared.NewCriteria().
			AddFilter(shared.PrefixFilter("tax.name", "Reduced")).
			AddSorting("name", "")

		result, err := store.Search(ctx, criteria, tctx)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{taxes[0].UUID, taxes[2].UUID}, result.UUIDs())
	})

	t.Run("no match", func(t *testing.T) {
		criteria := shared.NewCriteria().AddFilter(shared.TermFilter("tax.name", "Luxury"))

		result, err := store.SearchUUIDs(ctx, criteria, tctx)
		require.NoError(t, err)
		assert.Zero(t, result.Total)
		assert.Empty(t, result.UUIDs)
	})
}

func TestGormStore_SearchProductMediaCoverFirst(t *testing.T) {
	db := setupStoreTestDB(t)
	store := NewProductMediaStore(db)
	ctx := context.Background()
	tctx := testTranslationContext()
	productUUID := uuid.New()

	assignment := func(cover bool, position int) *catalog.ProductMedia {
		return &catalog.ProductMedia{
			BaseEntity:  shared.NewBaseEntity(),
			ProductUUID: productUUID,
			MediaUUID:   uuid.New(),
			IsCover:     cover,
			Position:    position,
		}
	}
	a := assignment(false, 2)
	b := assignment(true, 1)
	c := assignment(false, 1)
	_, err := store.Create(ctx, []*catalog.ProductMedia{a, b, c}, tctx)
	require.NoError(t, err)

	criteria := shared.NewCriteria().
		AddFilter(shared.TermsFilter("product_media.product_uuid", []uuid.UUID{productUUID})).
		AddSorting("product_media.is_cover", shared.Descending).
		AddSorting("product_media.position", shared.Ascending)

	result, err := store.Search(ctx, criteria, tctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b.UUID, c.UUID, a.UUID}, result.UUIDs())
}

func TestGormStore_ShopScope(t *testing.T) {
	db := setupStoreTestDB(t)
	store := NewSeoUrlStore(db)
	ctx := context.Background()

	shopA := testTranslationContext()
	shopB := testTranslationContext()

	newURL := func(shopUUID uuid.UUID, path string) *seo.SeoUrl {
		return &seo.SeoUrl{
			BaseEntity:  shared.NewBaseEntity(),
			ShopUUID:    shopUUID,
			Name:        "frontend.detail.page",
			ForeignKey:  uuid.New(),
			PathInfo:    "/detail/" + path,
			SeoPathInfo: path,
		}
	}
	_, err := store.Create(ctx, []*seo.SeoUrl{
		newURL(shopA.ShopUUID(), "cup"),
		newURL(shopA.ShopUUID(), "pot"),
		newURL(shopB.ShopUUID(), "cup"),
	}, shopA)
	require.NoError(t, err)

	result, err := store.SearchUUIDs(ctx, shared.NewCriteria(), shopA)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)

	result, err = store.SearchUUIDs(ctx, shared.NewCriteria().AddFilter(shared.TermFilter("seo_url.seo_path_info", "cup")), shopB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
}

func TestGormStore_Aggregate(t *testing.T) {
	db := setupStoreTestDB(t)
	store := NewTaxStore(db)
	seedTaxes(t, store)

	criteria := shared.NewCriteria().
		AddFilter(shared.RangeFilter("tax.rate", 1, nil)).
		AddAggregation(shared.Aggregation{Name: "taxes", Type: shared.AggregationCount}).
		AddAggregation(shared.Aggregation{Name: "rate_sum", Type: shared.AggregationSum, Field: "tax.rate"}).
		AddAggregation(shared.Aggregation{Name: "rate_avg", Type: shared.AggregationAvg, Field: "tax.rate"}).
		AddAggregation(shared.Aggregation{Name: "rate_max", Type: shared.AggregationMax, Field: "tax.rate"}).
		AddAggregation(shared.Aggregation{Name: "first_name", Type: shared.AggregationMin, Field: "tax.name"})

	result, err := store.Aggregate(context.Background(), criteria, testTranslationContext())
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)

	count, ok := result.Get("taxes")
	require.True(t, ok)
	assert.Equal(t, int64(3), count)

	sum, _ := result.Get("rate_sum")
	assert.True(t, decimal.NewFromInt(33).Equal(sum.(decimal.Decimal)))

	avg, _ := result.Get("rate_avg")
	assert.True(t, decimal.NewFromInt(11).Equal(avg.(decimal.Decimal)))

	maxRate, _ := result.Get("rate_max")
	assert.EqualValues(t, 19, maxRate)

	firstName, _ := result.Get("first_name")
	assert.Equal(t, "Reduced", firstName)
}

func TestGormStore_InvalidCriteria(t *testing.T) {
	db := setupStoreTestDB(t)
	store := NewTaxStore(db)
	ctx := context.Background()
	tctx := testTranslationContext()

	tests := []struct {
		name     string
		criteria *shared.Criteria
	}{
		{"unknown field", shared.NewCriteria().AddFilter(shared.TermFilter("tax.color", "red"))},
		{"field of another entity", shared.NewCriteria().AddFilter(shared.TermFilter("product.name", "cup"))},
		{"injection attempt", shared.NewCriteria().AddSorting("name; DROP TABLE tax", shared.Ascending)},
		{"bad sort direction", shared.NewCriteria().AddSorting("tax.name", "SIDEWAYS")},
		{"negative offset", shared.NewCriteria().SetPage(-1, 10)},
		{"unbounded range", shared.NewCriteria().AddFilter(shared.RangeFilter("tax.rate", nil, nil))},
		{"prefix on non string", shared.NewCriteria().AddFilter(shared.PrefixFilter("tax.name", "x")).AddFilter(shared.Filter{Type: shared.FilterPrefix, Field: "tax.name", Value: 7})},
		{"unknown filter type", shared.NewCriteria().AddFilter(shared.Filter{Type: "fuzzy", Field: "tax.name"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Search(ctx, tt.criteria, tctx)
			assert.ErrorIs(t, err, shared.ErrInvalidCriteria)

			_, err = store.SearchUUIDs(ctx, tt.criteria, tctx)
			assert.ErrorIs(t, err, shared.ErrInvalidCriteria)
		})
	}

	t.Run("unknown aggregation", func(t *testing.T) {
		criteria := shared.NewCriteria().AddAggregation(shared.Aggregation{Name: "x", Type: "median", Field: "tax.rate"})
		_, err := store.Aggregate(ctx, criteria, tctx)
		assert.ErrorIs(t, err, shared.ErrInvalidCriteria)
	})

	t.Run("unnamed aggregation", func(t *testing.T) {
		criteria := shared.NewCriteria().AddAggregation(shared.Aggregation{Type: shared.AggregationSum, Field: "tax.rate"})
		_, err := store.Aggregate(ctx, criteria, tctx)
		assert.ErrorIs(t, err, shared.ErrInvalidCriteria)
	})
}
