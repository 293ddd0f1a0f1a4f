package storefront

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/pricing"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/text/language"
)

type stubProducts struct {
	rows     *catalog.ProductCollection
	searched *shared.UuidSearchResult
	err      error
}

func (s *stubProducts) ReadBasic(_ context.Context, uuids []uuid.UUID, _ shared.TranslationContext) (*catalog.ProductCollection, error) {
	if s.err != nil {
		return nil, s.err
	}
	// reverse storage order so the repository has to restore input order
	result := shared.NewCollection[*catalog.Product]()
	for i := len(uuids) - 1; i >= 0; i-- {
		if p, ok := s.rows.Get(uuids[i]); ok {
			result.Add(p)
		}
	}
	return result, nil
}

func (s *stubProducts) SearchUUIDs(_ context.Context, _ *shared.Criteria, _ shared.TranslationContext) (*shared.UuidSearchResult, error) {
	return s.searched, s.err
}

type stubMedia struct {
	rows     []*catalog.ProductMedia
	criteria *shared.Criteria
	calls    int
}

func (s *stubMedia) Search(_ context.Context, criteria *shared.Criteria, _ shared.TranslationContext) (*shared.SearchResult[*catalog.ProductMedia], error) {
	s.calls++
	s.criteria = criteria
	return shared.NewSearchResult(shared.NewCollection(s.rows...), int64(len(s.rows))), nil
}

type rejectingCalculator struct{}

func (rejectingCalculator) Calculate(pricing.PriceDefinition, shared.ShopContext) (pricing.CalculatedPrice, error) {
	return pricing.CalculatedPrice{}, shared.NewPricingError("rejected", nil)
}

type fixture struct {
	current  uuid.UUID
	fallback uuid.UUID
	tax      *catalog.Tax
	sctx     shared.ShopContext
}

func newFixture(t *testing.T, displayGross bool) fixture {
	t.Helper()
	f := fixture{
		current:  uuid.New(),
		fallback: uuid.New(),
		tax:      &catalog.Tax{BaseEntity: shared.NewBaseEntity(), Name: "Standard", Rate: decimal.NewFromInt(19)},
	}
	sctx, err := shared.NewShopContext(
		shared.NewTranslationContext(uuid.New(), true, language.German),
		shared.CurrencyRef{UUID: uuid.New(), ISOCode: "EUR", Factor: decimal.NewFromInt(1), Precision: 2},
		shared.CustomerGroupRef{UUID: f.current, DisplayGross: displayGross},
		shared.CustomerGroupRef{UUID: f.fallback, DisplayGross: true},
	)
	require.NoError(t, err)
	f.sctx = sctx
	return f
}

func price(productUUID, group uuid.UUID, amount string) *catalog.ProductPrice {
	return &catalog.ProductPrice{
		BaseEntity: shared.NewBaseEntity(),
		PriceRow: catalog.PriceRow{
			ProductUUID:       productUUID,
			CustomerGroupUUID: group,
			QuantityStart:     1,
			Price:             decimal.RequireFromString(amount),
		},
	}
}

func listingPrice(productUUID, group uuid.UUID, amount string) *catalog.ProductListingPrice {
	return &catalog.ProductListingPrice{
		BaseEntity: shared.NewBaseEntity(),
		PriceRow: catalog.PriceRow{
			ProductUUID:       productUUID,
			CustomerGroupUUID: group,
			QuantityStart:     1,
			Price:             decimal.RequireFromString(amount),
		},
	}
}

func (f fixture) product(name string) *catalog.Product {
	p := &catalog.Product{BaseEntity: shared.NewBaseEntity(), Name: name, Active: true, TaxUUID: f.tax.UUID, Tax: f.tax}
	return p
}

func productMedia(productUUID uuid.UUID, cover bool, position int) *catalog.ProductMedia {
	return &catalog.ProductMedia{
		BaseEntity:  shared.NewBaseEntity(),
		ProductUUID: productUUID,
		MediaUUID:   uuid.New(),
		IsCover:     cover,
		Position:    position,
	}
}

func TestStorefrontProductRepository_Read(t *testing.T) {
	f := newFixture(t, true)

	shirt := f.product("Shirt")
	shirt.Prices = []*catalog.ProductPrice{price(shirt.UUID, f.current, "10"), price(shirt.UUID, f.fallback, "20")}
	shirt.ListingPrices = []*catalog.ProductListingPrice{listingPrice(shirt.UUID, f.fallback, "25")}

	shoe := f.product("Shoe")
	shoe.Prices = []*catalog.ProductPrice{price(shoe.UUID, f.fallback, "50")}

	a := productMedia(shirt.UUID, false, 2)
	b := productMedia(shirt.UUID, true, 1)
	c := productMedia(shirt.UUID, false, 1)
	other := productMedia(shoe.UUID, true, 0)

	products := &stubProducts{rows: shared.NewCollection(shirt, shoe)}
	media := &stubMedia{rows: []*catalog.ProductMedia{a, other, b, c}}
	repo := NewStorefrontProductRepository(products, media, pricing.NewPriceCalculator(), zaptest.NewLogger(t))

	missing := uuid.New()
	result, err := repo.Read(context.Background(), []uuid.UUID{shirt.UUID, missing, shoe.UUID}, f.sctx)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{shirt.UUID, shoe.UUID}, result.UUIDs())
	assert.Equal(t, 1, media.calls)

	gotShirt, _ := result.Get(shirt.UUID)
	require.Len(t, gotShirt.Prices, 1)
	assert.Equal(t, f.current, gotShirt.Prices[0].CustomerGroupUUID)
	assert.True(t, gotShirt.Prices[0].Price.Equal(decimal.RequireFromString("11.9")), gotShirt.Prices[0].Price.String())
	require.Len(t, gotShirt.CalculatedPrices, 1)
	assert.True(t, gotShirt.CalculatedPrices[0].TaxAmount().Equal(decimal.RequireFromString("1.9")))

	require.Len(t, gotShirt.ListingPrices, 1)
	assert.True(t, gotShirt.ListingPrices[0].Price.Equal(decimal.RequireFromString("29.75")), gotShirt.ListingPrices[0].Price.String())

	require.Len(t, gotShirt.Media, 3)
	assert.Equal(t, []uuid.UUID{b.UUID, c.UUID, a.UUID}, []uuid.UUID{gotShirt.Media[0].UUID, gotShirt.Media[1].UUID, gotShirt.Media[2].UUID})
	assert.Same(t, b, gotShirt.Cover())

	gotShoe, _ := result.Get(shoe.UUID)
	require.Len(t, gotShoe.Prices, 1)
	assert.Equal(t, f.fallback, gotShoe.Prices[0].CustomerGroupUUID)
	assert.Empty(t, gotShoe.ListingPrices)
	require.Len(t, gotShoe.Media, 1)

	// base entities keep their stored net prices
	assert.True(t, shirt.Prices[0].Price.Equal(decimal.NewFromInt(10)))
	assert.Len(t, shirt.Prices, 2)
}

func TestStorefrontProductRepository_ReadMediaCriteria(t *testing.T) {
	f := newFixture(t, false)
	p := f.product("Mug")
	p.Prices = []*catalog.ProductPrice{price(p.UUID, f.current, "5")}

	media := &stubMedia{}
	repo := NewStorefrontProductRepository(&stubProducts{rows: shared.NewCollection(p)}, media, pricing.NewPriceCalculator(), nil)

	_, err := repo.Read(context.Background(), []uuid.UUID{p.UUID}, f.sctx)
	require.NoError(t, err)

	require.NotNil(t, media.criteria)
	require.Len(t, media.criteria.Filters, 1)
	assert.Equal(t, shared.FilterTerms, media.criteria.Filters[0].Type)
	assert.Equal(t, "product_media.product_uuid", media.criteria.Filters[0].Field)
	assert.Equal(t, []any{p.UUID}, media.criteria.Filters[0].Values)
	assert.Equal(t, []shared.FieldSorting{
		{Field: "product_media.is_cover", Direction: shared.Descending},
		{Field: "product_media.position", Direction: shared.Ascending},
	}, media.criteria.Sortings)
}

func TestStorefrontProductRepository_ReadEmpty(t *testing.T) {
	f := newFixture(t, true)
	media := &stubMedia{}
	repo := NewStorefrontProductRepository(&stubProducts{}, media, pricing.NewPriceCalculator(), nil)

	result, err := repo.Read(context.Background(), nil, f.sctx)
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
	assert.Zero(t, media.calls)
}

func TestStorefrontProductRepository_PricingErrors(t *testing.T) {
	f := newFixture(t, true)

	t.Run("missing tax", func(t *testing.T) {
		p := f.product("Untaxed")
		p.Tax = nil
		p.Prices = []*catalog.ProductPrice{price(p.UUID, f.current, "1")}
		repo := NewStorefrontProductRepository(&stubProducts{rows: shared.NewCollection(p)}, &stubMedia{}, pricing.NewPriceCalculator(), nil)

		result, err := repo.Read(context.Background(), []uuid.UUID{p.UUID}, f.sctx)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, shared.ErrPricing)
	})

	t.Run("no price for either group", func(t *testing.T) {
		p := f.product("Unpriced")
		p.Prices = []*catalog.ProductPrice{price(p.UUID, uuid.New(), "1")}
		repo := NewStorefrontProductRepository(&stubProducts{rows: shared.NewCollection(p)}, &stubMedia{}, pricing.NewPriceCalculator(), nil)

		_, err := repo.Read(context.Background(), []uuid.UUID{p.UUID}, f.sctx)
		assert.ErrorIs(t, err, shared.ErrPricing)
	})

	t.Run("calculator rejects", func(t *testing.T) {
		p := f.product("Rejected")
		p.Prices = []*catalog.ProductPrice{price(p.UUID, f.current, "1")}
		repo := NewStorefrontProductRepository(&stubProducts{rows: shared.NewCollection(p)}, &stubMedia{}, rejectingCalculator{}, nil)

		_, err := repo.Read(context.Background(), []uuid.UUID{p.UUID}, f.sctx)
		assert.ErrorIs(t, err, shared.ErrPricing)
	})

	t.Run("reader error passes through", func(t *testing.T) {
		boom := errors.New("db down")
		repo := NewStorefrontProductRepository(&stubProducts{err: boom}, &stubMedia{}, pricing.NewPriceCalculator(), nil)

		_, err := repo.Read(context.Background(), []uuid.UUID{uuid.New()}, f.sctx)
		assert.Same(t, boom, err)
	})
}

func TestStorefrontProductRepository_Search(t *testing.T) {
	f := newFixture(t, true)
	p := f.product("Cap")
	p.Prices = []*catalog.ProductPrice{price(p.UUID, f.fallback, "8")}

	products := &stubProducts{
		rows:     shared.NewCollection(p),
		searched: &shared.UuidSearchResult{UUIDs: []uuid.UUID{p.UUID}, Total: 42},
	}
	repo := NewStorefrontProductRepository(products, &stubMedia{}, pricing.NewPriceCalculator(), nil)

	result, err := repo.Search(context.Background(), shared.NewCriteria().SetPage(0, 1), f.sctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.Total)
	assert.Equal(t, 1, result.Count())

	cheapest, ok := result.Elements()[0].CheapestPrice()
	require.True(t, ok)
	assert.True(t, cheapest.UnitPrice.Equal(decimal.RequireFromString("9.52")), cheapest.UnitPrice.String())
}

func TestFilterCustomerPrices(t *testing.T) {
	f := newFixture(t, true)
	productUUID := uuid.New()

	t.Run("current group wins when non-empty", func(t *testing.T) {
		prices := shared.NewCollection(
			price(productUUID, f.current, "1"),
			price(productUUID, f.fallback, "2"),
			price(productUUID, f.current, "3"),
		)
		got := FilterCustomerPrices(prices, f.sctx)
		assert.Equal(t, 2, got.Count())
		for p := range got.All() {
			assert.Equal(t, f.current, p.CustomerGroupUUID)
		}
	})

	t.Run("falls back when current group has no rows", func(t *testing.T) {
		fallbackRow := price(productUUID, f.fallback, "2")
		got := FilterCustomerPrices(shared.NewCollection(fallbackRow), f.sctx)
		assert.Equal(t, []uuid.UUID{fallbackRow.UUID}, got.UUIDs())
	})

	t.Run("listing prices use the same policy", func(t *testing.T) {
		got := FilterCustomerPrices(shared.NewCollection(listingPrice(productUUID, uuid.New(), "2")), f.sctx)
		assert.True(t, got.IsEmpty())
	})
}
