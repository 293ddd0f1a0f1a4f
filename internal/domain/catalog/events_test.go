package catalog

import (
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func testContext() shared.TranslationContext {
	return shared.NewTranslationContext(uuid.New(), true, language.German)
}

func newProduct(tax *Tax) *Product {
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       "Shirt",
		Active:     true,
		TaxUUID:    tax.UUID,
		Tax:        tax,
	}
}

func newPrice(productUUID, groupUUID uuid.UUID, price string) *ProductPrice {
	return &ProductPrice{
		BaseEntity: shared.NewBaseEntity(),
		PriceRow: PriceRow{
			ProductUUID:       productUUID,
			CustomerGroupUUID: groupUUID,
			QuantityStart:     1,
			Price:             decimal.RequireFromString(price),
		},
	}
}

func TestNewProductBasicLoadedEvent(t *testing.T) {
	ctx := testContext()
	tax := &Tax{BaseEntity: shared.NewBaseEntity(), Name: "19%", Rate: decimal.NewFromInt(19)}

	t.Run("no associations yields no children", func(t *testing.T) {
		p := &Product{BaseEntity: shared.NewBaseEntity(), Name: "Bare"}
		event := NewProductBasicLoadedEvent(shared.NewCollection(p), ctx)

		assert.Equal(t, "product.basic.loaded", event.Name())
		assert.Empty(t, event.Events())
	})

	t.Run("one child per non-empty association type", func(t *testing.T) {
		p1 := newProduct(tax)
		p2 := newProduct(tax)
		p1.Prices = []*ProductPrice{newPrice(p1.UUID, uuid.New(), "10")}
		p2.Prices = []*ProductPrice{newPrice(p2.UUID, uuid.New(), "12")}
		media := &Media{BaseEntity: shared.NewBaseEntity(), FileName: "a.jpg", StorageKey: "media/a.jpg"}
		p1.Media = []*ProductMedia{{BaseEntity: shared.NewBaseEntity(), ProductUUID: p1.UUID, MediaUUID: media.UUID, Media: media}}

		event := NewProductBasicLoadedEvent(shared.NewCollection(p1, p2), ctx)
		children := event.Events()

		require.Equal(t, []string{
			"tax.basic.loaded",
			"product_price.basic.loaded",
			"product_media.basic.loaded",
		}, children.Names())

		taxEvent := children[0].(*shared.LoadedEvent[*Tax])
		assert.Equal(t, 1, taxEvent.Collection().Count(), "shared tax is deduplicated")

		priceEvent := children[1].(*shared.LoadedEvent[*ProductPrice])
		assert.Equal(t, 2, priceEvent.Collection().Count())

		assert.Equal(t, []string{"media.basic.loaded"}, children[2].Events().Names())
	})
}

func TestUnitEvents(t *testing.T) {
	ctx := testContext()
	lang := &shop.Shop{BaseEntity: shared.NewBaseEntity(), Name: "Deutsch", Locale: "de-DE"}
	unit := &Unit{BaseEntity: shared.NewBaseEntity(), ShortCode: "pcs", Name: "Pieces"}
	translation := &UnitTranslation{
		BaseEntity:   shared.NewBaseEntity(),
		UnitUUID:     unit.UUID,
		LanguageUUID: lang.UUID,
		ShortCode:    "Stk",
		Name:         "Stück",
	}

	t.Run("basic translation event has nil children", func(t *testing.T) {
		event := NewUnitTranslationBasicLoadedEvent(shared.NewCollection(translation), ctx)
		assert.Nil(t, event.Events())
	})

	t.Run("detail event without associations returns empty non-nil collection", func(t *testing.T) {
		event := NewUnitTranslationDetailLoadedEvent(shared.NewCollection(translation), ctx)
		children := event.Events()
		assert.NotNil(t, children)
		assert.Empty(t, children)
	})

	t.Run("detail event lists units and languages", func(t *testing.T) {
		detailed := *translation
		detailed.Unit = unit
		detailed.Language = lang

		event := NewUnitTranslationDetailLoadedEvent(shared.NewCollection(&detailed), ctx)

		assert.Equal(t, "unit_translation.detail.loaded", event.Name())
		assert.Equal(t, []string{"unit.basic.loaded", "shop.basic.loaded"}, event.Events().Names())
	})

	t.Run("unit event lists translations", func(t *testing.T) {
		withTranslations := *unit
		withTranslations.Translations = []*UnitTranslation{translation}

		event := NewUnitBasicLoadedEvent(shared.NewCollection(&withTranslations), ctx)

		assert.Equal(t, []string{"unit_translation.basic.loaded"}, event.Events().Names())
	})
}

func TestFilterByCustomerGroupUUID(t *testing.T) {
	productUUID := uuid.New()
	groupA, groupB := uuid.New(), uuid.New()
	prices := shared.NewCollection(
		newPrice(productUUID, groupA, "10"),
		newPrice(productUUID, groupB, "9"),
		newPrice(productUUID, groupA, "8"),
	)

	filtered := FilterByCustomerGroupUUID(prices, groupA)

	assert.Equal(t, 2, filtered.Count())
	assert.Equal(t, 3, prices.Count())
	assert.Equal(t, 0, FilterByCustomerGroupUUID(prices, uuid.New()).Count())
}

func TestProductPrice_WithPrice(t *testing.T) {
	original := newPrice(uuid.New(), uuid.New(), "10")

	changed := original.WithPrice(decimal.RequireFromString("11.90"))

	assert.Equal(t, "10", original.Price.String())
	assert.Equal(t, "11.9", changed.Price.String())
	assert.Equal(t, original.UUID, changed.UUID)
}

func TestCompareProductMedia(t *testing.T) {
	productUUID := uuid.New()
	a := &ProductMedia{BaseEntity: shared.NewBaseEntity(), ProductUUID: productUUID, IsCover: false, Position: 2}
	b := &ProductMedia{BaseEntity: shared.NewBaseEntity(), ProductUUID: productUUID, IsCover: true, Position: 1}
	c := &ProductMedia{BaseEntity: shared.NewBaseEntity(), ProductUUID: productUUID, IsCover: false, Position: 1}

	items := []*ProductMedia{a, b, c}
	slices.SortStableFunc(items, CompareProductMedia)

	assert.Equal(t, []*ProductMedia{b, c, a}, items)
}

func TestFilterByProductUUID(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	media := shared.NewCollection(
		&ProductMedia{BaseEntity: shared.NewBaseEntity(), ProductUUID: p1},
		&ProductMedia{BaseEntity: shared.NewBaseEntity(), ProductUUID: p2},
		&ProductMedia{BaseEntity: shared.NewBaseEntity(), ProductUUID: p1},
	)

	assert.Equal(t, 2, FilterByProductUUID(media, p1).Count())
	assert.Equal(t, 1, FilterByProductUUID(media, p2).Count())
}
