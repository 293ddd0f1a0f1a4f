// Package storefront assembles priced, media-enriched product views for a
// shop context on top of the entity repositories.
package storefront

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/pricing"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ProductRepository is the part of the product repository the storefront reads through
type ProductRepository interface {
	ReadBasic(ctx context.Context, uuids []uuid.UUID, tctx shared.TranslationContext) (*catalog.ProductCollection, error)
	SearchUUIDs(ctx context.Context, criteria *shared.Criteria, tctx shared.TranslationContext) (*shared.UuidSearchResult, error)
}

// ProductMediaRepository is the part of the product media repository the storefront searches
type ProductMediaRepository interface {
	Search(ctx context.Context, criteria *shared.Criteria, tctx shared.TranslationContext) (*shared.SearchResult[*catalog.ProductMedia], error)
}

// Qualified fields used by the media fetch
const (
	fieldProductMediaProductUUID = catalog.EntityProductMedia + ".product_uuid"
	fieldProductMediaIsCover     = catalog.EntityProductMedia + ".is_cover"
	fieldProductMediaPosition    = catalog.EntityProductMedia + ".position"
	entityStorefrontProduct      = "storefront_product"
)

// StorefrontProductRepository builds StorefrontProducts: it reads products,
// fetches their media in one batch, selects the customer group's prices and
// runs every selected price through the price calculator.
type StorefrontProductRepository struct {
	products   ProductRepository
	media      ProductMediaRepository
	calculator pricing.Calculator
	logger     *zap.Logger
}

// NewStorefrontProductRepository creates a storefront product repository
func NewStorefrontProductRepository(
	products ProductRepository,
	media ProductMediaRepository,
	calculator pricing.Calculator,
	logger *zap.Logger,
) *StorefrontProductRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorefrontProductRepository{
		products:   products,
		media:      media,
		calculator: calculator,
		logger:     logger,
	}
}

// Read returns the priced products for uuids in input order. Unknown
// identifiers are omitted. A product without tax or without a standard
// price for either customer group fails the whole read with a PricingError.
func (r *StorefrontProductRepository) Read(ctx context.Context, uuids []uuid.UUID, sctx shared.ShopContext) (*StorefrontProductCollection, error) {
	if len(uuids) == 0 {
		return shared.NewCollection[*StorefrontProduct](), nil
	}

	tctx := sctx.TranslationContext()
	ctx, span := telemetry.StartEntitySpan(ctx, entityStorefrontProduct, "read",
		telemetry.WithInputCount(len(uuids)),
		telemetry.WithTranslationContext(tctx),
	)
	defer span.End()

	products, err := r.products.ReadBasic(ctx, uuids, tctx)
	if err != nil {
		return nil, telemetry.Fail(span, err)
	}

	media, err := r.fetchMedia(ctx, uuids, tctx)
	if err != nil {
		return nil, telemetry.Fail(span, err)
	}

	result := shared.NewCollection[*StorefrontProduct]()
	for base := range products.SortedBy(uuids).All() {
		product, err := r.build(base, media, sctx)
		if err != nil {
			return nil, telemetry.Fail(span, err)
		}
		result.Add(product)
	}

	r.logger.Debug("storefront products read",
		zap.Int("requested", len(uuids)),
		zap.Int("found", result.Count()),
		zap.Int("media", media.Count()),
	)
	telemetry.SetAttributes(span, telemetry.SpanAttrResultCount, result.Count())
	return result, nil
}

// Search resolves identifiers through the product searcher and hydrates
// them with Read. Total is the identifier search total.
func (r *StorefrontProductRepository) Search(ctx context.Context, criteria *shared.Criteria, sctx shared.ShopContext) (*StorefrontProductSearchResult, error) {
	ctx, span := telemetry.StartEntitySpan(ctx, entityStorefrontProduct, "search",
		telemetry.WithTranslationContext(sctx.TranslationContext()),
	)
	defer span.End()

	ids, err := r.products.SearchUUIDs(ctx, criteria, sctx.TranslationContext())
	if err != nil {
		return nil, telemetry.Fail(span, err)
	}

	products, err := r.Read(ctx, ids.UUIDs, sctx)
	if err != nil {
		return nil, telemetry.Fail(span, err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrTotal, ids.Total)
	return shared.NewSearchResult(products, ids.Total), nil
}

// fetchMedia loads the media of all products in one search
func (r *StorefrontProductRepository) fetchMedia(ctx context.Context, uuids []uuid.UUID, tctx shared.TranslationContext) (*catalog.ProductMediaCollection, error) {
	criteria := shared.NewCriteria().
		AddFilter(shared.TermsFilter(fieldProductMediaProductUUID, uuids)).
		AddSorting(fieldProductMediaIsCover, shared.Descending).
		AddSorting(fieldProductMediaPosition, shared.Ascending)

	result, err := r.media.Search(ctx, criteria, tctx)
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(result.Elements())
	slices.SortStableFunc(sorted, catalog.CompareProductMedia)
	return shared.NewCollection(sorted...), nil
}

func (r *StorefrontProductRepository) build(base *catalog.Product, media *catalog.ProductMediaCollection, sctx shared.ShopContext) (*StorefrontProduct, error) {
	if base.Tax == nil {
		return nil, shared.NewPricingError(fmt.Sprintf("product %s has no tax rate", base.UUID), nil)
	}
	rules := pricing.TaxRuleCollection{pricing.NewFullTaxRule(base.Tax.Rate)}

	product := &StorefrontProduct{Product: *base}

	prices := FilterCustomerPrices(base.PriceCollection(), sctx)
	if prices.IsEmpty() {
		return nil, shared.NewPricingError(fmt.Sprintf("product %s has no price for the current or fallback customer group", base.UUID), nil)
	}
	calculatedPrices, calculated, err := calculatePrices(r.calculator, rules, prices, sctx)
	if err != nil {
		return nil, err
	}
	product.Prices = calculatedPrices
	product.CalculatedPrices = calculated

	listingPrices := FilterCustomerPrices(base.ListingPriceCollection(), sctx)
	calculatedListing, calculated, err := calculatePrices(r.calculator, rules, listingPrices, sctx)
	if err != nil {
		return nil, err
	}
	product.ListingPrices = calculatedListing
	product.CalculatedListingPrices = calculated

	product.Media = catalog.FilterByProductUUID(media, base.UUID).Elements()
	return product, nil
}

// FilterCustomerPrices returns the rows of the current customer group when
// there are any, otherwise the rows of the fallback customer group. The two
// sets are never merged.
func FilterCustomerPrices[T catalog.CustomerGroupPrice[T]](prices *shared.Collection[T], sctx shared.ShopContext) *shared.Collection[T] {
	current := catalog.FilterByCustomerGroupUUID(prices, sctx.CurrentCustomerGroup().UUID)
	if current.Count() > 0 {
		return current
	}
	return catalog.FilterByCustomerGroupUUID(prices, sctx.FallbackCustomerGroup().UUID)
}

// calculatePrices runs each row through the calculator and returns copies of
// the rows carrying the calculated total, plus the calculated prices
func calculatePrices[T catalog.CustomerGroupPrice[T]](
	calculator pricing.Calculator,
	rules pricing.TaxRuleCollection,
	prices *shared.Collection[T],
	sctx shared.ShopContext,
) ([]T, []pricing.CalculatedPrice, error) {
	rows := make([]T, 0, prices.Count())
	calculated := make([]pricing.CalculatedPrice, 0, prices.Count())
	for price := range prices.All() {
		result, err := calculator.Calculate(pricing.NewPriceDefinition(price.GetPrice(), rules), sctx)
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, price.WithPrice(result.TotalPrice))
		calculated = append(calculated, result)
	}
	return rows, calculated, nil
}
