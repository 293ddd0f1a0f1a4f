package storefront

import (
	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/pricing"
	"github.com/shopcore/backend/internal/domain/shared"
)

// StorefrontProduct is a product prepared for display in one shop context.
// Prices and ListingPrices hold only the rows of the effective customer
// group, each carrying its calculated total. Media is sorted cover first.
type StorefrontProduct struct {
	catalog.Product
	CalculatedPrices        []pricing.CalculatedPrice `json:"calculatedPrices"`
	CalculatedListingPrices []pricing.CalculatedPrice `json:"calculatedListingPrices"`
}

// Cover returns the cover media assignment, or the first media if none is
// flagged as cover
func (p *StorefrontProduct) Cover() *catalog.ProductMedia {
	for _, m := range p.Media {
		if m.IsCover {
			return m
		}
	}
	if len(p.Media) > 0 {
		return p.Media[0]
	}
	return nil
}

// CheapestPrice returns the lowest calculated standard price
func (p *StorefrontProduct) CheapestPrice() (pricing.CalculatedPrice, bool) {
	if len(p.CalculatedPrices) == 0 {
		return pricing.CalculatedPrice{}, false
	}
	cheapest := p.CalculatedPrices[0]
	for _, price := range p.CalculatedPrices[1:] {
		if price.UnitPrice.LessThan(cheapest.UnitPrice) {
			cheapest = price
		}
	}
	return cheapest, true
}

// StorefrontProductCollection is a collection of storefront products
type StorefrontProductCollection = shared.Collection[*StorefrontProduct]

// StorefrontProductSearchResult is a page of storefront products and the
// total number of matching products
type StorefrontProductSearchResult = shared.SearchResult[*StorefrontProduct]
