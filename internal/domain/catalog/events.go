package catalog

import (
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shop"
)

// NewProductBasicLoadedEvent creates "product.basic.loaded".
// Children: taxes, units, price rows, listing price rows and media assignments.
func NewProductBasicLoadedEvent(products *ProductCollection, ctx shared.TranslationContext) *shared.LoadedEvent[*Product] {
	return shared.NewBasicLoadedEvent(EntityProduct, products, ctx, productChildren)
}

func productChildren(products *ProductCollection, ctx shared.TranslationContext) shared.NestedEventCollection {
	var events shared.NestedEventCollection
	events = shared.AppendLoaded(events, Taxes(products), ctx, NewTaxBasicLoadedEvent)
	events = shared.AppendLoaded(events, Units(products), ctx, NewUnitBasicLoadedEvent)
	events = shared.AppendLoaded(events, Prices(products), ctx, NewProductPriceBasicLoadedEvent)
	events = shared.AppendLoaded(events, ListingPrices(products), ctx, NewProductListingPriceBasicLoadedEvent)
	events = shared.AppendLoaded(events, ProductMedias(products), ctx, NewProductMediaBasicLoadedEvent)
	return events
}

// NewTaxBasicLoadedEvent creates "tax.basic.loaded"
func NewTaxBasicLoadedEvent(taxes *TaxCollection, ctx shared.TranslationContext) *shared.LoadedEvent[*Tax] {
	return shared.NewBasicLoadedEvent(EntityTax, taxes, ctx, nil)
}

// NewProductPriceBasicLoadedEvent creates "product_price.basic.loaded"
func NewProductPriceBasicLoadedEvent(prices *ProductPriceCollection, ctx shared.TranslationContext) *shared.LoadedEvent[*ProductPrice] {
	return shared.NewBasicLoadedEvent(EntityProductPrice, prices, ctx, nil)
}

// NewProductListingPriceBasicLoadedEvent creates "product_listing_price.basic.loaded"
func NewProductListingPriceBasicLoadedEvent(prices *ProductListingPriceCollection, ctx shared.TranslationContext) *shared.LoadedEvent[*ProductListingPrice] {
	return shared.NewBasicLoadedEvent(EntityProductListingPrice, prices, ctx, nil)
}

// NewProductMediaBasicLoadedEvent creates "product_media.basic.loaded"; media files are its children
func NewProductMediaBasicLoadedEvent(media *ProductMediaCollection, ctx shared.TranslationContext) *shared.LoadedEvent[*ProductMedia] {
	return shared.NewBasicLoadedEvent(EntityProductMedia, media, ctx, productMediaChildren)
}

func productMediaChildren(media *ProductMediaCollection, ctx shared.TranslationContext) shared.NestedEventCollection {
	return shared.AppendLoaded(nil, MediaFiles(media), ctx, NewMediaBasicLoadedEvent)
}

// NewMediaBasicLoadedEvent creates "media.basic.loaded"
func NewMediaBasicLoadedEvent(media *MediaCollection, ctx shared.TranslationContext) *shared.LoadedEvent[*Media] {
	return shared.NewBasicLoadedEvent(EntityMedia, media, ctx, nil)
}

// NewUnitBasicLoadedEvent creates "unit.basic.loaded"; translations are its children
func NewUnitBasicLoadedEvent(units *UnitCollection, ctx shared.TranslationContext) *shared.LoadedEvent[*Unit] {
	return shared.NewBasicLoadedEvent(EntityUnit, units, ctx, unitChildren)
}

func unitChildren(units *UnitCollection, ctx shared.TranslationContext) shared.NestedEventCollection {
	return shared.AppendLoaded(nil, Translations(units), ctx, NewUnitTranslationBasicLoadedEvent)
}

// NewUnitTranslationBasicLoadedEvent creates "unit_translation.basic.loaded"
func NewUnitTranslationBasicLoadedEvent(translations *UnitTranslationCollection, ctx shared.TranslationContext) *shared.LoadedEvent[*UnitTranslation] {
	return shared.NewBasicLoadedEvent(EntityUnitTranslation, translations, ctx, nil)
}

// NewUnitTranslationDetailLoadedEvent creates "unit_translation.detail.loaded".
// Children: the translated units and the language shops. The child collection
// is always non-nil.
func NewUnitTranslationDetailLoadedEvent(translations *UnitTranslationCollection, ctx shared.TranslationContext) *shared.LoadedEvent[*UnitTranslation] {
	return shared.NewDetailLoadedEvent(EntityUnitTranslation, translations, ctx, unitTranslationDetailChildren)
}

func unitTranslationDetailChildren(translations *UnitTranslationCollection, ctx shared.TranslationContext) shared.NestedEventCollection {
	events := shared.NestedEventCollection{}
	events = shared.AppendLoaded(events, TranslatedUnits(translations), ctx, NewUnitBasicLoadedEvent)
	events = shared.AppendLoaded(events, Languages(translations), ctx, shop.NewShopBasicLoadedEvent)
	return events
}
