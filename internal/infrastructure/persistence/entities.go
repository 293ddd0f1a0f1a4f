package persistence

import (
	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/customer"
	"github.com/shopcore/backend/internal/domain/seo"
	"github.com/shopcore/backend/internal/domain/shop"
	"github.com/shopcore/backend/internal/domain/trade"
	"gorm.io/gorm"
)

type (
	ProductStore         = GormStore[catalog.Product, *catalog.Product]
	ProductMediaStore    = GormStore[catalog.ProductMedia, *catalog.ProductMedia]
	MediaStore           = GormStore[catalog.Media, *catalog.Media]
	TaxStore             = GormStore[catalog.Tax, *catalog.Tax]
	UnitStore            = GormStore[catalog.Unit, *catalog.Unit]
	UnitTranslationStore = GormStore[catalog.UnitTranslation, *catalog.UnitTranslation]
	OrderStore           = GormStore[trade.Order, *trade.Order]
	OrderStateStore      = GormStore[trade.OrderState, *trade.OrderState]
	CustomerStore        = GormStore[customer.Customer, *customer.Customer]
	SeoUrlStore          = GormStore[seo.SeoUrl, *seo.SeoUrl]
	ShopStore            = GormStore[shop.Shop, *shop.Shop]
	CurrencyStore        = GormStore[shop.Currency, *shop.Currency]
	CustomerGroupStore   = GormStore[shop.CustomerGroup, *shop.CustomerGroup]
)

func with(base []StoreOption, opts []StoreOption) []StoreOption {
	return append(base, opts...)
}

// NewProductStore loads products with tax, unit, prices and media
func NewProductStore(db *gorm.DB, opts ...StoreOption) *ProductStore {
	return NewGormStore[catalog.Product](db, catalog.EntityProduct, with([]StoreOption{
		WithPreloads("Tax", "Unit.Translations.Language", "Prices", "ListingPrices", "Media.Media"),
	}, opts)...)
}

// NewProductMediaStore loads product media with their media file
func NewProductMediaStore(db *gorm.DB, opts ...StoreOption) *ProductMediaStore {
	return NewGormStore[catalog.ProductMedia](db, catalog.EntityProductMedia, with([]StoreOption{
		WithPreloads("Media"),
	}, opts)...)
}

func NewMediaStore(db *gorm.DB, opts ...StoreOption) *MediaStore {
	return NewGormStore[catalog.Media](db, catalog.EntityMedia, opts...)
}

func NewTaxStore(db *gorm.DB, opts ...StoreOption) *TaxStore {
	return NewGormStore[catalog.Tax](db, catalog.EntityTax, opts...)
}

// NewUnitStore loads units with all their translations and languages
func NewUnitStore(db *gorm.DB, opts ...StoreOption) *UnitStore {
	return NewGormStore[catalog.Unit](db, catalog.EntityUnit, with([]StoreOption{
		WithPreloads("Translations.Language"),
	}, opts)...)
}

func NewUnitTranslationStore(db *gorm.DB, opts ...StoreOption) *UnitTranslationStore {
	return NewGormStore[catalog.UnitTranslation](db, catalog.EntityUnitTranslation, opts...)
}

// NewUnitTranslationDetailStore loads unit translations with their unit and
// language shop
func NewUnitTranslationDetailStore(db *gorm.DB, opts ...StoreOption) *UnitTranslationStore {
	return NewGormStore[catalog.UnitTranslation](db, catalog.EntityUnitTranslation, with([]StoreOption{
		WithPreloads("Unit", "Language"),
	}, opts)...)
}

// NewOrderStore loads orders with customer, state, shop and line items.
// Searches are limited to the shop of the translation context.
func NewOrderStore(db *gorm.DB, opts ...StoreOption) *OrderStore {
	return NewGormStore[trade.Order](db, trade.EntityOrder, with([]StoreOption{
		WithPreloads(
			"Customer.Group",
			"Customer.DefaultAddress.Country",
			"State",
			"Shop.Currency",
			"LineItems",
		),
		WithShopScope("shop_uuid"),
	}, opts)...)
}

func NewOrderStateStore(db *gorm.DB, opts ...StoreOption) *OrderStateStore {
	return NewGormStore[trade.OrderState](db, trade.EntityOrderState, opts...)
}

// NewCustomerStore loads customers with group and default address
func NewCustomerStore(db *gorm.DB, opts ...StoreOption) *CustomerStore {
	return NewGormStore[customer.Customer](db, customer.EntityCustomer, with([]StoreOption{
		WithPreloads("Group", "DefaultAddress.Country"),
	}, opts)...)
}

// NewSeoUrlStore limits searches to the shop of the translation context
func NewSeoUrlStore(db *gorm.DB, opts ...StoreOption) *SeoUrlStore {
	return NewGormStore[seo.SeoUrl](db, seo.EntitySeoUrl, with([]StoreOption{
		WithShopScope("shop_uuid"),
	}, opts)...)
}

func NewShopStore(db *gorm.DB, opts ...StoreOption) *ShopStore {
	return NewGormStore[shop.Shop](db, shop.EntityShop, with([]StoreOption{
		WithPreloads("Currency"),
	}, opts)...)
}

func NewCurrencyStore(db *gorm.DB, opts ...StoreOption) *CurrencyStore {
	return NewGormStore[shop.Currency](db, shop.EntityCurrency, opts...)
}

func NewCustomerGroupStore(db *gorm.DB, opts ...StoreOption) *CustomerGroupStore {
	return NewGormStore[shop.CustomerGroup](db, shop.EntityCustomerGroup, opts...)
}
