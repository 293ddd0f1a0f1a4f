package repository

import (
	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/customer"
	"github.com/shopcore/backend/internal/domain/seo"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shop"
	"github.com/shopcore/backend/internal/domain/trade"
	"go.uber.org/zap"
)

type (
	ProductRepository         = EntityRepository[*catalog.Product]
	ProductMediaRepository    = EntityRepository[*catalog.ProductMedia]
	MediaRepository           = EntityRepository[*catalog.Media]
	TaxRepository             = EntityRepository[*catalog.Tax]
	UnitRepository            = EntityRepository[*catalog.Unit]
	UnitTranslationRepository = EntityRepository[*catalog.UnitTranslation]
	OrderRepository           = EntityRepository[*trade.Order]
	OrderStateRepository      = EntityRepository[*trade.OrderState]
	CustomerRepository        = EntityRepository[*customer.Customer]
	SeoUrlRepository          = EntityRepository[*seo.SeoUrl]
	ShopRepository            = EntityRepository[*shop.Shop]
	CurrencyRepository        = EntityRepository[*shop.Currency]
	CustomerGroupRepository   = EntityRepository[*shop.CustomerGroup]
)

func newStoreRepository[T shared.Entity](
	entityName string,
	event LoadedEventFactory[T],
	store Store[T],
	dispatcher shared.EventDispatcher,
	logger *zap.Logger,
) *EntityRepository[T] {
	return NewEntityRepository(Definition[T]{
		EntityName: entityName,
		BasicEvent: event,
		Reader:     store,
		Searcher:   store,
		Writer:     store,
	}, dispatcher, logger)
}

// NewProductRepository creates the product repository
func NewProductRepository(store Store[*catalog.Product], dispatcher shared.EventDispatcher, logger *zap.Logger) *ProductRepository {
	return newStoreRepository(catalog.EntityProduct, catalog.NewProductBasicLoadedEvent, store, dispatcher, logger)
}

// NewProductMediaRepository creates the product media repository
func NewProductMediaRepository(store Store[*catalog.ProductMedia], dispatcher shared.EventDispatcher, logger *zap.Logger) *ProductMediaRepository {
	return newStoreRepository(catalog.EntityProductMedia, catalog.NewProductMediaBasicLoadedEvent, store, dispatcher, logger)
}

// NewMediaRepository creates the media repository
func NewMediaRepository(store Store[*catalog.Media], dispatcher shared.EventDispatcher, logger *zap.Logger) *MediaRepository {
	return newStoreRepository(catalog.EntityMedia, catalog.NewMediaBasicLoadedEvent, store, dispatcher, logger)
}

// NewTaxRepository creates the tax repository
func NewTaxRepository(store Store[*catalog.Tax], dispatcher shared.EventDispatcher, logger *zap.Logger) *TaxRepository {
	return newStoreRepository(catalog.EntityTax, catalog.NewTaxBasicLoadedEvent, store, dispatcher, logger)
}

// NewUnitRepository creates the unit repository
func NewUnitRepository(store Store[*catalog.Unit], dispatcher shared.EventDispatcher, logger *zap.Logger) *UnitRepository {
	return newStoreRepository(catalog.EntityUnit, catalog.NewUnitBasicLoadedEvent, store, dispatcher, logger)
}

// NewUnitTranslationRepository creates the unit translation repository.
// detailReader loads translations together with their unit and language;
// ReadDetail dispatches "unit_translation.detail.loaded" for its result.
func NewUnitTranslationRepository(
	store Store[*catalog.UnitTranslation],
	detailReader shared.Reader[*catalog.UnitTranslation],
	dispatcher shared.EventDispatcher,
	logger *zap.Logger,
) *UnitTranslationRepository {
	return NewEntityRepository(Definition[*catalog.UnitTranslation]{
		EntityName:   catalog.EntityUnitTranslation,
		BasicEvent:   catalog.NewUnitTranslationBasicLoadedEvent,
		DetailEvent:  catalog.NewUnitTranslationDetailLoadedEvent,
		Reader:       store,
		DetailReader: detailReader,
		Searcher:     store,
		Writer:       store,
	}, dispatcher, logger)
}

// NewOrderRepository creates the order repository
func NewOrderRepository(store Store[*trade.Order], dispatcher shared.EventDispatcher, logger *zap.Logger) *OrderRepository {
	return newStoreRepository(trade.EntityOrder, trade.NewOrderBasicLoadedEvent, store, dispatcher, logger)
}

// NewOrderStateRepository creates the order state repository
func NewOrderStateRepository(store Store[*trade.OrderState], dispatcher shared.EventDispatcher, logger *zap.Logger) *OrderStateRepository {
	return newStoreRepository(trade.EntityOrderState, trade.NewOrderStateBasicLoadedEvent, store, dispatcher, logger)
}

// NewCustomerRepository creates the customer repository
func NewCustomerRepository(store Store[*customer.Customer], dispatcher shared.EventDispatcher, logger *zap.Logger) *CustomerRepository {
	return newStoreRepository(customer.EntityCustomer, customer.NewCustomerBasicLoadedEvent, store, dispatcher, logger)
}

// NewSeoUrlRepository creates the SEO URL repository
func NewSeoUrlRepository(store Store[*seo.SeoUrl], dispatcher shared.EventDispatcher, logger *zap.Logger) *SeoUrlRepository {
	return newStoreRepository(seo.EntitySeoUrl, seo.NewSeoUrlBasicLoadedEvent, store, dispatcher, logger)
}

// NewShopRepository creates the shop repository
func NewShopRepository(store Store[*shop.Shop], dispatcher shared.EventDispatcher, logger *zap.Logger) *ShopRepository {
	return newStoreRepository(shop.EntityShop, shop.NewShopBasicLoadedEvent, store, dispatcher, logger)
}

// NewCurrencyRepository creates the currency repository
func NewCurrencyRepository(store Store[*shop.Currency], dispatcher shared.EventDispatcher, logger *zap.Logger) *CurrencyRepository {
	return newStoreRepository(shop.EntityCurrency, shop.NewCurrencyBasicLoadedEvent, store, dispatcher, logger)
}

// NewCustomerGroupRepository creates the customer group repository
func NewCustomerGroupRepository(store Store[*shop.CustomerGroup], dispatcher shared.EventDispatcher, logger *zap.Logger) *CustomerGroupRepository {
	return newStoreRepository(shop.EntityCustomerGroup, shop.NewCustomerGroupBasicLoadedEvent, store, dispatcher, logger)
}
