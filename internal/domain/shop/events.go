package shop

import "github.com/shopcore/backend/internal/domain/shared"

// NewShopBasicLoadedEvent creates "shop.basic.loaded"; currencies are its children
func NewShopBasicLoadedEvent(shops *ShopCollection, ctx shared.TranslationContext) *shared.LoadedEvent[*Shop] {
	return shared.NewBasicLoadedEvent(EntityShop, shops, ctx, shopChildren)
}

func shopChildren(shops *ShopCollection, ctx shared.TranslationContext) shared.NestedEventCollection {
	return shared.AppendLoaded(nil, Currencies(shops), ctx, NewCurrencyBasicLoadedEvent)
}

// NewCurrencyBasicLoadedEvent creates "currency.basic.loaded"
func NewCurrencyBasicLoadedEvent(currencies *CurrencyCollection, ctx shared.TranslationContext) *shared.LoadedEvent[*Currency] {
	return shared.NewBasicLoadedEvent(EntityCurrency, currencies, ctx, nil)
}

// NewCustomerGroupBasicLoadedEvent creates "customer_group.basic.loaded"
func NewCustomerGroupBasicLoadedEvent(groups *CustomerGroupCollection, ctx shared.TranslationContext) *shared.LoadedEvent[*CustomerGroup] {
	return shared.NewBasicLoadedEvent(EntityCustomerGroup, groups, ctx, nil)
}

// NewCountryBasicLoadedEvent creates "country.basic.loaded"
func NewCountryBasicLoadedEvent(countries *CountryCollection, ctx shared.TranslationContext) *shared.LoadedEvent[*Country] {
	return shared.NewBasicLoadedEvent(EntityCountry, countries, ctx, nil)
}
