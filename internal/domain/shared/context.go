package shared

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// TranslationContext carries the tenant (shop) and locale through every read and write.
// It is immutable; the With* methods return modified copies.
type TranslationContext struct {
	shopUUID         uuid.UUID
	fallbackShopUUID uuid.UUID
	isDefaultShop    bool
	locale           language.Tag
	fallbackLocale   language.Tag
}

// NewTranslationContext creates a translation context for a shop and locale
func NewTranslationContext(shopUUID uuid.UUID, isDefaultShop bool, locale language.Tag) TranslationContext {
	return TranslationContext{
		shopUUID:       shopUUID,
		isDefaultShop:  isDefaultShop,
		locale:         locale,
		fallbackLocale: language.Und,
	}
}

// WithFallback returns a copy with a fallback shop and locale used when
// no translation exists for the primary locale
func (c TranslationContext) WithFallback(shopUUID uuid.UUID, locale language.Tag) TranslationContext {
	c.fallbackShopUUID = shopUUID
	c.fallbackLocale = locale
	return c
}

// ShopUUID returns the tenant identifier
func (c TranslationContext) ShopUUID() uuid.UUID { return c.shopUUID }

// FallbackShopUUID returns the fallback tenant identifier, uuid.Nil if none
func (c TranslationContext) FallbackShopUUID() uuid.UUID { return c.fallbackShopUUID }

// IsDefaultShop reports whether the context targets the default shop
func (c TranslationContext) IsDefaultShop() bool { return c.isDefaultShop }

// Locale returns the requested locale
func (c TranslationContext) Locale() language.Tag { return c.locale }

// FallbackLocale returns the fallback locale, language.Und if none
func (c TranslationContext) FallbackLocale() language.Tag { return c.fallbackLocale }

// CustomerGroupRef identifies a customer group inside a ShopContext
type CustomerGroupRef struct {
	UUID         uuid.UUID
	DisplayGross bool
}

// CurrencyRef identifies the currency prices are calculated in
type CurrencyRef struct {
	UUID      uuid.UUID
	ISOCode   string
	Factor    decimal.Decimal
	Precision int32
}

// ShopContext is the request-scoped storefront context: tenant, currency and
// customer groups. It is read-only inside the core.
type ShopContext struct {
	translation           TranslationContext
	currency              CurrencyRef
	currentCustomerGroup  CustomerGroupRef
	fallbackCustomerGroup CustomerGroupRef
}

// NewShopContext creates a shop context; both customer groups are required
func NewShopContext(
	translation TranslationContext,
	currency CurrencyRef,
	current, fallback CustomerGroupRef,
) (ShopContext, error) {
	if translation.ShopUUID() == uuid.Nil {
		return ShopContext{}, NewDomainError(CodeInvalidContext, "shop context requires a shop")
	}
	if current.UUID == uuid.Nil || fallback.UUID == uuid.Nil {
		return ShopContext{}, NewDomainError(CodeInvalidContext, "shop context requires current and fallback customer groups")
	}
	if currency.Factor.IsZero() {
		currency.Factor = decimal.NewFromInt(1)
	}
	if currency.Precision <= 0 {
		currency.Precision = 2
	}
	return ShopContext{
		translation:           translation,
		currency:              currency,
		currentCustomerGroup:  current,
		fallbackCustomerGroup: fallback,
	}, nil
}

// TranslationContext returns the embedded translation context
func (c ShopContext) TranslationContext() TranslationContext { return c.translation }

// Currency returns the active currency
func (c ShopContext) Currency() CurrencyRef { return c.currency }

// CurrentCustomerGroup returns the customer group of the current customer
func (c ShopContext) CurrentCustomerGroup() CustomerGroupRef { return c.currentCustomerGroup }

// FallbackCustomerGroup returns the shop's fallback customer group
func (c ShopContext) FallbackCustomerGroup() CustomerGroupRef { return c.fallbackCustomerGroup }
