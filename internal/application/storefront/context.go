package storefront

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shop"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// ShopReader reads shops with their currency
type ShopReader interface {
	ReadBasic(ctx context.Context, uuids []uuid.UUID, tctx shared.TranslationContext) (*shop.ShopCollection, error)
}

// CustomerGroupReader reads customer groups
type CustomerGroupReader interface {
	ReadBasic(ctx context.Context, uuids []uuid.UUID, tctx shared.TranslationContext) (*shop.CustomerGroupCollection, error)
}

// ContextDefaults are used when a shop does not define a value itself
type ContextDefaults struct {
	Locale                    language.Tag
	FallbackLocale            language.Tag
	FallbackCustomerGroupUUID uuid.UUID
	CurrencyPrecision         int32
}

// ContextFactory builds shop contexts from stored shops and customer groups
type ContextFactory struct {
	shops    ShopReader
	groups   CustomerGroupReader
	defaults ContextDefaults
}

// NewContextFactory creates a context factory
func NewContextFactory(shops ShopReader, groups CustomerGroupReader, defaults ContextDefaults) *ContextFactory {
	return &ContextFactory{shops: shops, groups: groups, defaults: defaults}
}

// Create builds the context of shopUUID for a customer of customerGroupUUID.
// uuid.Nil selects the shop's default customer group; the fallback group is
// the configured one, or the shop's default group when none is configured.
func (f *ContextFactory) Create(ctx context.Context, shopUUID, customerGroupUUID uuid.UUID) (shared.ShopContext, error) {
	lookup := shared.NewTranslationContext(shopUUID, false, f.defaults.Locale)

	shops, err := f.shops.ReadBasic(ctx, []uuid.UUID{shopUUID}, lookup)
	if err != nil {
		return shared.ShopContext{}, err
	}
	s, ok := shops.Get(shopUUID)
	if !ok {
		return shared.ShopContext{}, shared.WrapDomainError(shared.CodeNotFound, fmt.Sprintf("shop %s not found", shopUUID), nil)
	}

	locale := f.defaults.Locale
	if tag, err := language.Parse(s.Locale); err == nil {
		locale = tag
	}
	tctx := shared.NewTranslationContext(s.UUID, s.IsDefault, locale).WithFallback(uuid.Nil, f.defaults.FallbackLocale)

	currentUUID := customerGroupUUID
	if currentUUID == uuid.Nil {
		currentUUID = s.CustomerGroupUUID
	}
	fallbackUUID := f.defaults.FallbackCustomerGroupUUID
	if fallbackUUID == uuid.Nil {
		fallbackUUID = s.CustomerGroupUUID
	}

	groups, err := f.groups.ReadBasic(ctx, []uuid.UUID{currentUUID, fallbackUUID}, tctx)
	if err != nil {
		return shared.ShopContext{}, err
	}
	current, ok := groups.Get(currentUUID)
	if !ok {
		return shared.ShopContext{}, shared.WrapDomainError(shared.CodeNotFound, fmt.Sprintf("customer group %s not found", currentUUID), nil)
	}
	fallback, ok := groups.Get(fallbackUUID)
	if !ok {
		return shared.ShopContext{}, shared.WrapDomainError(shared.CodeNotFound, fmt.Sprintf("fallback customer group %s not found", fallbackUUID), nil)
	}

	return shared.NewShopContext(tctx, f.currency(s), current.Ref(), fallback.Ref())
}

func (f *ContextFactory) currency(s *shop.Shop) shared.CurrencyRef {
	if s.Currency == nil {
		return shared.CurrencyRef{
			UUID:      s.CurrencyUUID,
			Factor:    decimal.NewFromInt(1),
			Precision: f.defaults.CurrencyPrecision,
		}
	}
	return shared.CurrencyRef{
		UUID:      s.Currency.UUID,
		ISOCode:   s.Currency.ISOCode,
		Factor:    s.Currency.Factor,
		Precision: s.Currency.Decimals,
	}
}
