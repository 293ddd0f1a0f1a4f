package customer

import (
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shop"
)

// NewCustomerBasicLoadedEvent creates "customer.basic.loaded".
// Children: customer groups and default addresses.
func NewCustomerBasicLoadedEvent(customers *Collection, ctx shared.TranslationContext) *shared.LoadedEvent[*Customer] {
	return shared.NewBasicLoadedEvent(EntityCustomer, customers, ctx, customerChildren)
}

func customerChildren(customers *Collection, ctx shared.TranslationContext) shared.NestedEventCollection {
	events := shared.AppendLoaded(nil, Groups(customers), ctx, shop.NewCustomerGroupBasicLoadedEvent)
	return shared.AppendLoaded(events, DefaultAddresses(customers), ctx, NewAddressBasicLoadedEvent)
}

// NewAddressBasicLoadedEvent creates "customer_address.basic.loaded"; countries are its children
func NewAddressBasicLoadedEvent(addresses *AddressCollection, ctx shared.TranslationContext) *shared.LoadedEvent[*Address] {
	return shared.NewBasicLoadedEvent(EntityCustomerAddress, addresses, ctx, addressChildren)
}

func addressChildren(addresses *AddressCollection, ctx shared.TranslationContext) shared.NestedEventCollection {
	return shared.AppendLoaded(nil, Countries(addresses), ctx, shop.NewCountryBasicLoadedEvent)
}
