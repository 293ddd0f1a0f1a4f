package trade

import (
	"github.com/shopcore/backend/internal/domain/customer"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shop"
)

// NewOrderBasicLoadedEvent creates "order.basic.loaded".
// Children: customers, states, shops and line items.
func NewOrderBasicLoadedEvent(orders *OrderCollection, ctx shared.TranslationContext) *shared.LoadedEvent[*Order] {
	return shared.NewBasicLoadedEvent(EntityOrder, orders, ctx, orderChildren)
}

func orderChildren(orders *OrderCollection, ctx shared.TranslationContext) shared.NestedEventCollection {
	var events shared.NestedEventCollection
	events = shared.AppendLoaded(events, Customers(orders), ctx, customer.NewCustomerBasicLoadedEvent)
	events = shared.AppendLoaded(events, States(orders), ctx, NewOrderStateBasicLoadedEvent)
	events = shared.AppendLoaded(events, Shops(orders), ctx, shop.NewShopBasicLoadedEvent)
	events = shared.AppendLoaded(events, LineItems(orders), ctx, NewOrderLineItemBasicLoadedEvent)
	return events
}

// NewOrderStateBasicLoadedEvent creates "order_state.basic.loaded"
func NewOrderStateBasicLoadedEvent(states *OrderStateCollection, ctx shared.TranslationContext) *shared.LoadedEvent[*OrderState] {
	return shared.NewBasicLoadedEvent(EntityOrderState, states, ctx, nil)
}

// NewOrderLineItemBasicLoadedEvent creates "order_line_item.basic.loaded"
func NewOrderLineItemBasicLoadedEvent(items *OrderLineItemCollection, ctx shared.TranslationContext) *shared.LoadedEvent[*OrderLineItem] {
	return shared.NewBasicLoadedEvent(EntityOrderLineItem, items, ctx, nil)
}
