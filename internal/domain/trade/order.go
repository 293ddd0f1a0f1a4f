package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/customer"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shop"
	"github.com/shopspring/decimal"
)

// Entity names
const (
	EntityOrder         = "order"
	EntityOrderState    = "order_state"
	EntityOrderLineItem = "order_line_item"
)

// Order is a placed storefront order
type Order struct {
	shared.BaseEntity
	OrderNumber  string             `gorm:"column:order_number;type:varchar(50);not null;uniqueIndex" json:"orderNumber" validate:"required,max=50"`
	OrderDate    time.Time          `gorm:"column:order_date;not null" json:"orderDate" validate:"required"`
	CustomerUUID uuid.UUID          `gorm:"column:customer_uuid;type:uuid;not null;index" json:"customerUuid" validate:"required"`
	Customer     *customer.Customer `gorm:"foreignKey:CustomerUUID;references:UUID" json:"customer,omitempty" validate:"-"`
	StateUUID    uuid.UUID          `gorm:"column:state_uuid;type:uuid;not null" json:"stateUuid" validate:"required"`
	State        *OrderState        `gorm:"foreignKey:StateUUID;references:UUID" json:"state,omitempty" validate:"-"`
	ShopUUID     uuid.UUID          `gorm:"column:shop_uuid;type:uuid;not null" json:"shopUuid" validate:"required"`
	Shop         *shop.Shop         `gorm:"foreignKey:ShopUUID;references:UUID" json:"shop,omitempty" validate:"-"`
	AmountTotal  decimal.Decimal    `gorm:"column:amount_total;type:decimal(18,4);not null" json:"amountTotal"`
	AmountNet    decimal.Decimal    `gorm:"column:amount_net;type:decimal(18,4);not null" json:"amountNet"`
	LineItems    []*OrderLineItem   `gorm:"foreignKey:OrderUUID;references:UUID" json:"lineItems,omitempty" validate:"-"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "order"
}

// OrderCollection is a collection of orders
type OrderCollection = shared.Collection[*Order]

// Customers returns the loaded customers of the orders
func Customers(orders *OrderCollection) *customer.Collection {
	return shared.Pluck(orders, func(o *Order) (*customer.Customer, bool) {
		return o.Customer, o.Customer != nil
	})
}

// States returns the loaded states of the orders
func States(orders *OrderCollection) *OrderStateCollection {
	return shared.Pluck(orders, func(o *Order) (*OrderState, bool) {
		return o.State, o.State != nil
	})
}

// Shops returns the loaded shops of the orders
func Shops(orders *OrderCollection) *shop.ShopCollection {
	return shared.Pluck(orders, func(o *Order) (*shop.Shop, bool) {
		return o.Shop, o.Shop != nil
	})
}

// LineItems returns the loaded line items of all orders
func LineItems(orders *OrderCollection) *OrderLineItemCollection {
	return shared.PluckMany(orders, func(o *Order) []*OrderLineItem { return o.LineItems })
}

// OrderState is a state of the order workflow (open, in process, completed)
type OrderState struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	Description string `gorm:"type:varchar(255)" json:"description"`
	Position    int    `gorm:"not null;default:0" json:"position"`
	HasMail     bool   `gorm:"column:has_mail;not null;default:false" json:"hasMail"`
}

// TableName returns the table name for GORM
func (OrderState) TableName() string {
	return "order_state"
}

// OrderStateCollection is a collection of order states
type OrderStateCollection = shared.Collection[*OrderState]

// OrderLineItem is a position of an order
type OrderLineItem struct {
	shared.BaseEntity
	OrderUUID  uuid.UUID       `gorm:"column:order_uuid;type:uuid;not null;index" json:"orderUuid" validate:"required"`
	Identifier string          `gorm:"type:varchar(255);not null" json:"identifier" validate:"required"`
	Quantity   int             `gorm:"not null" json:"quantity" validate:"gte=1"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:decimal(18,4);not null" json:"unitPrice"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:decimal(18,4);not null" json:"totalPrice"`
}

// TableName returns the table name for GORM
func (OrderLineItem) TableName() string {
	return "order_line_item"
}

// OrderLineItemCollection is a collection of line items
type OrderLineItemCollection = shared.Collection[*OrderLineItem]

// FilterByOrderUUID returns the line items of one order
func FilterByOrderUUID(items *OrderLineItemCollection, orderUUID uuid.UUID) *OrderLineItemCollection {
	return items.Filter(func(i *OrderLineItem) bool { return i.OrderUUID == orderUUID })
}
