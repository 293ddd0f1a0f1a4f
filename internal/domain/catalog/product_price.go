package catalog

import (
	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PriceRow holds the columns shared by the standard and listing price tables.
// Prices are stored net.
type PriceRow struct {
	ProductUUID       uuid.UUID       `gorm:"column:product_uuid;type:uuid;not null;index" json:"productUuid" validate:"required"`
	CustomerGroupUUID uuid.UUID       `gorm:"column:customer_group_uuid;type:uuid;not null;index" json:"customerGroupUuid" validate:"required"`
	QuantityStart     int             `gorm:"not null;default:1" json:"quantityStart" validate:"gte=1"`
	QuantityEnd       *int            `json:"quantityEnd,omitempty"`
	Price             decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price"`
}

// GetCustomerGroupUUID returns the customer group the row applies to
func (r *PriceRow) GetCustomerGroupUUID() uuid.UUID { return r.CustomerGroupUUID }

// GetProductUUID returns the product the row belongs to
func (r *PriceRow) GetProductUUID() uuid.UUID { return r.ProductUUID }

// GetPrice returns the stored price
func (r *PriceRow) GetPrice() decimal.Decimal { return r.Price }

// CustomerGroupPrice is implemented by both price row types
type CustomerGroupPrice[T any] interface {
	shared.Entity
	GetCustomerGroupUUID() uuid.UUID
	GetProductUUID() uuid.UUID
	GetPrice() decimal.Decimal
	// WithPrice returns a copy of the row carrying a different price
	WithPrice(price decimal.Decimal) T
}

// FilterByCustomerGroupUUID returns the rows of one customer group
func FilterByCustomerGroupUUID[T CustomerGroupPrice[T]](prices *shared.Collection[T], customerGroupUUID uuid.UUID) *shared.Collection[T] {
	return prices.Filter(func(p T) bool { return p.GetCustomerGroupUUID() == customerGroupUUID })
}

// ProductPrice is a standard price row
type ProductPrice struct {
	shared.BaseEntity
	PriceRow
}

// TableName returns the table name for GORM
func (ProductPrice) TableName() string {
	return "product_price"
}

// WithPrice returns a copy with a different price
func (p *ProductPrice) WithPrice(price decimal.Decimal) *ProductPrice {
	clone := *p
	clone.Price = price
	return &clone
}

// ProductPriceCollection is a collection of standard price rows
type ProductPriceCollection = shared.Collection[*ProductPrice]

// ProductListingPrice is the price row shown in product listings
type ProductListingPrice struct {
	shared.BaseEntity
	PriceRow
}

// TableName returns the table name for GORM
func (ProductListingPrice) TableName() string {
	return "product_listing_price"
}

// WithPrice returns a copy with a different price
func (p *ProductListingPrice) WithPrice(price decimal.Decimal) *ProductListingPrice {
	clone := *p
	clone.Price = price
	return &clone
}

// ProductListingPriceCollection is a collection of listing price rows
type ProductListingPriceCollection = shared.Collection[*ProductListingPrice]
