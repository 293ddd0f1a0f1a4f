package catalog

import (
	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Entity names
const (
	EntityProduct             = "product"
	EntityProductPrice        = "product_price"
	EntityProductListingPrice = "product_listing_price"
	EntityProductMedia        = "product_media"
	EntityMedia               = "media"
	EntityTax                 = "tax"
	EntityUnit                = "unit"
	EntityUnitTranslation     = "unit_translation"
)

// Product is a sellable article with its price rows and media
type Product struct {
	shared.BaseEntity
	Name          string                 `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Description   string                 `gorm:"type:text" json:"description"`
	Active        bool                   `gorm:"not null;default:true" json:"active"`
	TaxUUID       uuid.UUID              `gorm:"column:tax_uuid;type:uuid;not null" json:"taxUuid" validate:"required"`
	Tax           *Tax                   `gorm:"foreignKey:TaxUUID;references:UUID" json:"tax,omitempty" validate:"-"`
	UnitUUID      *uuid.UUID             `gorm:"column:unit_uuid;type:uuid" json:"unitUuid,omitempty"`
	Unit          *Unit                  `gorm:"foreignKey:UnitUUID;references:UUID" json:"unit,omitempty" validate:"-"`
	Prices        []*ProductPrice        `gorm:"foreignKey:ProductUUID;references:UUID" json:"prices,omitempty" validate:"-"`
	ListingPrices []*ProductListingPrice `gorm:"foreignKey:ProductUUID;references:UUID" json:"listingPrices,omitempty" validate:"-"`
	Media         []*ProductMedia        `gorm:"foreignKey:ProductUUID;references:UUID" json:"media,omitempty" validate:"-"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "product"
}

// PriceCollection returns the product's price rows as a collection
func (p *Product) PriceCollection() *ProductPriceCollection {
	return shared.NewCollection(p.Prices...)
}

// ListingPriceCollection returns the product's listing price rows as a collection
func (p *Product) ListingPriceCollection() *ProductListingPriceCollection {
	return shared.NewCollection(p.ListingPrices...)
}

// ProductCollection is a collection of products
type ProductCollection = shared.Collection[*Product]

// Taxes returns the loaded taxes of the products
func Taxes(products *ProductCollection) *TaxCollection {
	return shared.Pluck(products, func(p *Product) (*Tax, bool) {
		return p.Tax, p.Tax != nil
	})
}

// Units returns the loaded units of the products
func Units(products *ProductCollection) *UnitCollection {
	return shared.Pluck(products, func(p *Product) (*Unit, bool) {
		return p.Unit, p.Unit != nil
	})
}

// Prices returns the loaded price rows of all products
func Prices(products *ProductCollection) *ProductPriceCollection {
	return shared.PluckMany(products, func(p *Product) []*ProductPrice { return p.Prices })
}

// ListingPrices returns the loaded listing price rows of all products
func ListingPrices(products *ProductCollection) *ProductListingPriceCollection {
	return shared.PluckMany(products, func(p *Product) []*ProductListingPrice { return p.ListingPrices })
}

// ProductMedias returns the loaded media assignments of all products
func ProductMedias(products *ProductCollection) *ProductMediaCollection {
	return shared.PluckMany(products, func(p *Product) []*ProductMedia { return p.Media })
}

// Tax is a tax rate products are sold with
type Tax struct {
	shared.BaseEntity
	Name string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Rate decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"rate"`
}

// TableName returns the table name for GORM
func (Tax) TableName() string {
	return "tax"
}

// TaxCollection is a collection of taxes
type TaxCollection = shared.Collection[*Tax]
