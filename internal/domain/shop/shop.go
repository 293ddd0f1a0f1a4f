package shop

import (
	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Entity names
const (
	EntityShop          = "shop"
	EntityCurrency      = "currency"
	EntityCustomerGroup = "customer_group"
	EntityCountry       = "country"
)

// Shop is a sales channel; it also acts as the language of translations
type Shop struct {
	shared.BaseEntity
	Name              string    `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Locale            string    `gorm:"type:varchar(20);not null" json:"locale" validate:"required,bcp47_language_tag"`
	IsDefault         bool      `gorm:"not null;default:false" json:"isDefault"`
	CurrencyUUID      uuid.UUID `gorm:"column:currency_uuid;type:uuid;not null" json:"currencyUuid" validate:"required"`
	Currency          *Currency `gorm:"foreignKey:CurrencyUUID;references:UUID" json:"currency,omitempty" validate:"-"`
	CustomerGroupUUID uuid.UUID `gorm:"column:customer_group_uuid;type:uuid;not null" json:"customerGroupUuid" validate:"required"`
}

// TableName returns the table name for GORM
func (Shop) TableName() string {
	return "shop"
}

// ShopCollection is a collection of shops
type ShopCollection = shared.Collection[*Shop]

// Currencies returns the loaded currencies of the shops
func Currencies(shops *ShopCollection) *CurrencyCollection {
	return shared.Pluck(shops, func(s *Shop) (*Currency, bool) {
		return s.Currency, s.Currency != nil
	})
}

// Currency is a currency a shop sells in
type Currency struct {
	shared.BaseEntity
	ISOCode  string          `gorm:"column:iso_code;type:varchar(3);not null" json:"isoCode" validate:"required,len=3"`
	Symbol   string          `gorm:"type:varchar(10);not null" json:"symbol"`
	Factor   decimal.Decimal `gorm:"type:decimal(18,6);not null;default:1" json:"factor"`
	Decimals int32           `gorm:"not null;default:2" json:"decimals" validate:"gte=0,lte=6"`
}

// TableName returns the table name for GORM
func (Currency) TableName() string {
	return "currency"
}

// CurrencyCollection is a collection of currencies
type CurrencyCollection = shared.Collection[*Currency]

// CustomerGroup groups customers for pricing
type CustomerGroup struct {
	shared.BaseEntity
	Name         string `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	DisplayGross bool   `gorm:"not null;default:true" json:"displayGross"`
}

// TableName returns the table name for GORM
func (CustomerGroup) TableName() string {
	return "customer_group"
}

// Ref returns the lightweight reference used in a ShopContext
func (g *CustomerGroup) Ref() shared.CustomerGroupRef {
	return shared.CustomerGroupRef{UUID: g.UUID, DisplayGross: g.DisplayGross}
}

// CustomerGroupCollection is a collection of customer groups
type CustomerGroupCollection = shared.Collection[*CustomerGroup]

// Country is a shipping/billing country
type Country struct {
	shared.BaseEntity
	ISO  string `gorm:"type:varchar(2);not null" json:"iso" validate:"required,len=2"`
	Name string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
}

// TableName returns the table name for GORM
func (Country) TableName() string {
	return "country"
}

// CountryCollection is a collection of countries
type CountryCollection = shared.Collection[*Country]
