package customer

import (
	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shop"
)

// Entity names
const (
	EntityCustomer        = "customer"
	EntityCustomerAddress = "customer_address"
)

// Customer is a registered shop customer
type Customer struct {
	shared.BaseEntity
	Number             string              `gorm:"type:varchar(30);not null" json:"number" validate:"required,max=30"`
	Email              string              `gorm:"type:varchar(255);not null" json:"email" validate:"required,email"`
	FirstName          string              `gorm:"type:varchar(100)" json:"firstName" validate:"max=100"`
	LastName           string              `gorm:"type:varchar(100)" json:"lastName" validate:"max=100"`
	GroupUUID          uuid.UUID           `gorm:"column:group_uuid;type:uuid;not null" json:"groupUuid" validate:"required"`
	Group              *shop.CustomerGroup `gorm:"foreignKey:GroupUUID;references:UUID" json:"group,omitempty" validate:"-"`
	DefaultAddressUUID *uuid.UUID          `gorm:"column:default_address_uuid;type:uuid" json:"defaultAddressUuid,omitempty"`
	DefaultAddress     *Address            `gorm:"foreignKey:DefaultAddressUUID;references:UUID" json:"defaultAddress,omitempty" validate:"-"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customer"
}

// Collection is a collection of customers
type Collection = shared.Collection[*Customer]

// Groups returns the loaded customer groups
func Groups(customers *Collection) *shop.CustomerGroupCollection {
	return shared.Pluck(customers, func(c *Customer) (*shop.CustomerGroup, bool) {
		return c.Group, c.Group != nil
	})
}

// DefaultAddresses returns the loaded default addresses
func DefaultAddresses(customers *Collection) *AddressCollection {
	return shared.Pluck(customers, func(c *Customer) (*Address, bool) {
		return c.DefaultAddress, c.DefaultAddress != nil
	})
}

// Address is a postal address of a customer
type Address struct {
	shared.BaseEntity
	CustomerUUID uuid.UUID     `gorm:"column:customer_uuid;type:uuid;not null;index" json:"customerUuid" validate:"required"`
	Street       string        `gorm:"type:varchar(255);not null" json:"street" validate:"required"`
	Zipcode      string        `gorm:"type:varchar(20);not null" json:"zipcode" validate:"required"`
	City         string        `gorm:"type:varchar(100);not null" json:"city" validate:"required"`
	CountryUUID  uuid.UUID     `gorm:"column:country_uuid;type:uuid;not null" json:"countryUuid" validate:"required"`
	Country      *shop.Country `gorm:"foreignKey:CountryUUID;references:UUID" json:"country,omitempty" validate:"-"`
}

// TableName returns the table name for GORM
func (Address) TableName() string {
	return "customer_address"
}

// AddressCollection is a collection of customer addresses
type AddressCollection = shared.Collection[*Address]

// FilterByCustomerUUID returns the addresses of one customer
func FilterByCustomerUUID(addresses *AddressCollection, customerUUID uuid.UUID) *AddressCollection {
	return addresses.Filter(func(a *Address) bool { return a.CustomerUUID == customerUUID })
}

// Countries returns the loaded countries of the addresses
func Countries(addresses *AddressCollection) *shop.CountryCollection {
	return shared.Pluck(addresses, func(a *Address) (*shop.Country, bool) {
		return a.Country, a.Country != nil
	})
}
