package pricing

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TaxRule describes how a tax rate applies to a price
type TaxRule interface {
	// Rate is the tax rate in percent
	Rate() decimal.Decimal
	// Percentage is the share of the price the rate applies to, in percent
	Percentage() decimal.Decimal
}

// PercentageTaxRule applies a tax rate to a percentage share of the price
type PercentageTaxRule struct {
	rate       decimal.Decimal
	percentage decimal.Decimal
}

// NewPercentageTaxRule creates a percentage tax rule
func NewPercentageTaxRule(rate, percentage decimal.Decimal) PercentageTaxRule {
	return PercentageTaxRule{rate: rate, percentage: percentage}
}

// NewFullTaxRule applies rate to the whole price
func NewFullTaxRule(rate decimal.Decimal) PercentageTaxRule {
	return NewPercentageTaxRule(rate, hundred)
}

// Rate returns the tax rate in percent
func (r PercentageTaxRule) Rate() decimal.Decimal { return r.rate }

// Percentage returns the share of the price in percent
func (r PercentageTaxRule) Percentage() decimal.Decimal { return r.percentage }

// TaxRuleCollection is an ordered list of tax rules
type TaxRuleCollection []TaxRule

// PriceDefinition is the input of a price calculation. Price is a net unit price.
type PriceDefinition struct {
	Price    decimal.Decimal
	TaxRules TaxRuleCollection
	Quantity int
}

// NewPriceDefinition creates a definition for a single unit
func NewPriceDefinition(price decimal.Decimal, rules TaxRuleCollection) PriceDefinition {
	return PriceDefinition{Price: price, TaxRules: rules, Quantity: 1}
}

// CalculatedTax is the tax amount computed for one rule
type CalculatedTax struct {
	Tax     decimal.Decimal `json:"tax"`
	TaxRate decimal.Decimal `json:"taxRate"`
	Price   decimal.Decimal `json:"price"`
}

// CalculatedPrice is the result of a price calculation
type CalculatedPrice struct {
	UnitPrice       decimal.Decimal   `json:"unitPrice"`
	TotalPrice      decimal.Decimal   `json:"totalPrice"`
	Quantity        int               `json:"quantity"`
	CalculatedTaxes []CalculatedTax   `json:"calculatedTaxes"`
	TaxRules        TaxRuleCollection `json:"-"`
}

// TaxAmount returns the sum of all calculated taxes
func (p CalculatedPrice) TaxAmount() decimal.Decimal {
	total := decimal.Zero
	for _, t := range p.CalculatedTaxes {
		total = total.Add(t.Tax)
	}
	return total
}
