package pricing

import (
	"fmt"

	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Calculator turns a price definition into a calculated price for a shop context.
// Implementations must be pure functions of their inputs.
type Calculator interface {
	Calculate(definition PriceDefinition, ctx shared.ShopContext) (CalculatedPrice, error)
}

// PriceCalculator converts net prices into the context currency and, for
// customer groups displaying gross prices, adds the taxes of every rule
type PriceCalculator struct{}

// NewPriceCalculator creates a price calculator
func NewPriceCalculator() *PriceCalculator {
	return &PriceCalculator{}
}

// Calculate computes unit and total price rounded to the currency precision
func (c *PriceCalculator) Calculate(definition PriceDefinition, ctx shared.ShopContext) (CalculatedPrice, error) {
	if err := validateDefinition(definition); err != nil {
		return CalculatedPrice{}, err
	}

	currency := ctx.Currency()
	precision := currency.Precision
	net := definition.Price.Mul(currency.Factor)

	var unit decimal.Decimal
	var taxes []CalculatedTax
	if ctx.CurrentCustomerGroup().DisplayGross {
		unit = grossPrice(net, definition.TaxRules).Round(precision)
		taxes = taxesFromGross(unit, definition.TaxRules, precision)
	} else {
		unit = net.Round(precision)
		taxes = taxesFromNet(unit, definition.TaxRules, precision)
	}

	quantity := decimal.NewFromInt(int64(definition.Quantity))
	total := unit.Mul(quantity)
	for i := range taxes {
		taxes[i].Tax = taxes[i].Tax.Mul(quantity)
		taxes[i].Price = taxes[i].Price.Mul(quantity)
	}

	return CalculatedPrice{
		UnitPrice:       unit,
		TotalPrice:      total,
		Quantity:        definition.Quantity,
		CalculatedTaxes: taxes,
		TaxRules:        definition.TaxRules,
	}, nil
}

func validateDefinition(definition PriceDefinition) error {
	if definition.Quantity < 1 {
		return shared.NewPricingError(fmt.Sprintf("quantity must be at least 1, got %d", definition.Quantity), nil)
	}
	if definition.Price.IsNegative() {
		return shared.NewPricingError(fmt.Sprintf("price must not be negative, got %s", definition.Price), nil)
	}
	for _, rule := range definition.TaxRules {
		if rule == nil {
			return shared.NewPricingError("tax rule must not be nil", nil)
		}
		if rule.Rate().IsNegative() {
			return shared.NewPricingError(fmt.Sprintf("tax rate must not be negative, got %s", rule.Rate()), nil)
		}
		if !rule.Percentage().IsPositive() || rule.Percentage().GreaterThan(hundred) {
			return shared.NewPricingError(fmt.Sprintf("tax rule percentage must be within (0, 100], got %s", rule.Percentage()), nil)
		}
	}
	return nil
}

func grossPrice(net decimal.Decimal, rules TaxRuleCollection) decimal.Decimal {
	gross := net
	for _, rule := range rules {
		share := net.Mul(rule.Percentage()).Div(hundred)
		gross = gross.Add(share.Mul(rule.Rate()).Div(hundred))
	}
	return gross
}

func taxesFromGross(gross decimal.Decimal, rules TaxRuleCollection, precision int32) []CalculatedTax {
	taxes := make([]CalculatedTax, 0, len(rules))
	for _, rule := range rules {
		share := gross.Mul(rule.Percentage()).Div(hundred)
		divisor := hundred.Add(rule.Rate()).Div(hundred)
		tax := share.Sub(share.Div(divisor)).Round(precision)
		taxes = append(taxes, CalculatedTax{Tax: tax, TaxRate: rule.Rate(), Price: share.Round(precision)})
	}
	return taxes
}

func taxesFromNet(net decimal.Decimal, rules TaxRuleCollection, precision int32) []CalculatedTax {
	taxes := make([]CalculatedTax, 0, len(rules))
	for _, rule := range rules {
		share := net.Mul(rule.Percentage()).Div(hundred)
		tax := share.Mul(rule.Rate()).Div(hundred).Round(precision)
		taxes = append(taxes, CalculatedTax{Tax: tax, TaxRate: rule.Rate(), Price: share.Round(precision)})
	}
	return taxes
}

// Ensure PriceCalculator implements Calculator
var _ Calculator = (*PriceCalculator)(nil)
