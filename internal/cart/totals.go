package cart

import "github.com/shopspring/decimal"

// DefaultTaxRate is the flat sales-tax approximation applied when no rate is
// configured. The rate is a policy parameter (CART_TAX_RATE), not a constant
// baked into call sites.
const DefaultTaxRate = 0.08

// Calculator computes display totals for a cart snapshot under a fixed flat
// tax rate. Accumulation happens in decimal so per-line products never lose
// precision before the final rounding to currency sub-units.
type Calculator struct {
	taxRate decimal.Decimal
}

// NewCalculator returns a Calculator for the given flat tax rate.
// Rates outside [0, 1) fall back to DefaultTaxRate.
func NewCalculator(taxRate float64) *Calculator {
	if taxRate < 0 || taxRate >= 1 {
		taxRate = DefaultTaxRate
	}
	return &Calculator{taxRate: decimal.NewFromFloat(taxRate)}
}

// TaxRate reports the configured rate as a float for logging and responses.
func (c *Calculator) TaxRate() float64 {
	f, _ := c.taxRate.Float64()
	return f
}

// Totals computes subtotal, tax, and total for the items. Subtotal is
// Σ price×quantity kept at full precision internally; tax is derived from the
// unrounded subtotal; all three outputs are rounded half-up to two decimal
// places at this boundary. Empty input yields all zeros.
func (c *Calculator) Totals(items []Item) Totals {
	sum := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		sum = sum.Add(line)
	}

	subtotal := sum.Round(2)
	tax := sum.Mul(c.taxRate).Round(2)
	total := subtotal.Add(tax)

	sf, _ := subtotal.Float64()
	xf, _ := tax.Float64()
	tf, _ := total.Float64()
	return Totals{Subtotal: sf, Tax: xf, Total: tf}
}
