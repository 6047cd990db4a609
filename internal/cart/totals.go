package cart

import "github.com/shopspring/decimal"

var (
	// FreeShippingThreshold must be strictly exceeded for free shipping.
	FreeShippingThreshold = decimal.NewFromInt(50)
	FlatShipping          = decimal.NewFromInt(10)
)

// Totals is derived from the lines on every read and never stored.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals applies subtotal = sum(unitPrice*quantity), shipping = 0 above
// the threshold, flat otherwise, and 0 for an empty cart.
func ComputeTotals(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	shipping := decimal.Zero
	if len(lines) > 0 && !subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = FlatShipping
	}

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
	}
}
