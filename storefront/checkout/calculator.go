// Package checkout prices a cart and drives the payment of a checkout.
package checkout

import (
	"go-pharmacy/storefront/cart"

	"github.com/shopspring/decimal"
)

var (
	// TaxRate is applied to the subtotal.
	TaxRate = decimal.RequireFromString("0.08")
	// FreeShippingOver is the subtotal above which shipping is free.
	FreeShippingOver = decimal.NewFromInt(50)
	// FlatShipping is charged when the subtotal does not exceed FreeShippingOver.
	FlatShipping = decimal.RequireFromString("4.99")
)

// Summary is the priced view of a cart. Subtotal keeps full precision;
// Tax and Total are rounded to cents.
type Summary struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Display is a Summary rendered for the shopper.
type Display struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Shipping string `json:"shipping"`
	Total    string `json:"total"`
}

// round2 rounds half away from zero, which is half-up for amounts.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Summarize prices lines. Malformed lines contribute nothing.
func Summarize(lines []cart.Line) Summary {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Amount())
	}

	shipping := FlatShipping
	if subtotal.GreaterThan(FreeShippingOver) {
		shipping = decimal.Zero
	}
	tax := round2(subtotal.Mul(TaxRate))

	return Summary{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    round2(subtotal.Add(tax).Add(shipping)),
	}
}

// Display renders every amount with two decimals.
func (s Summary) Display() Display {
	return Display{
		Subtotal: round2(s.Subtotal).StringFixed(2),
		Tax:      s.Tax.StringFixed(2),
		Shipping: s.Shipping.StringFixed(2),
		Total:    s.Total.StringFixed(2),
	}
}
