package models

import (
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the flat sales tax applied at checkout.
var DefaultTaxRate = decimal.RequireFromString("0.08")

// CartItem is one product line in a cart.
type CartItem struct {
	Price           decimal.Decimal
	DiscountedPrice *decimal.Decimal
	Quantity        int
}

// EffectivePrice is the discounted price when present.
func (i CartItem) EffectivePrice() decimal.Decimal {
	if i.DiscountedPrice != nil {
		return *i.DiscountedPrice
	}
	return i.Price
}

// ShippingMethod is a named flat shipping charge.
type ShippingMethod struct {
	Name   string          `json:"name"`
	Charge decimal.Decimal `json:"charge"`
}

// CheckoutTotals is the priced breakdown of a cart.
type CheckoutTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Subtotal sums effective price times quantity over items, rounded to cents.
func Subtotal(items []CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.EffectivePrice().Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum.Round(2)
}

// Tax applies rate to the taxable amount, rounded to cents.
func Tax(taxable, rate decimal.Decimal) decimal.Decimal {
	return taxable.Mul(rate).Round(2)
}

// ComputeTotals prices a cart. discount is taken off the subtotal before tax.
func ComputeTotals(items []CartItem, shipping ShippingMethod, discount, taxRate decimal.Decimal) CheckoutTotals {
	subtotal := Subtotal(items)
	discount = discount.Round(2)
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	taxable := subtotal.Sub(discount)
	tax := Tax(taxable, taxRate)
	charge := shipping.Charge.Round(2)
	return CheckoutTotals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Shipping: charge,
		Total:    taxable.Add(tax).Add(charge),
	}
}
