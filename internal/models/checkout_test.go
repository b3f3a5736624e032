package models_test

import (
	"testing"

	"tokoadmin/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeTotals_DiscountedItem(t *testing.T) {
	discounted := dec("80")
	items := []models.CartItem{{Price: dec("100"), DiscountedPrice: &discounted, Quantity: 2}}
	standard := models.ShippingMethod{Name: "standard", Charge: dec("9.99")}

	totals := models.ComputeTotals(items, standard, decimal.Zero, models.DefaultTaxRate)

	assert.Equal(t, "160.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "12.80", totals.Tax.StringFixed(2))
	assert.Equal(t, "9.99", totals.Shipping.StringFixed(2))
	assert.Equal(t, "182.79", totals.Total.StringFixed(2))
}

func TestComputeTotals_Idempotent(t *testing.T) {
	items := []models.CartItem{
		{Price: dec("19.99"), Quantity: 3},
		{Price: dec("4.25"), Quantity: 1},
	}
	express := models.ShippingMethod{Name: "express", Charge: dec("19.99")}

	first := models.ComputeTotals(items, express, dec("2.50"), models.DefaultTaxRate)
	second := models.ComputeTotals(items, express, dec("2.50"), models.DefaultTaxRate)

	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, models.Subtotal(items).Equal(models.Subtotal(items)))
	assert.Equal(t, "64.22", first.Subtotal.StringFixed(2))
}

func TestComputeTotals_DiscountNeverExceedsSubtotal(t *testing.T) {
	items := []models.CartItem{{Price: dec("10"), Quantity: 1}}
	totals := models.ComputeTotals(items, models.ShippingMethod{Name: "pickup"}, dec("25"), models.DefaultTaxRate)

	assert.Equal(t, "10.00", totals.Discount.StringFixed(2))
	assert.True(t, totals.Total.IsZero())
}
