package services_test

import (
	"testing"

	"tokoadmin/internal/models"
	"tokoadmin/internal/repositories"
	"tokoadmin/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testShipping = map[string]models.ShippingMethod{
	"standard": {Name: "standard", Charge: decimal.RequireFromString("9.99")},
	"express":  {Name: "express", Charge: decimal.RequireFromString("19.99")},
	"pickup":   {Name: "pickup", Charge: decimal.Zero},
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedStore returns a memory store holding a mouse (50.00, stock 10), a keyboard
// (80.00 discounted to 60.00, stock 3) and the coupons SAVE10 and EXPIRED.
func seedStore(t *testing.T) (*repositories.Store, *models.Product, *models.Product) {
	t.Helper()
	store := repositories.NewMemoryStore()

	mouse := &models.Product{Name: "Mouse", SKU: "MS-1", Category: "accessories", Price: dec("50.00"), CurrentStock: 10, MinStock: 2, MaxStock: 100}
	discounted := dec("60.00")
	keyboard := &models.Product{Name: "Keyboard", SKU: "KB-1", Category: "accessories", Price: dec("80.00"), DiscountedPrice: &discounted, CurrentStock: 3, MinStock: 1, MaxStock: 50}
	require.NoError(t, store.Products.Create(ctx(), mouse))
	require.NoError(t, store.Products.Create(ctx(), keyboard))

	require.NoError(t, store.Coupons.Create(ctx(), &models.Coupon{
		Code: "SAVE10", Type: models.DiscountPercentage, Value: dec("10"), UsageLimit: 2,
		Validity: models.Validity{StartDate: fixedNow.AddDate(0, -1, 0), EndDate: fixedNow.AddDate(0, 1, 0), IsActive: true},
	}))
	require.NoError(t, store.Coupons.Create(ctx(), &models.Coupon{
		Code: "EXPIRED", Type: models.DiscountFixed, Value: dec("5"),
		Validity: models.Validity{StartDate: fixedNow.AddDate(0, -2, 0), EndDate: fixedNow.AddDate(0, -1, 0), IsActive: true},
	}))
	return store, mouse, keyboard
}

func newCheckoutService(store *repositories.Store) *services.CheckoutService {
	svc := services.NewCheckoutService(store.Products, store.Coupons, testShipping, models.DefaultTaxRate)
	svc.Now = clock
	return svc
}
