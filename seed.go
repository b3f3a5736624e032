package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tokoadmin/internal/models"
	"tokoadmin/internal/repositories"
)

// seedDemoData fills an empty catalog with a few products, a coupon and an offer.
func seedDemoData(ctx context.Context, store *repositories.Store, now time.Time) error {
	_, total, err := store.Products.List(ctx, models.ListFilter{Limit: 1})
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	sale := decimal.RequireFromString("59.00")
	products := []models.Product{
		{Name: "Laptop", SKU: "LP-001", Description: "High performance laptop", Category: "computers", Brand: "Acme",
			Price: decimal.RequireFromString("1200.00"), CurrentStock: 10, MinStock: 3, MaxStock: 50},
		{Name: "Keyboard", SKU: "KB-001", Description: "Mechanical keyboard", Category: "accessories", Brand: "Clack",
			Price: decimal.RequireFromString("75.00"), DiscountedPrice: &sale, CurrentStock: 4, MinStock: 5, MaxStock: 100},
		{Name: "Mouse", SKU: "MS-001", Description: "Ergonomic wireless mouse", Category: "accessories", Brand: "Acme",
			Price: decimal.RequireFromString("25.00"), CurrentStock: 0, MinStock: 5, MaxStock: 200},
	}
	for i := range products {
		products[i].LastUpdated = now
		if err := store.Products.Create(ctx, &products[i]); err != nil {
			return fmt.Errorf("seeding product %s: %w", products[i].Name, err)
		}
	}

	window := models.Validity{StartDate: now.AddDate(0, 0, -1), EndDate: now.AddDate(0, 1, 0), IsActive: true}
	if err := store.Coupons.Create(ctx, &models.Coupon{
		Code: "WELCOME10", Type: models.DiscountPercentage, Value: decimal.NewFromInt(10),
		MaxDiscount: decimal.NewFromInt(50), UsageLimit: 100, IsPublic: true, Validity: window,
	}); err != nil {
		return fmt.Errorf("seeding coupon: %w", err)
	}
	if err := store.Offers.Create(ctx, &models.Offer{
		Title: "Accessory week", DiscountType: models.DiscountPercentage, Value: decimal.NewFromInt(15),
		Categories: []string{"accessories"}, Priority: "high", IsPublic: true, Validity: window,
	}); err != nil {
		return fmt.Errorf("seeding offer: %w", err)
	}
	return nil
}
