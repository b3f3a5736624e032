package repositories

import (
	"context"
	"time"

	"tokoadmin/internal/models"
)

// ProductRepository defines the interface for product and stock data access.
type ProductRepository interface {
	List(ctx context.Context, f models.ListFilter) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	// SetStock replaces the stock level and stamps lastUpdated.
	SetStock(ctx context.Context, id string, quantity int, at time.Time) (*models.Product, error)
	// AdjustStock adds delta to the stock level, failing with ErrInsufficientStock
	// instead of going below zero.
	AdjustStock(ctx context.Context, id string, delta int, at time.Time) (*models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Brands(ctx context.Context) ([]string, error)
}

var productColumns = map[string]string{
	"name":          "name",
	"sku":           "sku",
	"price":         "price",
	"current_stock": "current_stock",
	"created_at":    "created_at",
	"last_updated":  "last_updated",
}
