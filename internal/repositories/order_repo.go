package repositories

import (
	"context"

	"tokoadmin/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	List(ctx context.Context, f models.ListFilter) ([]models.Order, int64, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	// Update persists the order's lifecycle fields (status, stage, payment, reason).
	Update(ctx context.Context, order *models.Order) error
}

var orderColumns = map[string]string{
	"created_at":    "created_at",
	"updated_at":    "updated_at",
	"total_amount":  "total_amount",
	"status":        "status",
	"customer_name": "customer_name",
}
