package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tokoadmin/internal/models"

	"github.com/google/uuid"
)

// MemoryOrderRepository is an in-memory implementation of OrderRepository.
type MemoryOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMemoryOrderRepository creates a new instance of MemoryOrderRepository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: make(map[string]models.Order),
	}
}

var orderLess = map[string]lessFunc[models.Order]{
	"created_at":    func(a, b models.Order) bool { return a.CreatedAt.Before(b.CreatedAt) },
	"updated_at":    func(a, b models.Order) bool { return a.UpdatedAt.Before(b.UpdatedAt) },
	"total_amount":  func(a, b models.Order) bool { return a.TotalAmount.LessThan(b.TotalAmount) },
	"status":        func(a, b models.Order) bool { return a.Status < b.Status },
	"customer_name": func(a, b models.Order) bool { return a.CustomerName < b.CustomerName },
}

func orderMatches(o models.Order, f models.ListFilter) bool {
	if f.Search != "" && !containsFold(o.ID, f.Search) && !containsFold(o.CustomerName, f.Search) && !containsFold(o.CustomerEmail, f.Search) {
		return false
	}
	return f.Status == "" || string(o.Status) == f.Status
}

// copyOrder detaches the items slice so callers cannot mutate stored state.
func copyOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}

// List returns one page of orders matching f, newest first by default.
func (r *MemoryOrderRepository) List(ctx context.Context, f models.ListFilter) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if orderMatches(o, f) {
			matched = append(matched, copyOrder(o))
		}
	}
	newest := func(a, b models.Order) bool { return a.CreatedAt.After(b.CreatedAt) }
	return sortAndPage(matched, f, orderLess, newest)
}

// GetByID returns an order by its ID.
func (r *MemoryOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, models.NotFound("order", id)
	}
	order = copyOrder(order)
	return &order, nil
}

// Create adds a new order.
func (r *MemoryOrderRepository) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if _, ok := r.orders[order.ID]; ok {
		return fmt.Errorf("order %s %w", order.ID, models.ErrDuplicate)
	}
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	r.orders[order.ID] = copyOrder(*order)
	return nil
}

// Update replaces the lifecycle fields of an order.
func (r *MemoryOrderRepository) Update(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.ID]
	if !ok {
		return models.NotFound("order", order.ID)
	}
	stored.Status = order.Status
	stored.Stage = order.Stage
	stored.PaymentStatus = order.PaymentStatus
	stored.Reason = order.Reason
	stored.UpdatedAt = order.UpdatedAt
	r.orders[order.ID] = stored
	return nil
}
