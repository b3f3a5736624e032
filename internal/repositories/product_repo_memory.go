package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"tokoadmin/internal/models"

	"github.com/google/uuid"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[string]models.Product),
	}
}

var productLess = map[string]lessFunc[models.Product]{
	"name":          func(a, b models.Product) bool { return a.Name < b.Name },
	"sku":           func(a, b models.Product) bool { return a.SKU < b.SKU },
	"price":         func(a, b models.Product) bool { return a.Price.LessThan(b.Price) },
	"current_stock": func(a, b models.Product) bool { return a.CurrentStock < b.CurrentStock },
	"created_at":    func(a, b models.Product) bool { return a.CreatedAt.Before(b.CreatedAt) },
	"last_updated":  func(a, b models.Product) bool { return a.LastUpdated.Before(b.LastUpdated) },
}

func productMatches(p models.Product, f models.ListFilter) bool {
	if f.Search != "" && !containsFold(p.Name, f.Search) && !containsFold(p.SKU, f.Search) && !containsFold(p.Description, f.Search) {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	if f.Status != "" && string(p.StockStatus()) != f.Status {
		return false
	}
	return true
}

// List returns one page of products matching f.
func (r *MemoryProductRepository) List(ctx context.Context, f models.ListFilter) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if productMatches(p, f) {
			matched = append(matched, p)
		}
	}
	return sortAndPage(matched, f, productLess, productLess["name"])
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, models.NotFound("product", id)
	}
	return &product, nil
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if _, ok := r.products[product.ID]; ok {
		return fmt.Errorf("product %s %w", product.ID, models.ErrDuplicate)
	}
	for _, p := range r.products {
		if p.SKU == product.SKU {
			return fmt.Errorf("product with SKU %s %w", product.SKU, models.ErrDuplicate)
		}
	}
	now := time.Now()
	product.CreatedAt, product.UpdatedAt = now, now
	if product.LastUpdated.IsZero() {
		product.LastUpdated = now
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MemoryProductRepository) Update(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return models.NotFound("product", product.ID)
	}
	for id, p := range r.products {
		if id != product.ID && p.SKU == product.SKU {
			return fmt.Errorf("product with SKU %s %w", product.SKU, models.ErrDuplicate)
		}
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return models.NotFound("product", id)
	}
	delete(r.products, id)
	return nil
}

// SetStock replaces the stock level of a product.
func (r *MemoryProductRepository) SetStock(ctx context.Context, id string, quantity int, at time.Time) (*models.Product, error) {
	if quantity < 0 {
		return nil, models.ErrInvalidQuantity
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, models.NotFound("product", id)
	}
	product.CurrentStock = quantity
	product.LastUpdated = at
	product.UpdatedAt = at
	r.products[id] = product
	return &product, nil
}

// AdjustStock adds delta to the stock level of a product.
func (r *MemoryProductRepository) AdjustStock(ctx context.Context, id string, delta int, at time.Time) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, models.NotFound("product", id)
	}
	if product.CurrentStock+delta < 0 {
		return nil, fmt.Errorf("%w for product %s (requested: %d, available: %d)", models.ErrInsufficientStock, product.Name, -delta, product.CurrentStock)
	}
	product.CurrentStock += delta
	product.LastUpdated = at
	product.UpdatedAt = at
	r.products[id] = product
	return &product, nil
}

// Categories lists the distinct non-empty product categories.
func (r *MemoryProductRepository) Categories(ctx context.Context) ([]string, error) {
	return r.distinct(func(p models.Product) string { return p.Category }), nil
}

// Brands lists the distinct non-empty product brands.
func (r *MemoryProductRepository) Brands(ctx context.Context) ([]string, error) {
	return r.distinct(func(p models.Product) string { return p.Brand }), nil
}

func (r *MemoryProductRepository) distinct(field func(models.Product) string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, p := range r.products {
		if v := field(p); v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
