package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tokoadmin/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

func productScope(f models.ListFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.Search != "" {
			p := likePattern(f.Search)
			q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(description) LIKE ?", p, p, p)
		}
		if f.Category != "" {
			q = q.Where("category = ?", f.Category)
		}
		if f.Brand != "" {
			q = q.Where("brand = ?", f.Brand)
		}
		switch models.StockStatus(f.Status) {
		case models.OutOfStock:
			q = q.Where("current_stock <= 0")
		case models.LowStock:
			q = q.Where("current_stock > 0 AND current_stock <= min_stock")
		case models.InStock:
			q = q.Where("current_stock > min_stock")
		}
		return q
	}
}

// List retrieves one page of products matching f.
func (r *GORMProductRepository) List(ctx context.Context, f models.ListFilter) ([]models.Product, int64, error) {
	order, err := orderClause(f, productColumns, "name ASC")
	if err != nil {
		return nil, 0, err
	}
	products, total, err := findPage[models.Product](r.db.WithContext(ctx), productScope(f), f, order)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFound("product", id)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.LastUpdated.IsZero() {
		product.LastUpdated = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", translate(err, "product", product.SKU))
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", product.ID).
		Select("name", "sku", "description", "category", "brand", "price", "discounted_price",
			"current_stock", "min_stock", "max_stock", "last_updated").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", translate(res.Error, "product", product.SKU))
	}
	if res.RowsAffected == 0 {
		return models.NotFound("product", product.ID)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NotFound("product", id)
	}
	return nil
}

// SetStock replaces the stock level of a product.
func (r *GORMProductRepository) SetStock(ctx context.Context, id string, quantity int, at time.Time) (*models.Product, error) {
	if quantity < 0 {
		return nil, models.ErrInvalidQuantity
	}
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).
		Updates(map[string]interface{}{"current_stock": quantity, "last_updated": at})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to set stock for product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NotFound("product", id)
	}
	return r.GetByID(ctx, id)
}

// AdjustStock adds delta to the stock level with a single conditional update.
func (r *GORMProductRepository) AdjustStock(ctx context.Context, id string, delta int, at time.Time) (*models.Product, error) {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND current_stock + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"current_stock": gorm.Expr("current_stock + ?", delta),
			"last_updated":  at,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to adjust stock for product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		product, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w for product %s (requested: %d, available: %d)", models.ErrInsufficientStock, product.Name, -delta, product.CurrentStock)
	}
	return r.GetByID(ctx, id)
}

// Categories lists the distinct non-empty product categories.
func (r *GORMProductRepository) Categories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "category")
}

// Brands lists the distinct non-empty product brands.
func (r *GORMProductRepository) Brands(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "brand")
}

func (r *GORMProductRepository) distinct(ctx context.Context, column string) ([]string, error) {
	out := make([]string, 0)
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where(column+" <> ''").Distinct().Order(column).Pluck(column, &out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s values: %w", column, err)
	}
	return out, nil
}
