package services

import (
	"context"
	"fmt"
	"time"

	"tokoadmin/internal/models"
	"tokoadmin/internal/repositories"
	"tokoadmin/pkg/logger"
)

// ProductService handles business logic related to products and stock levels.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
	log    logger.Logger
	Now    func() time.Time
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(repo repositories.ProductRepository, events EventPublisher, log logger.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
		log:    log,
		Now:    time.Now,
	}
}

// ListProducts returns one page of products matching f.
func (s *ProductService) ListProducts(ctx context.Context, f models.ListFilter) (models.Page[models.Product], error) {
	if f.Status != "" && !models.StockStatus(f.Status).Valid() {
		return models.Page[models.Product]{}, models.NewValidationError("status", "unknown stock status %q", f.Status)
	}
	f = f.Normalize()
	products, total, err := s.repo.List(ctx, f)
	if err != nil {
		return models.Page[models.Product]{}, err
	}
	return models.Page[models.Product]{Items: products, Pagination: models.NewPagination(f, total)}, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func checkPricing(product *models.Product) error {
	if !product.Price.IsPositive() {
		return models.NewValidationError("price", "must be greater than zero")
	}
	if dp := product.DiscountedPrice; dp != nil && (dp.IsNegative() || dp.GreaterThan(product.Price)) {
		return models.NewValidationError("discounted_price", "must be between zero and the price")
	}
	if product.CurrentStock < 0 {
		return models.ErrInvalidQuantity
	}
	return nil
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := checkPricing(product); err != nil {
		return err
	}
	product.LastUpdated = s.Now()
	return s.repo.Create(ctx, product)
}

// UpdateProduct updates an existing product. lastUpdated moves only when the stock level does.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := checkPricing(product); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, product.ID)
	if err != nil {
		return err
	}
	product.LastUpdated = existing.LastUpdated
	if existing.CurrentStock != product.CurrentStock {
		product.LastUpdated = s.Now()
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return err
	}
	if existing.CurrentStock != product.CurrentStock {
		s.stockChanged(ctx, product)
	}
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// UpdateStock replaces the stock level of a product. A negative quantity is rejected
// with ErrInvalidQuantity and the record is left untouched.
func (s *ProductService) UpdateStock(ctx context.Context, id string, quantity int) (*models.Product, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("stock update for product %s: %w", id, models.ErrInvalidQuantity)
	}
	product, err := s.repo.SetStock(ctx, id, quantity, s.Now())
	if err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).Info("stock updated",
		logger.String("product_id", id),
		logger.Int("quantity", quantity),
		logger.String("status", string(product.StockStatus())))
	s.stockChanged(ctx, product)
	return product, nil
}

// stockChanged publishes an alert when a product drops to low or out of stock.
func (s *ProductService) stockChanged(ctx context.Context, product *models.Product) {
	if product.StockStatus() == models.InStock {
		return
	}
	publish(ctx, s.events, s.log, models.StockEvent(product, s.Now()))
}

// Categories lists the distinct product categories.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// Brands lists the distinct product brands.
func (s *ProductService) Brands(ctx context.Context) ([]string, error) {
	return s.repo.Brands(ctx)
}
