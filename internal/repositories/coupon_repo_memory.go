package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"tokoadmin/internal/models"

	"github.com/google/uuid"
)

// MemoryCouponRepository is an in-memory implementation of CouponRepository.
type MemoryCouponRepository struct {
	coupons map[string]models.Coupon
	mu      sync.RWMutex
}

// NewMemoryCouponRepository creates a new instance of MemoryCouponRepository.
func NewMemoryCouponRepository() *MemoryCouponRepository {
	return &MemoryCouponRepository{coupons: make(map[string]models.Coupon)}
}

var couponLess = map[string]lessFunc[models.Coupon]{
	"code":       func(a, b models.Coupon) bool { return a.Code < b.Code },
	"end_date":   func(a, b models.Coupon) bool { return a.EndDate.Before(b.EndDate) },
	"start_date": func(a, b models.Coupon) bool { return a.StartDate.Before(b.StartDate) },
	"used_count": func(a, b models.Coupon) bool { return a.UsedCount < b.UsedCount },
	"created_at": func(a, b models.Coupon) bool { return a.CreatedAt.Before(b.CreatedAt) },
}

// List returns one page of coupons matching f.
func (r *MemoryCouponRepository) List(ctx context.Context, f models.ListFilter, now time.Time) ([]models.Coupon, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Coupon, 0, len(r.coupons))
	for _, c := range r.coupons {
		if f.Search != "" && !containsFold(c.Code, f.Search) {
			continue
		}
		if f.Status != "" && !strings.EqualFold(string(c.DisplayStatus(now)), f.Status) {
			continue
		}
		matched = append(matched, c)
	}
	return sortAndPage(matched, f, couponLess, couponLess["code"])
}

// GetByID returns a coupon by its ID.
func (r *MemoryCouponRepository) GetByID(ctx context.Context, id string) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.coupons[id]
	if !ok {
		return nil, models.NotFound("coupon", id)
	}
	return &c, nil
}

// GetByCode returns a coupon by its code, ignoring case.
func (r *MemoryCouponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.coupons {
		if strings.EqualFold(c.Code, code) {
			return &c, nil
		}
	}
	return nil, models.NotFound("coupon", code)
}

// Create adds a new coupon.
func (r *MemoryCouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}
	for _, c := range r.coupons {
		if strings.EqualFold(c.Code, coupon.Code) {
			return fmt.Errorf("coupon %s %w", coupon.Code, models.ErrDuplicate)
		}
	}
	now := time.Now()
	coupon.CreatedAt, coupon.UpdatedAt = now, now
	r.coupons[coupon.ID] = *coupon
	return nil
}

// Update replaces an existing coupon.
func (r *MemoryCouponRepository) Update(ctx context.Context, coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.coupons[coupon.ID]
	if !ok {
		return models.NotFound("coupon", coupon.ID)
	}
	for id, c := range r.coupons {
		if id != coupon.ID && strings.EqualFold(c.Code, coupon.Code) {
			return fmt.Errorf("coupon %s %w", coupon.Code, models.ErrDuplicate)
		}
	}
	coupon.CreatedAt = existing.CreatedAt
	coupon.UpdatedAt = time.Now()
	r.coupons[coupon.ID] = *coupon
	return nil
}

// Delete removes a coupon.
func (r *MemoryCouponRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.coupons[id]; !ok {
		return models.NotFound("coupon", id)
	}
	delete(r.coupons, id)
	return nil
}

// IncrementUsage records one redemption of code.
func (r *MemoryCouponRepository) IncrementUsage(ctx context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.coupons {
		if strings.EqualFold(c.Code, code) {
			c.UsedCount++
			r.coupons[id] = c
			return nil
		}
	}
	return models.NotFound("coupon", code)
}
