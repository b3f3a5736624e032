package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tokoadmin/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// displayStatusWhere restricts q to rows whose derived status at now equals status.
func displayStatusWhere(q *gorm.DB, status string, now time.Time) *gorm.DB {
	switch models.DisplayStatus(status) {
	case models.StatusInactive:
		return q.Where("is_active = ?", false)
	case models.StatusExpired:
		return q.Where("is_active = ? AND end_date < ?", true, now)
	case models.StatusActive:
		return q.Where("is_active = ? AND end_date >= ?", true, now)
	}
	return q
}

// canonicalStatus maps "active"/"ACTIVE" onto the DisplayStatus spelling.
func canonicalStatus(raw string) string {
	for _, s := range []models.DisplayStatus{models.StatusActive, models.StatusInactive, models.StatusExpired} {
		if strings.EqualFold(raw, string(s)) {
			return string(s)
		}
	}
	return raw
}

// GORMCouponRepository is a GORM implementation of CouponRepository.
type GORMCouponRepository struct {
	db *gorm.DB
}

// NewGORMCouponRepository creates a new instance of GORMCouponRepository.
func NewGORMCouponRepository(db *gorm.DB) *GORMCouponRepository {
	return &GORMCouponRepository{db: db}
}

// List retrieves one page of coupons matching f at now.
func (r *GORMCouponRepository) List(ctx context.Context, f models.ListFilter, now time.Time) ([]models.Coupon, int64, error) {
	order, err := orderClause(f, couponColumns, "code ASC")
	if err != nil {
		return nil, 0, err
	}
	scope := func(q *gorm.DB) *gorm.DB {
		if f.Search != "" {
			q = q.Where("LOWER(code) LIKE ?", likePattern(f.Search))
		}
		return displayStatusWhere(q, canonicalStatus(f.Status), now)
	}
	coupons, total, err := findPage[models.Coupon](r.db.WithContext(ctx), scope, f, order)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, total, nil
}

// GetByID retrieves a coupon by ID.
func (r *GORMCouponRepository) GetByID(ctx context.Context, id string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFound("coupon", id)
		}
		return nil, fmt.Errorf("failed to get coupon by ID %s: %w", id, err)
	}
	return &coupon, nil
}

// GetByCode retrieves a coupon by code, ignoring case.
func (r *GORMCouponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "UPPER(code) = ?", strings.ToUpper(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFound("coupon", code)
		}
		return nil, fmt.Errorf("failed to get coupon by code %s: %w", code, err)
	}
	return &coupon, nil
}

// Create inserts a coupon.
func (r *GORMCouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(coupon).Error; err != nil {
		return fmt.Errorf("failed to create coupon: %w", translate(err, "coupon", coupon.Code))
	}
	return nil
}

// Update saves every editable coupon column.
func (r *GORMCouponRepository) Update(ctx context.Context, coupon *models.Coupon) error {
	res := r.db.WithContext(ctx).Model(&models.Coupon{}).Where("id = ?", coupon.ID).
		Select("code", "type", "value", "min_order_amount", "max_discount", "usage_limit",
			"used_count", "is_public", "start_date", "end_date", "is_active").
		Updates(coupon)
	if res.Error != nil {
		return fmt.Errorf("failed to update coupon: %w", translate(res.Error, "coupon", coupon.Code))
	}
	if res.RowsAffected == 0 {
		return models.NotFound("coupon", coupon.ID)
	}
	return nil
}

// Delete soft-deletes a coupon.
func (r *GORMCouponRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Coupon{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete coupon: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NotFound("coupon", id)
	}
	return nil
}

// IncrementUsage records one redemption of code.
func (r *GORMCouponRepository) IncrementUsage(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Model(&models.Coupon{}).Where("UPPER(code) = ?", strings.ToUpper(code)).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to record usage of coupon %s: %w", code, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NotFound("coupon", code)
	}
	return nil
}
