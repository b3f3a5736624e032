package repositories

import (
	"context"
	"time"

	"tokoadmin/internal/models"
)

// CouponRepository defines the interface for coupon data access. List takes now because
// the status filter matches the derived display status.
type CouponRepository interface {
	List(ctx context.Context, f models.ListFilter, now time.Time) ([]models.Coupon, int64, error)
	GetByID(ctx context.Context, id string) (*models.Coupon, error)
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	Create(ctx context.Context, coupon *models.Coupon) error
	Update(ctx context.Context, coupon *models.Coupon) error
	Delete(ctx context.Context, id string) error
	IncrementUsage(ctx context.Context, code string) error
}

// OfferRepository defines the interface for offer data access.
type OfferRepository interface {
	List(ctx context.Context, f models.ListFilter, now time.Time) ([]models.Offer, int64, error)
	GetByID(ctx context.Context, id string) (*models.Offer, error)
	Create(ctx context.Context, offer *models.Offer) error
	Update(ctx context.Context, offer *models.Offer) error
	Delete(ctx context.Context, id string) error
}

var couponColumns = map[string]string{
	"code":       "code",
	"end_date":   "end_date",
	"start_date": "start_date",
	"used_count": "used_count",
	"created_at": "created_at",
}

var offerColumns = map[string]string{
	"title":           "title",
	"end_date":        "end_date",
	"start_date":      "start_date",
	"priority":        "CASE priority WHEN 'low' THEN 0 WHEN 'medium' THEN 1 WHEN 'high' THEN 2 ELSE 0 END",
	"conversion_rate": "conversion_rate",
	"created_at":      "created_at",
}

