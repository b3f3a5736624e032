package services

import (
	"context"
	"strings"
	"time"

	"tokoadmin/internal/models"
	"tokoadmin/internal/repositories"
	"tokoadmin/pkg/logger"

	"github.com/shopspring/decimal"
)

func checkStatusFilter(status string) (string, error) {
	if status == "" {
		return "", nil
	}
	for _, s := range []models.DisplayStatus{models.StatusActive, models.StatusInactive, models.StatusExpired} {
		if strings.EqualFold(status, string(s)) {
			return string(s), nil
		}
	}
	return "", models.NewValidationError("status", "unknown status %q", status)
}

var hundred = decimal.NewFromInt(100)

func checkLimits(minOrder, maxDiscount decimal.Decimal) error {
	if minOrder.IsNegative() {
		return models.NewValidationError("min_order_amount", "must not be negative")
	}
	if maxDiscount.IsNegative() {
		return models.NewValidationError("max_discount", "must not be negative")
	}
	return nil
}

// CouponService manages discount codes.
type CouponService struct {
	repo repositories.CouponRepository
	log  logger.Logger
	Now  func() time.Time
}

// NewCouponService creates a new CouponService.
func NewCouponService(repo repositories.CouponRepository, log logger.Logger) *CouponService {
	return &CouponService{repo: repo, log: log, Now: time.Now}
}

// ListCoupons returns one page of coupons with their status evaluated now.
func (s *CouponService) ListCoupons(ctx context.Context, f models.ListFilter) (models.Page[models.CouponView], error) {
	status, err := checkStatusFilter(f.Status)
	if err != nil {
		return models.Page[models.CouponView]{}, err
	}
	f.Status = status
	f = f.Normalize()
	now := s.Now()
	coupons, total, err := s.repo.List(ctx, f, now)
	if err != nil {
		return models.Page[models.CouponView]{}, err
	}
	views := make([]models.CouponView, 0, len(coupons))
	for _, c := range coupons {
		views = append(views, c.ViewAt(now))
	}
	return models.Page[models.CouponView]{Items: views, Pagination: models.NewPagination(f, total)}, nil
}

// GetCoupon retrieves a coupon by ID.
func (s *CouponService) GetCoupon(ctx context.Context, id string) (*models.CouponView, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := c.ViewAt(s.Now())
	return &view, nil
}

func checkCoupon(c *models.Coupon) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if c.Code == "" {
		return models.NewValidationError("code", "is required")
	}
	if !c.Value.IsPositive() {
		return models.NewValidationError("value", "must be greater than zero")
	}
	if c.Type == models.DiscountPercentage && c.Value.GreaterThan(hundred) {
		return models.NewValidationError("value", "percentage must not exceed 100")
	}
	if err := checkLimits(c.MinOrderAmount, c.MaxDiscount); err != nil {
		return err
	}
	if !c.EndDate.After(c.StartDate) {
		return models.NewValidationError("end_date", "must be after start_date")
	}
	if c.UsageLimit > 0 && c.UsedCount > c.UsageLimit {
		return models.NewValidationError("used_count", "must not exceed usage_limit")
	}
	return nil
}

// CreateCoupon stores a new coupon. Codes are stored upper-case.
func (s *CouponService) CreateCoupon(ctx context.Context, c *models.Coupon) (*models.CouponView, error) {
	if err := checkCoupon(c); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).Info("coupon created", logger.String("coupon_id", c.ID), logger.String("code", c.Code))
	view := c.ViewAt(s.Now())
	return &view, nil
}

// UpdateCoupon replaces an existing coupon. The redemption count is kept.
func (s *CouponService) UpdateCoupon(ctx context.Context, c *models.Coupon) (*models.CouponView, error) {
	existing, err := s.repo.GetByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.UsedCount = existing.UsedCount
	c.CreatedAt = existing.CreatedAt
	if err := checkCoupon(c); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	view := c.ViewAt(s.Now())
	return &view, nil
}

// DeleteCoupon removes a coupon.
func (s *CouponService) DeleteCoupon(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ToggleCoupon flips the active flag. The displayed status follows on the next read.
func (s *CouponService) ToggleCoupon(ctx context.Context, id string) (*models.CouponView, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.IsActive = !c.IsActive
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).Info("coupon toggled", logger.String("coupon_id", id), logger.Bool("is_active", c.IsActive))
	view := c.ViewAt(s.Now())
	return &view, nil
}

// OfferService manages storefront promotions.
type OfferService struct {
	repo repositories.OfferRepository
	log  logger.Logger
	Now  func() time.Time
}

// NewOfferService creates a new OfferService.
func NewOfferService(repo repositories.OfferRepository, log logger.Logger) *OfferService {
	return &OfferService{repo: repo, log: log, Now: time.Now}
}

// ListOffers returns one page of offers with their status evaluated now.
func (s *OfferService) ListOffers(ctx context.Context, f models.ListFilter) (models.Page[models.OfferView], error) {
	status, err := checkStatusFilter(f.Status)
	if err != nil {
		return models.Page[models.OfferView]{}, err
	}
	f.Status = status
	f = f.Normalize()
	now := s.Now()
	offers, total, err := s.repo.List(ctx, f, now)
	if err != nil {
		return models.Page[models.OfferView]{}, err
	}
	views := make([]models.OfferView, 0, len(offers))
	for _, o := range offers {
		views = append(views, o.ViewAt(now))
	}
	return models.Page[models.OfferView]{Items: views, Pagination: models.NewPagination(f, total)}, nil
}

// GetOffer retrieves an offer by ID.
func (s *OfferService) GetOffer(ctx context.Context, id string) (*models.OfferView, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := o.ViewAt(s.Now())
	return &view, nil
}

func checkOffer(o *models.Offer) error {
	switch o.DiscountType {
	case models.DiscountPercentage:
		if !o.Value.IsPositive() || o.Value.GreaterThan(hundred) {
			return models.NewValidationError("value", "percentage must be between 0 and 100")
		}
	case models.DiscountFixed:
		if !o.Value.IsPositive() {
			return models.NewValidationError("value", "must be greater than zero")
		}
	}
	if err := checkLimits(o.MinOrderAmount, o.MaxDiscount); err != nil {
		return err
	}
	if !o.EndDate.After(o.StartDate) {
		return models.NewValidationError("end_date", "must be after start_date")
	}
	if o.Priority == "" {
		o.Priority = "medium"
	}
	return nil
}

// CreateOffer stores a new offer.
func (s *OfferService) CreateOffer(ctx context.Context, o *models.Offer) (*models.OfferView, error) {
	if err := checkOffer(o); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).Info("offer created", logger.String("offer_id", o.ID), logger.String("title", o.Title))
	view := o.ViewAt(s.Now())
	return &view, nil
}

// UpdateOffer replaces an existing offer. The usage count is kept.
func (s *OfferService) UpdateOffer(ctx context.Context, o *models.Offer) (*models.OfferView, error) {
	existing, err := s.repo.GetByID(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.UsageCount = existing.UsageCount
	o.CreatedAt = existing.CreatedAt
	if err := checkOffer(o); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	view := o.ViewAt(s.Now())
	return &view, nil
}

// DeleteOffer removes an offer.
func (s *OfferService) DeleteOffer(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ToggleOffer flips the active flag.
func (s *OfferService) ToggleOffer(ctx context.Context, id string) (*models.OfferView, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o.IsActive = !o.IsActive
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).Info("offer toggled", logger.String("offer_id", id), logger.Bool("is_active", o.IsActive))
	view := o.ViewAt(s.Now())
	return &view, nil
}
