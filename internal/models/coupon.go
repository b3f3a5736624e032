package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DisplayStatus is the read-time status of a coupon or offer.
type DisplayStatus string

const (
	StatusActive   DisplayStatus = "Active"
	StatusInactive DisplayStatus = "Inactive"
	StatusExpired  DisplayStatus = "Expired"
)

// DeriveDisplayStatus computes the status shown for a promotion at now.
func DeriveDisplayStatus(isActive bool, endDate, now time.Time) DisplayStatus {
	if !isActive {
		return StatusInactive
	}
	if endDate.Before(now) {
		return StatusExpired
	}
	return StatusActive
}

// Validity holds the fields every promotion derives its display status from.
type Validity struct {
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	IsActive  bool      `json:"is_active"`
}

// DisplayStatus evaluates the validity at now.
func (v Validity) DisplayStatus(now time.Time) DisplayStatus {
	return DeriveDisplayStatus(v.IsActive, v.EndDate, now)
}

// DiscountKind values shared by coupons and offers.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
	DiscountBOGO       = "bogo"
	DiscountShipping   = "shipping"
)

// Coupon is a redeemable discount code.
type Coupon struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Code           string          `json:"code" gorm:"uniqueIndex:idx_coupons_code_live,where:deleted_at IS NULL;type:varchar(64)" validate:"required,min=3,max=64"`
	Type           string          `json:"type" gorm:"type:varchar(20)" validate:"required,oneof=percentage fixed"`
	Value          decimal.Decimal `json:"value" gorm:"type:decimal(12,2)"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount" gorm:"type:decimal(12,2)"`
	MaxDiscount    decimal.Decimal `json:"max_discount" gorm:"type:decimal(12,2)"`
	UsageLimit     int             `json:"usage_limit" validate:"gte=0"`
	UsedCount      int             `json:"used_count" validate:"gte=0"`
	IsPublic       bool            `json:"is_public"`
	Validity       `gorm:"embedded"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// UsageRatio is usedCount/usageLimit, or 0 when the coupon has no limit.
func (c Coupon) UsageRatio() float64 {
	if c.UsageLimit <= 0 {
		return 0
	}
	return float64(c.UsedCount) / float64(c.UsageLimit)
}

// Exhausted reports whether a limited coupon has no redemptions left.
func (c Coupon) Exhausted() bool {
	return c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit
}

// DiscountFor computes the discount this coupon grants on subtotal at now.
func (c Coupon) DiscountFor(subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if st := c.DisplayStatus(now); st != StatusActive {
		return decimal.Zero, NewValidationError("coupon_code", "coupon %s is %s", c.Code, st)
	}
	if c.Exhausted() {
		return decimal.Zero, NewValidationError("coupon_code", "coupon %s has reached its usage limit", c.Code)
	}
	if subtotal.LessThan(c.MinOrderAmount) {
		return decimal.Zero, NewValidationError("coupon_code", "order amount is below the coupon minimum of %s", c.MinOrderAmount.StringFixed(2))
	}

	var discount decimal.Decimal
	switch c.Type {
	case DiscountPercentage:
		discount = subtotal.Mul(c.Value).Div(decimal.NewFromInt(100))
		if c.MaxDiscount.IsPositive() && discount.GreaterThan(c.MaxDiscount) {
			discount = c.MaxDiscount
		}
	case DiscountFixed:
		discount = c.Value
	default:
		return decimal.Zero, NewValidationError("type", "unsupported coupon type %q", c.Type)
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return discount.Round(2), nil
}

// CouponView is a coupon as rendered at a point in time.
type CouponView struct {
	Coupon
	Status     DisplayStatus `json:"status"`
	UsageRatio float64       `json:"usage_ratio"`
}

// ViewAt renders c with its status evaluated at now.
func (c Coupon) ViewAt(now time.Time) CouponView {
	return CouponView{Coupon: c, Status: c.DisplayStatus(now), UsageRatio: c.UsageRatio()}
}

// Offer is a storefront promotion.
type Offer struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title          string          `json:"title" validate:"required,min=3,max=120"`
	Description    string          `json:"description" validate:"omitempty,max=500"`
	DiscountType   string          `json:"discount_type" gorm:"type:varchar(20)" validate:"required,oneof=percentage fixed bogo shipping"`
	Value          decimal.Decimal `json:"value" gorm:"type:decimal(12,2)"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount" gorm:"type:decimal(12,2)"`
	MaxDiscount    decimal.Decimal `json:"max_discount" gorm:"type:decimal(12,2)"`
	UsageLimit     int             `json:"usage_limit" validate:"gte=0"`
	UsageCount     int             `json:"usage_count" validate:"gte=0"`
	TargetAudience string          `json:"target_audience"`
	Categories     []string        `json:"categories" gorm:"serializer:json"`
	Priority       string          `json:"priority" gorm:"type:varchar(10)" validate:"omitempty,oneof=high medium low"`
	ConversionRate float64         `json:"conversion_rate" validate:"gte=0,lte=100"`
	IsPublic       bool            `json:"is_public"`
	Validity       `gorm:"embedded"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// OfferView is an offer as rendered at a point in time.
type OfferView struct {
	Offer
	Status DisplayStatus `json:"status"`
}

// ViewAt renders o with its status evaluated at now.
func (o Offer) ViewAt(now time.Time) OfferView {
	return OfferView{Offer: o, Status: o.DisplayStatus(now)}
}

