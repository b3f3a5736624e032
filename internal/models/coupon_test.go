package models_test

import (
	"testing"
	"time"

	"tokoadmin/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveDisplayStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	for _, end := range []time.Time{now.Add(-48 * time.Hour), now, now.Add(48 * time.Hour)} {
		assert.Equal(t, models.StatusInactive, models.DeriveDisplayStatus(false, end, now))
	}
	assert.Equal(t, models.StatusExpired, models.DeriveDisplayStatus(true, now.Add(-time.Second), now))
	assert.Equal(t, models.StatusActive, models.DeriveDisplayStatus(true, now, now))
	assert.Equal(t, models.StatusActive, models.DeriveDisplayStatus(true, now.Add(time.Hour), now))
}

func TestCoupon_ViewIsRecomputed(t *testing.T) {
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	c := models.Coupon{Code: "SUMMER", Validity: models.Validity{EndDate: end, IsActive: true}}

	assert.Equal(t, models.StatusActive, c.ViewAt(end.Add(-time.Hour)).Status)
	assert.Equal(t, models.StatusExpired, c.ViewAt(end.Add(time.Hour)).Status)
}

func TestCoupon_UsageRatio(t *testing.T) {
	assert.Equal(t, 0.0, models.Coupon{UsedCount: 5}.UsageRatio())
	assert.Equal(t, 0.5, models.Coupon{UsageLimit: 10, UsedCount: 5}.UsageRatio())
	// over-used coupons are reported as such
	assert.Equal(t, 1.5, models.Coupon{UsageLimit: 10, UsedCount: 15}.UsageRatio())
}

func TestCoupon_DiscountFor(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	valid := models.Validity{StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0), IsActive: true}

	pct := models.Coupon{Code: "TEN", Type: models.DiscountPercentage, Value: decimal.NewFromInt(10), Validity: valid}
	d, err := pct.DiscountFor(decimal.NewFromInt(160), now)
	require.NoError(t, err)
	assert.Equal(t, "16.00", d.StringFixed(2))

	pct.MaxDiscount = decimal.NewFromInt(5)
	d, err = pct.DiscountFor(decimal.NewFromInt(160), now)
	require.NoError(t, err)
	assert.Equal(t, "5.00", d.StringFixed(2))

	fixed := models.Coupon{Code: "FIVE", Type: models.DiscountFixed, Value: decimal.NewFromInt(50), Validity: valid}
	d, err = fixed.DiscountFor(decimal.NewFromInt(30), now)
	require.NoError(t, err)
	assert.Equal(t, "30.00", d.StringFixed(2))

	fixed.MinOrderAmount = decimal.NewFromInt(100)
	_, err = fixed.DiscountFor(decimal.NewFromInt(30), now)
	assert.True(t, models.IsValidation(err))

	exhausted := pct
	exhausted.UsageLimit, exhausted.UsedCount = 3, 3
	_, err = exhausted.DiscountFor(decimal.NewFromInt(160), now)
	assert.True(t, models.IsValidation(err))

	inactive := pct
	inactive.IsActive = false
	_, err = inactive.DiscountFor(decimal.NewFromInt(160), now)
	assert.True(t, models.IsValidation(err))
}
