package services_test

import (
	"testing"

	"tokoadmin/internal/models"
	"tokoadmin/internal/repositories"
	"tokoadmin/internal/services"
	"tokoadmin/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validity(active bool, endOffsetDays int) models.Validity {
	return models.Validity{
		StartDate: fixedNow.AddDate(0, 0, -30),
		EndDate:   fixedNow.AddDate(0, 0, endOffsetDays),
		IsActive:  active,
	}
}

func TestCouponService_CreateAndToggle(t *testing.T) {
	svc := services.NewCouponService(repositories.NewMemoryCouponRepository(), logger.NewNop())
	svc.Now = clock

	view, err := svc.CreateCoupon(ctx(), &models.Coupon{
		Code: " spring20 ", Type: models.DiscountPercentage, Value: dec("20"), UsageLimit: 100,
		Validity: validity(true, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, "SPRING20", view.Code)
	assert.Equal(t, models.StatusActive, view.Status)

	view, err = svc.ToggleCoupon(ctx(), view.ID)
	require.NoError(t, err)
	assert.False(t, view.IsActive)
	assert.Equal(t, models.StatusInactive, view.Status)

	view, err = svc.ToggleCoupon(ctx(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, view.Status)

	_, err = svc.CreateCoupon(ctx(), &models.Coupon{
		Code: "SPRING20", Type: models.DiscountFixed, Value: dec("5"), Validity: validity(true, 10),
	})
	assert.ErrorIs(t, err, models.ErrDuplicate)

	_, err = svc.ToggleCoupon(ctx(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCouponService_CreateRejectsInvalid(t *testing.T) {
	svc := services.NewCouponService(repositories.NewMemoryCouponRepository(), logger.NewNop())

	tests := []struct {
		name   string
		coupon models.Coupon
		field  string
	}{
		{"zero value", models.Coupon{Code: "A1B", Type: models.DiscountFixed, Validity: validity(true, 1)}, "value"},
		{"percentage over 100", models.Coupon{Code: "A1B", Type: models.DiscountPercentage, Value: dec("120"), Validity: validity(true, 1)}, "value"},
		{"negative minimum", models.Coupon{Code: "A1B", Type: models.DiscountFixed, Value: dec("5"), MinOrderAmount: dec("-1"), Validity: validity(true, 1)}, "min_order_amount"},
		{"ends before start", models.Coupon{Code: "A1B", Type: models.DiscountFixed, Value: dec("5"), Validity: validity(true, -40)}, "end_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.coupon
			_, err := svc.CreateCoupon(ctx(), &c)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCouponService_ListByDisplayStatus(t *testing.T) {
	repo := repositories.NewMemoryCouponRepository()
	svc := services.NewCouponService(repo, logger.NewNop())
	svc.Now = clock

	for _, c := range []models.Coupon{
		{Code: "LIVE", Type: models.DiscountFixed, Value: dec("5"), Validity: validity(true, 5)},
		{Code: "PAUSED", Type: models.DiscountFixed, Value: dec("5"), Validity: validity(false, 5)},
		{Code: "OLD", Type: models.DiscountFixed, Value: dec("5"), Validity: validity(true, -1)},
		{Code: "OLDPAUSED", Type: models.DiscountFixed, Value: dec("5"), Validity: validity(false, -1)},
	} {
		c := c
		require.NoError(t, repo.Create(ctx(), &c))
	}

	codes := func(status string) []string {
		page, err := svc.ListCoupons(ctx(), models.ListFilter{Status: status, Sort: models.Sort{Field: "code", Direction: models.SortAsc}})
		require.NoError(t, err)
		out := make([]string, 0, len(page.Items))
		for _, v := range page.Items {
			out = append(out, v.Code)
		}
		return out
	}

	assert.Equal(t, []string{"LIVE"}, codes("active"))
	assert.Equal(t, []string{"OLDPAUSED", "PAUSED"}, codes("Inactive"))
	assert.Equal(t, []string{"OLD"}, codes("expired"))
	assert.Len(t, codes(""), 4)

	_, err := svc.ListCoupons(ctx(), models.ListFilter{Status: "archived"})
	assert.True(t, models.IsValidation(err))
}

func TestCouponService_UpdateKeepsRedemptions(t *testing.T) {
	repo := repositories.NewMemoryCouponRepository()
	svc := services.NewCouponService(repo, logger.NewNop())

	created, err := svc.CreateCoupon(ctx(), &models.Coupon{Code: "KEEP", Type: models.DiscountFixed, Value: dec("5"), Validity: validity(true, 5)})
	require.NoError(t, err)
	require.NoError(t, repo.IncrementUsage(ctx(), "KEEP"))

	updated, err := svc.UpdateCoupon(ctx(), &models.Coupon{ID: created.ID, Code: "KEEP", Type: models.DiscountFixed, Value: dec("7"), Validity: validity(true, 5)})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.UsedCount)
	assert.True(t, dec("7").Equal(updated.Value))
}

func TestOfferService(t *testing.T) {
	svc := services.NewOfferService(repositories.NewMemoryOfferRepository(), logger.NewNop())
	svc.Now = clock

	view, err := svc.CreateOffer(ctx(), &models.Offer{
		Title: "Weekend sale", DiscountType: models.DiscountPercentage, Value: dec("15"),
		Categories: []string{"accessories"}, Validity: validity(true, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, "medium", view.Priority)
	assert.Equal(t, models.StatusActive, view.Status)

	view, err = svc.ToggleOffer(ctx(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, view.Status)

	page, err := svc.ListOffers(ctx(), models.ListFilter{Category: "accessories"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Weekend sale", page.Items[0].Title)

	_, err = svc.CreateOffer(ctx(), &models.Offer{Title: "Broken", DiscountType: models.DiscountPercentage, Value: dec("150"), Validity: validity(true, 2)})
	assert.True(t, models.IsValidation(err))

	require.NoError(t, svc.DeleteOffer(ctx(), view.ID))
	_, err = svc.GetOffer(ctx(), view.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
