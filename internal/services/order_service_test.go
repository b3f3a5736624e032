package services_test

import (
	"context"
	"regexp"
	"testing"

	"tokoadmin/internal/models"
	"tokoadmin/internal/repositories"
	"tokoadmin/internal/services"
	"tokoadmin/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderService(t *testing.T) (*services.OrderService, *repositories.Store, *MockEventPublisher, *models.Product, *models.Product) {
	t.Helper()
	store, mouse, keyboard := seedStore(t)
	events := new(MockEventPublisher)
	events.On("PublishEvent", mock.Anything).Return(nil)
	svc := services.NewOrderService(store, newCheckoutService(store), events, logger.NewNop())
	svc.Now = clock
	return svc, store, events, mouse, keyboard
}

func stockOf(t *testing.T, store *repositories.Store, id string) int {
	t.Helper()
	p, err := store.Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.CurrentStock
}

func placeOrder(t *testing.T, svc *services.OrderService, productID string, qty int) *models.Order {
	t.Helper()
	order, err := svc.CreateOrder(ctx(), services.CreateOrderRequest{
		CustomerName:   "Ada Lovelace",
		CustomerEmail:  "ada@example.com",
		Items:          []services.CartLine{{ProductID: productID, Quantity: qty}},
		ShippingMethod: "standard",
	})
	require.NoError(t, err)
	return order
}

func TestOrderService_CreateOrder(t *testing.T) {
	svc, store, events, mouse, keyboard := newOrderService(t)

	order, err := svc.CreateOrder(ctx(), services.CreateOrderRequest{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		Items: []services.CartLine{
			{ProductID: mouse.ID, Quantity: 2},
			{ProductID: keyboard.ID, Quantity: 1},
		},
		ShippingMethod: "standard",
		CouponCode:     "SAVE10",
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^ORD-2024-[0-9A-F]{8}$`), order.ID)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Empty(t, order.Stage)
	assert.Equal(t, 3, order.ItemCount())
	assert.Equal(t, "160.00", order.Subtotal.StringFixed(2))
	assert.Equal(t, "16.00", order.Discount.StringFixed(2))
	assert.Equal(t, "165.51", order.TotalAmount.StringFixed(2))

	assert.Equal(t, 8, stockOf(t, store, mouse.ID))
	assert.Equal(t, 2, stockOf(t, store, keyboard.ID))

	coupon, err := store.Coupons.GetByCode(ctx(), "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, 1, coupon.UsedCount)

	assert.Len(t, events.eventsOfType("order.created"), 1)

	stored, err := svc.GetOrderByID(ctx(), order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
}

func TestOrderService_CreateOrderReleasesStockOnShortage(t *testing.T) {
	svc, store, _, mouse, keyboard := newOrderService(t)

	_, err := svc.CreateOrder(ctx(), services.CreateOrderRequest{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		Items: []services.CartLine{
			{ProductID: mouse.ID, Quantity: 4},
			{ProductID: keyboard.ID, Quantity: 5},
		},
		ShippingMethod: "standard",
	})
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Equal(t, 10, stockOf(t, store, mouse.ID), "earlier reservations are rolled back")
	assert.Equal(t, 3, stockOf(t, store, keyboard.ID))

	page, err := svc.ListOrders(ctx(), models.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestOrderService_Lifecycle(t *testing.T) {
	svc, _, events, mouse, _ := newOrderService(t)
	order := placeOrder(t, svc, mouse.ID, 1)

	order, err := svc.ApplyAction(ctx(), order.ID, models.ActionApprove, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderProcessing, order.Status)
	assert.Equal(t, models.StagePicking, order.Stage)

	_, err = svc.ApplyAction(ctx(), order.ID, models.ActionShip, "")
	assert.ErrorIs(t, err, models.ErrStageNotReady)

	_, err = svc.SetStage(ctx(), order.ID, models.StageQualityCheck)
	assert.ErrorIs(t, err, models.ErrInvalidTransition, "stages cannot be skipped")

	for _, want := range []models.FulfillmentStage{models.StagePacking, models.StageQualityCheck, models.StageReadyToShip} {
		order, err = svc.AdvanceStage(ctx(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, want, order.Stage)
	}
	_, err = svc.AdvanceStage(ctx(), order.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	order, err = svc.ApplyAction(ctx(), order.ID, models.ActionShip, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, order.Status)

	order, err = svc.ApplyAction(ctx(), order.ID, models.ActionDeliver, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, order.Status)

	_, err = svc.ApplyAction(ctx(), order.ID, models.ActionCancel, "")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	assert.Len(t, events.eventsOfType("order.approve"), 1)
	assert.Len(t, events.eventsOfType("order.stage"), 3)
	assert.Len(t, events.eventsOfType("order.ship"), 1)
	assert.Len(t, events.eventsOfType("order.deliver"), 1)
}

func TestOrderService_RejectReleasesStock(t *testing.T) {
	svc, store, _, mouse, _ := newOrderService(t)
	order := placeOrder(t, svc, mouse.ID, 3)
	require.Equal(t, 7, stockOf(t, store, mouse.ID))

	order, err := svc.ApplyAction(ctx(), order.ID, models.ActionReject, "fraud check failed")
	require.NoError(t, err)
	assert.Equal(t, models.OrderRejected, order.Status)
	assert.Equal(t, "fraud check failed", order.Reason)
	assert.Equal(t, 10, stockOf(t, store, mouse.ID))

	_, err = svc.ApplyAction(ctx(), order.ID, models.ActionCancel, "")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.Equal(t, 10, stockOf(t, store, mouse.ID), "terminal orders release stock once")
}

func TestOrderService_ApplyActionUnknownOrder(t *testing.T) {
	svc, _, _, _, _ := newOrderService(t)
	_, err := svc.ApplyAction(ctx(), "ORD-2024-MISSING0", models.ActionApprove, "")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestOrderService_BulkApply(t *testing.T) {
	svc, _, _, mouse, _ := newOrderService(t)
	first := placeOrder(t, svc, mouse.ID, 1)
	second := placeOrder(t, svc, mouse.ID, 1)
	_, err := svc.ApplyAction(ctx(), second.ID, models.ActionApprove, "")
	require.NoError(t, err)

	results, err := svc.BulkApply(ctx(), []string{first.ID, second.ID, "missing", first.ID}, models.ActionReject, "out of region")
	require.NoError(t, err)
	require.Len(t, results, 3, "duplicate ids are applied once")

	assert.Equal(t, first.ID, results[0].ID)
	assert.Equal(t, models.OrderRejected, results[0].Status)
	assert.Empty(t, results[0].Error)

	assert.ErrorIs(t, results[1].Err, models.ErrInvalidTransition)
	assert.NotEmpty(t, results[1].Error)

	assert.ErrorIs(t, results[2].Err, models.ErrNotFound)

	got, err := svc.GetOrderByID(ctx(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderProcessing, got.Status, "failed entries are left untouched")

	_, err = svc.BulkApply(ctx(), nil, models.ActionApprove, "")
	assert.True(t, models.IsValidation(err))
}

func TestOrderService_ListOrders(t *testing.T) {
	svc, _, _, mouse, _ := newOrderService(t)
	a := placeOrder(t, svc, mouse.ID, 1)
	placeOrder(t, svc, mouse.ID, 1)
	_, err := svc.ApplyAction(ctx(), a.ID, models.ActionApprove, "")
	require.NoError(t, err)

	page, err := svc.ListOrders(ctx(), models.ListFilter{Status: string(models.OrderProcessing)})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, a.ID, page.Items[0].ID)
	assert.Equal(t, int64(1), page.Pagination.Total)

	_, err = svc.ListOrders(ctx(), models.ListFilter{Status: "lost"})
	assert.True(t, models.IsValidation(err))
}

func TestOrderService_SetPaymentStatus(t *testing.T) {
	svc, _, _, mouse, _ := newOrderService(t)
	order := placeOrder(t, svc, mouse.ID, 1)

	order, err := svc.SetPaymentStatus(ctx(), order.ID, models.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)

	_, err = svc.SetPaymentStatus(ctx(), order.ID, "refunded")
	assert.True(t, models.IsValidation(err))
}
