package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tokoadmin/internal/models"
	"tokoadmin/internal/repositories"
	"tokoadmin/pkg/logger"

	"github.com/google/uuid"
)

// CreateOrderRequest is a checkout submitted by a customer.
type CreateOrderRequest struct {
	CustomerName   string     `json:"customer_name" validate:"required,max=100"`
	CustomerEmail  string     `json:"customer_email" validate:"required,email"`
	Items          []CartLine `json:"items" validate:"required,min=1,dive"`
	ShippingMethod string     `json:"shipping_method" validate:"required"`
	CouponCode     string     `json:"coupon_code"`
}

// BulkResult is the outcome of one order in a bulk action.
type BulkResult struct {
	ID     string             `json:"id"`
	Status models.OrderStatus `json:"status,omitempty"`
	Error  string             `json:"error,omitempty"`
	Err    error              `json:"-"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	couponRepo  repositories.CouponRepository
	checkout    *CheckoutService
	events      EventPublisher
	log         logger.Logger
	Now         func() time.Time

	// mu serialises read-modify-write cycles on orders and stock reservations.
	mu sync.Mutex
}

// NewOrderService creates a new OrderService. events may be nil.
func NewOrderService(store *repositories.Store, checkout *CheckoutService, events EventPublisher, log logger.Logger) *OrderService {
	return &OrderService{
		orderRepo:   store.Orders,
		productRepo: store.Products,
		couponRepo:  store.Coupons,
		checkout:    checkout,
		events:      events,
		log:         log,
		Now:         time.Now,
	}
}

// ListOrders returns one page of orders matching f.
func (s *OrderService) ListOrders(ctx context.Context, f models.ListFilter) (models.Page[models.Order], error) {
	if f.Status != "" && !models.OrderStatus(f.Status).Valid() {
		return models.Page[models.Order]{}, models.NewValidationError("status", "unknown order status %q", f.Status)
	}
	f = f.Normalize()
	orders, total, err := s.orderRepo.List(ctx, f)
	if err != nil {
		return models.Page[models.Order]{}, err
	}
	return models.Page[models.Order]{Items: orders, Pagination: models.NewPagination(f, total)}, nil
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func newOrderID(now time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%d-%s", now.Year(), short)
}

// CreateOrder prices the cart, reserves stock and stores a pending order.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	quote, err := s.checkout.Quote(ctx, QuoteRequest{Items: req.Items, ShippingMethod: req.ShippingMethod, CouponCode: req.CouponCode})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	order := &models.Order{
		ID:             newOrderID(now),
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		Subtotal:       quote.Totals.Subtotal,
		Discount:       quote.Totals.Discount,
		Tax:            quote.Totals.Tax,
		Shipping:       quote.Totals.Shipping,
		TotalAmount:    quote.Totals.Total,
		ShippingMethod: quote.ShippingMethod,
		CouponCode:     quote.CouponCode,
		Status:         models.OrderPending,
		PaymentStatus:  models.PaymentPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, line := range quote.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			Price:       line.UnitPrice,
		})
	}

	reserved := make([]models.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		if _, err := s.productRepo.AdjustStock(ctx, item.ProductID, -item.Quantity, now); err != nil {
			s.releaseStock(ctx, reserved, now)
			return nil, err
		}
		reserved = append(reserved, item)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.releaseStock(ctx, reserved, now)
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	if order.CouponCode != "" {
		if err := s.couponRepo.IncrementUsage(ctx, order.CouponCode); err != nil {
			s.log.WithContext(ctx).Warn("failed to record coupon usage",
				logger.String("order_id", order.ID), logger.String("coupon", order.CouponCode), logger.Error(err))
		}
	}

	s.log.WithContext(ctx).Info("order created",
		logger.String("order_id", order.ID),
		logger.Int("items", order.ItemCount()),
		logger.String("total", order.TotalAmount.StringFixed(2)))
	publish(ctx, s.events, s.log, models.Event{
		Type:     "order.created",
		OrderID:  order.ID,
		Status:   string(order.Status),
		Total:    &order.TotalAmount,
		Occurred: now,
	})
	return order, nil
}

// releaseStock returns reserved quantities to the catalog. Errors are logged.
func (s *OrderService) releaseStock(ctx context.Context, items []models.OrderItem, now time.Time) {
	for _, item := range items {
		if _, err := s.productRepo.AdjustStock(ctx, item.ProductID, item.Quantity, now); err != nil {
			s.log.WithContext(ctx).Error("failed to release stock",
				logger.String("product_id", item.ProductID), logger.Int("quantity", item.Quantity), logger.Error(err))
		}
	}
}

// ApplyAction runs action against order id. Unknown ids fail with ErrNotFound.
func (s *OrderService) ApplyAction(ctx context.Context, id string, action models.OrderAction, reason string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(ctx, id, action, reason)
}

func (s *OrderService) applyLocked(ctx context.Context, id string, action models.OrderAction, reason string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	if err := order.Apply(action, reason, now); err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}
	if order.Status == models.OrderCancelled || order.Status == models.OrderRejected {
		s.releaseStock(ctx, order.Items, now)
	}

	s.log.WithContext(ctx).Info("order transitioned",
		logger.String("order_id", id),
		logger.String("action", string(action)),
		logger.String("status", string(order.Status)))
	publish(ctx, s.events, s.log, models.OrderEvent(action, order, now))
	return order, nil
}

// BulkApply runs action against every id independently and reports each outcome.
// A failure on one order does not undo or block the others.
func (s *OrderService) BulkApply(ctx context.Context, ids []string, action models.OrderAction, reason string) ([]BulkResult, error) {
	if len(ids) == 0 {
		return nil, models.NewValidationError("ids", "at least one order id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]BulkResult, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := ctx.Err(); err != nil {
			results = append(results, BulkResult{ID: id, Error: err.Error(), Err: err})
			continue
		}
		order, err := s.applyLocked(ctx, id, action, reason)
		if err != nil {
			results = append(results, BulkResult{ID: id, Error: err.Error(), Err: err})
			continue
		}
		results = append(results, BulkResult{ID: id, Status: order.Status})
	}
	return results, nil
}

// AdvanceStage moves a processing order to its next fulfillment stage.
func (s *OrderService) AdvanceStage(ctx context.Context, id string) (*models.Order, error) {
	return s.changeStage(ctx, id, func(o *models.Order, now time.Time) error { return o.AdvanceStage(now) })
}

// SetStage moves a processing order to target, which must directly follow its current stage.
func (s *OrderService) SetStage(ctx context.Context, id string, target models.FulfillmentStage) (*models.Order, error) {
	return s.changeStage(ctx, id, func(o *models.Order, now time.Time) error { return o.SetStage(target, now) })
}

func (s *OrderService) changeStage(ctx context.Context, id string, change func(*models.Order, time.Time) error) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	if err := change(order, now); err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}
	publish(ctx, s.events, s.log, models.Event{
		Type:     "order.stage",
		OrderID:  order.ID,
		Status:   string(order.Status),
		Stage:    string(order.Stage),
		Occurred: now,
	})
	return order, nil
}

// SetPaymentStatus records the payment outcome of an order.
func (s *OrderService) SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Order, error) {
	switch status {
	case models.PaymentPaid, models.PaymentPending, models.PaymentFailed:
	default:
		return nil, models.NewValidationError("payment_status", "unknown payment status %q", status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() && order.Status != models.OrderDelivered {
		return nil, fmt.Errorf("order %s: %w: order is %s", id, models.ErrInvalidTransition, order.Status)
	}
	order.PaymentStatus = status
	order.UpdatedAt = s.Now()
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}
	return order, nil
}

// IsConflict reports whether err is a state conflict rather than a bad request or a fault.
func IsConflict(err error) bool {
	return errors.Is(err, models.ErrInvalidTransition) ||
		errors.Is(err, models.ErrStageNotReady) ||
		errors.Is(err, models.ErrInsufficientStock) ||
		errors.Is(err, models.ErrDuplicate)
}
