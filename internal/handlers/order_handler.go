package handlers

import (
	"tokoadmin/internal/middleware"
	"tokoadmin/internal/models"
	"tokoadmin/internal/services"
	"tokoadmin/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var orderSortFields = []string{"created_at", "updated_at", "total_amount", "status", "customer_name"}

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
	log      logger.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, validate *validator.Validate, log logger.Logger) *OrderHandler {
	return &OrderHandler{service: service, validate: validate, log: log}
}

// RegisterRoutes registers the storefront order route.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/orders", h.HandleCreateOrder)
}

// RegisterAdminRoutes registers the order management routes.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	orders := router.Group("/orders")
	orders.Get("/", h.HandleListOrders)
	orders.Post("/bulk/:action", h.HandleBulkAction)
	orders.Get("/:id", h.HandleGetOrder)
	orders.Post("/:id/actions/:action", h.HandleAction)
	orders.Post("/:id/stage/advance", h.HandleAdvanceStage)
	orders.Patch("/:id/stage", h.HandleSetStage)
	orders.Patch("/:id/payment", h.HandleSetPayment)
}

// HandleCreateOrder prices the cart, reserves stock and creates a pending order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.CreateOrderRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.log, "Invalid request body", err)
	}
	order, err := h.service.CreateOrder(c.UserContext(), req)
	middleware.RecordOrderOperation("create", err == nil)
	if err != nil {
		return respondError(c, h.log, "Could not create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleListOrders lists orders matching the query filter.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	f, err := listFilter(c, orderSortFields...)
	if err != nil {
		return respondError(c, h.log, "Invalid list query", err)
	}
	page, err := h.service.ListOrders(c.UserContext(), f)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve orders", err)
	}
	return c.JSON(fiber.Map{
		"orders":     page.Items,
		"pagination": page.Pagination,
	})
}

// HandleGetOrder retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// ActionRequest carries the optional reason for a reject or cancel.
type ActionRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// parseReason reads an optional action body; an empty body is allowed.
func (h *OrderHandler) parseReason(c *fiber.Ctx) (string, error) {
	if len(c.Body()) == 0 {
		return "", nil
	}
	var req ActionRequest
	if err := bind(c, h.validate, &req); err != nil {
		return "", err
	}
	return req.Reason, nil
}

// HandleAction applies a lifecycle action (approve, reject, ship, deliver, cancel) to one order.
func (h *OrderHandler) HandleAction(c *fiber.Ctx) error {
	action, err := models.ParseOrderAction(c.Params("action"))
	if err != nil {
		return respondError(c, h.log, "Unknown order action", err)
	}
	reason, err := h.parseReason(c)
	if err != nil {
		return respondError(c, h.log, "Invalid request body", err)
	}
	order, err := h.service.ApplyAction(c.UserContext(), c.Params("id"), action, reason)
	middleware.RecordOrderOperation(string(action), err == nil)
	if err != nil {
		return respondError(c, h.log, "Could not "+string(action)+" order", err)
	}
	if admin, ok := middleware.CurrentAdmin(c); ok {
		h.log.WithContext(c.UserContext()).Debug("order action by admin",
			logger.String("order_id", order.ID), logger.String("admin", admin.Username))
	}
	return c.JSON(order)
}

// BulkActionRequest lists the orders a bulk action applies to.
type BulkActionRequest struct {
	IDs    []string `json:"ids" validate:"required,min=1,dive,required"`
	Reason string   `json:"reason" validate:"max=500"`
}

// HandleBulkAction applies one action to many orders and reports each outcome.
// The response is 200 even when some orders fail.
func (h *OrderHandler) HandleBulkAction(c *fiber.Ctx) error {
	action, err := models.ParseOrderAction(c.Params("action"))
	if err != nil {
		return respondError(c, h.log, "Unknown order action", err)
	}
	var req BulkActionRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.log, "Invalid request body", err)
	}
	results, err := h.service.BulkApply(c.UserContext(), req.IDs, action, req.Reason)
	if err != nil {
		return respondError(c, h.log, "Could not apply bulk action", err)
	}

	succeeded := 0
	for _, r := range results {
		middleware.RecordOrderOperation("bulk_"+string(action), r.Err == nil)
		if r.Err == nil {
			succeeded++
		}
	}
	admin, _ := middleware.CurrentAdmin(c)
	h.log.WithContext(c.UserContext()).Info("bulk order action",
		logger.String("action", string(action)),
		logger.String("admin", admin.Username),
		logger.Int("succeeded", succeeded),
		logger.Int("failed", len(results)-succeeded))
	return c.JSON(fiber.Map{
		"action":    action,
		"results":   results,
		"succeeded": succeeded,
		"failed":    len(results) - succeeded,
	})
}

// HandleAdvanceStage moves a processing order to its next fulfillment stage.
func (h *OrderHandler) HandleAdvanceStage(c *fiber.Ctx) error {
	order, err := h.service.AdvanceStage(c.UserContext(), c.Params("id"))
	middleware.RecordOrderOperation("advance_stage", err == nil)
	if err != nil {
		return respondError(c, h.log, "Could not advance stage", err)
	}
	return c.JSON(order)
}

// StageRequest names the fulfillment stage to move to.
type StageRequest struct {
	Stage models.FulfillmentStage `json:"stage" validate:"required"`
}

// HandleSetStage moves a processing order to the requested next stage.
func (h *OrderHandler) HandleSetStage(c *fiber.Ctx) error {
	var req StageRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.log, "Invalid request body", err)
	}
	order, err := h.service.SetStage(c.UserContext(), c.Params("id"), req.Stage)
	middleware.RecordOrderOperation("set_stage", err == nil)
	if err != nil {
		return respondError(c, h.log, "Could not change stage", err)
	}
	return c.JSON(order)
}

// PaymentRequest records a payment outcome.
type PaymentRequest struct {
	PaymentStatus models.PaymentStatus `json:"payment_status" validate:"required,oneof=paid pending failed"`
}

// HandleSetPayment records the payment status of an order.
func (h *OrderHandler) HandleSetPayment(c *fiber.Ctx) error {
	var req PaymentRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.log, "Invalid request body", err)
	}
	order, err := h.service.SetPaymentStatus(c.UserContext(), c.Params("id"), req.PaymentStatus)
	if err != nil {
		return respondError(c, h.log, "Could not update payment status", err)
	}
	return c.JSON(order)
}
