package handlers

import (
	"tokoadmin/internal/services"
	"tokoadmin/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler prices carts for the storefront.
type CheckoutHandler struct {
	service  *services.CheckoutService
	validate *validator.Validate
	log      logger.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService, validate *validator.Validate, log logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: service, validate: validate, log: log}
}

// RegisterRoutes registers the checkout routes.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkout := router.Group("/checkout")
	checkout.Get("/shipping-methods", h.HandleShippingMethods)
	checkout.Post("/quote", h.HandleQuote)
}

// HandleQuote returns the priced breakdown of a cart without creating an order.
func (h *CheckoutHandler) HandleQuote(c *fiber.Ctx) error {
	var req services.QuoteRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.log, "Invalid request body", err)
	}
	quote, err := h.service.Quote(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, "Could not price cart", err)
	}
	return c.JSON(quote)
}

// HandleShippingMethods lists the configured shipping methods.
func (h *CheckoutHandler) HandleShippingMethods(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"shipping_methods": h.service.ShippingMethods()})
}
