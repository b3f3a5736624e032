package handlers

import (
	"tokoadmin/internal/models"
	"tokoadmin/internal/services"
	"tokoadmin/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	couponSortFields = []string{"code", "end_date", "start_date", "used_count", "created_at"}
	offerSortFields  = []string{"title", "end_date", "start_date", "priority", "conversion_rate", "created_at"}
)

// PromotionHandler handles HTTP requests for coupons and offers.
type PromotionHandler struct {
	coupons  *services.CouponService
	offers   *services.OfferService
	validate *validator.Validate
	log      logger.Logger
}

// NewPromotionHandler creates a new PromotionHandler.
func NewPromotionHandler(coupons *services.CouponService, offers *services.OfferService, validate *validator.Validate, log logger.Logger) *PromotionHandler {
	return &PromotionHandler{coupons: coupons, offers: offers, validate: validate, log: log}
}

// RegisterAdminRoutes registers the coupon and offer management routes.
func (h *PromotionHandler) RegisterAdminRoutes(router fiber.Router) {
	coupons := router.Group("/coupons")
	coupons.Get("/", h.HandleListCoupons)
	coupons.Post("/", h.HandleCreateCoupon)
	coupons.Get("/:id", h.HandleGetCoupon)
	coupons.Put("/:id", h.HandleUpdateCoupon)
	coupons.Delete("/:id", h.HandleDeleteCoupon)
	coupons.Patch("/:id/toggle", h.HandleToggleCoupon)

	offers := router.Group("/offers")
	offers.Get("/", h.HandleListOffers)
	offers.Post("/", h.HandleCreateOffer)
	offers.Get("/:id", h.HandleGetOffer)
	offers.Put("/:id", h.HandleUpdateOffer)
	offers.Delete("/:id", h.HandleDeleteOffer)
	offers.Patch("/:id/toggle", h.HandleToggleOffer)
}

// HandleListCoupons lists coupons with their derived display status.
func (h *PromotionHandler) HandleListCoupons(c *fiber.Ctx) error {
	f, err := listFilter(c, couponSortFields...)
	if err != nil {
		return respondError(c, h.log, "Invalid list query", err)
	}
	page, err := h.coupons.ListCoupons(c.UserContext(), f)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve coupons", err)
	}
	return c.JSON(fiber.Map{"coupons": page.Items, "pagination": page.Pagination})
}

// HandleGetCoupon retrieves a single coupon by its ID.
func (h *PromotionHandler) HandleGetCoupon(c *fiber.Ctx) error {
	view, err := h.coupons.GetCoupon(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve coupon", err)
	}
	return c.JSON(view)
}

// HandleCreateCoupon creates a coupon; the code is stored uppercased.
func (h *PromotionHandler) HandleCreateCoupon(c *fiber.Ctx) error {
	var coupon models.Coupon
	if err := bind(c, h.validate, &coupon); err != nil {
		return respondError(c, h.log, "Invalid request body", err)
	}
	coupon.ID, coupon.UsedCount = "", 0
	view, err := h.coupons.CreateCoupon(c.UserContext(), &coupon)
	if err != nil {
		return respondError(c, h.log, "Could not create coupon", err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// HandleUpdateCoupon replaces a coupon, keeping its usage count.
func (h *PromotionHandler) HandleUpdateCoupon(c *fiber.Ctx) error {
	var coupon models.Coupon
	if err := bind(c, h.validate, &coupon); err != nil {
		return respondError(c, h.log, "Invalid request body", err)
	}
	coupon.ID = c.Params("id")
	view, err := h.coupons.UpdateCoupon(c.UserContext(), &coupon)
	if err != nil {
		return respondError(c, h.log, "Could not update coupon", err)
	}
	return c.JSON(view)
}

// HandleDeleteCoupon deletes a coupon.
func (h *PromotionHandler) HandleDeleteCoupon(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.coupons.DeleteCoupon(c.UserContext(), id); err != nil {
		return respondError(c, h.log, "Could not delete coupon", err)
	}
	return c.JSON(fiber.Map{"message": "Coupon deleted successfully", "id": id})
}

// HandleToggleCoupon flips a coupon between active and inactive.
func (h *PromotionHandler) HandleToggleCoupon(c *fiber.Ctx) error {
	view, err := h.coupons.ToggleCoupon(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not toggle coupon", err)
	}
	return c.JSON(view)
}

// HandleListOffers lists offers with their derived display status.
func (h *PromotionHandler) HandleListOffers(c *fiber.Ctx) error {
	f, err := listFilter(c, offerSortFields...)
	if err != nil {
		return respondError(c, h.log, "Invalid list query", err)
	}
	page, err := h.offers.ListOffers(c.UserContext(), f)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve offers", err)
	}
	return c.JSON(fiber.Map{"offers": page.Items, "pagination": page.Pagination})
}

// HandleGetOffer retrieves a single offer by its ID.
func (h *PromotionHandler) HandleGetOffer(c *fiber.Ctx) error {
	view, err := h.offers.GetOffer(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve offer", err)
	}
	return c.JSON(view)
}

// HandleCreateOffer creates an offer; priority defaults to medium.
func (h *PromotionHandler) HandleCreateOffer(c *fiber.Ctx) error {
	var offer models.Offer
	if err := bind(c, h.validate, &offer); err != nil {
		return respondError(c, h.log, "Invalid request body", err)
	}
	offer.ID, offer.UsageCount = "", 0
	view, err := h.offers.CreateOffer(c.UserContext(), &offer)
	if err != nil {
		return respondError(c, h.log, "Could not create offer", err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// HandleUpdateOffer replaces an offer, keeping its usage count.
func (h *PromotionHandler) HandleUpdateOffer(c *fiber.Ctx) error {
	var offer models.Offer
	if err := bind(c, h.validate, &offer); err != nil {
		return respondError(c, h.log, "Invalid request body", err)
	}
	offer.ID = c.Params("id")
	view, err := h.offers.UpdateOffer(c.UserContext(), &offer)
	if err != nil {
		return respondError(c, h.log, "Could not update offer", err)
	}
	return c.JSON(view)
}

// HandleDeleteOffer deletes an offer.
func (h *PromotionHandler) HandleDeleteOffer(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.offers.DeleteOffer(c.UserContext(), id); err != nil {
		return respondError(c, h.log, "Could not delete offer", err)
	}
	return c.JSON(fiber.Map{"message": "Offer deleted successfully", "id": id})
}

// HandleToggleOffer flips an offer between active and inactive.
func (h *PromotionHandler) HandleToggleOffer(c *fiber.Ctx) error {
	view, err := h.offers.ToggleOffer(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not toggle offer", err)
	}
	return c.JSON(view)
}
