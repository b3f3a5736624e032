package handlers

import (
	"tokoadmin/internal/middleware"
	"tokoadmin/internal/models"
	"tokoadmin/internal/services"
	"tokoadmin/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var productSortFields = []string{"name", "sku", "price", "current_stock", "created_at", "last_updated"}

// ProductHandler handles HTTP requests for products and stock.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	log      logger.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, validate *validator.Validate, log logger.Logger) *ProductHandler {
	return &ProductHandler{service: service, validate: validate, log: log}
}

// RegisterRoutes registers the public catalog routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleListProducts)
	router.Get("/products/:id", h.HandleGetProduct)
	router.Get("/categories", h.HandleCategories)
	router.Get("/brands", h.HandleBrands)
}

// RegisterAdminRoutes registers the catalog management routes.
func (h *ProductHandler) RegisterAdminRoutes(router fiber.Router) {
	products := router.Group("/products")
	products.Post("/", h.HandleCreateProduct)
	products.Put("/:id", h.HandleUpdateProduct)
	products.Delete("/:id", h.HandleDeleteProduct)
	products.Patch("/:id/stock", h.HandleUpdateStock)
}

// HandleListProducts lists products matching the query filter.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	f, err := listFilter(c, productSortFields...)
	if err != nil {
		return respondError(c, h.log, "Invalid list query", err)
	}
	page, err := h.service.ListProducts(c.UserContext(), f)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve products", err)
	}
	return c.JSON(fiber.Map{
		"products":   page.Items,
		"pagination": page.Pagination,
	})
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := bind(c, h.validate, &product); err != nil {
		return respondError(c, h.log, "Invalid request body", err)
	}
	product.ID = ""
	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		return respondError(c, h.log, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := bind(c, h.validate, &product); err != nil {
		return respondError(c, h.log, "Invalid request body", err)
	}
	product.ID = c.Params("id")
	if err := h.service.UpdateProduct(c.UserContext(), &product); err != nil {
		return respondError(c, h.log, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return respondError(c, h.log, "Could not delete product", err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully", "id": id})
}

// StockUpdateRequest sets the absolute stock level of a product.
type StockUpdateRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// HandleUpdateStock replaces a product's stock level.
func (h *ProductHandler) HandleUpdateStock(c *fiber.Ctx) error {
	var req StockUpdateRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.log, "Invalid request body", err)
	}
	product, err := h.service.UpdateStock(c.UserContext(), c.Params("id"), *req.Quantity)
	if err != nil {
		return respondError(c, h.log, "Could not update stock", err)
	}
	middleware.RecordStockUpdate(string(product.StockStatus()))
	return c.JSON(product)
}

// HandleCategories lists the distinct product categories.
func (h *ProductHandler) HandleCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not retrieve categories", err)
	}
	return c.JSON(categories)
}

// HandleBrands lists the distinct product brands.
func (h *ProductHandler) HandleBrands(c *fiber.Ctx) error {
	brands, err := h.service.Brands(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not retrieve brands", err)
	}
	return c.JSON(brands)
}
