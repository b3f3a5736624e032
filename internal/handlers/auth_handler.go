package handlers

import (
	"context"

	"tokoadmin/internal/models"
	"tokoadmin/internal/services"
	"tokoadmin/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	log         logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, validate *validator.Validate, log logger.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, validate: validate, log: log}
}

// RegisterRoutes registers the public authentication routes. Public
// registration only succeeds while no account exists.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegisterFirstAdmin)
	authRoutes.Post("/login", h.HandleLogin)
}

// RegisterAdminRoutes registers account creation for authenticated admins.
func (h *AuthHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Post("/users", h.HandleRegister)
}

// HandleRegisterFirstAdmin creates the initial admin account.
func (h *AuthHandler) HandleRegisterFirstAdmin(c *fiber.Ctx) error {
	return h.register(c, h.authService.RegisterFirstAdmin)
}

// HandleRegister lets an authenticated admin create another account.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	return h.register(c, h.authService.RegisterUser)
}

func (h *AuthHandler) register(c *fiber.Ctx, create func(context.Context, *models.User) error) error {
	var user models.User
	if err := bind(c, h.validate, &user); err != nil {
		return respondError(c, h.log, "Invalid request body", err)
	}
	user.ID = ""
	if err := create(c.UserContext(), &user); err != nil {
		return respondError(c, h.log, "Registration failed", err)
	}

	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, h.log, "Invalid request body", err)
	}
	token, err := h.authService.LoginUser(c.UserContext(), req.Username, req.Password)
	if err != nil {
		h.log.WithContext(c.UserContext()).Info("login failed", logger.String("username", req.Username))
		return respondError(c, h.log, "Authentication failed", err)
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}
