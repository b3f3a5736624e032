package middleware

import (
	"errors"
	"strings"

	"tokoadmin/internal/services"
	"tokoadmin/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const adminKey = "admin"

var (
	errMissingAuth = errors.New("authorization header is required")
	errAuthFormat  = errors.New("authorization header format must be 'Bearer <token>'")
)

// Admin identifies the console user behind an authenticated request.
type Admin struct {
	UserID   string
	Username string
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingAuth
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errAuthFormat
	}
	return strings.TrimSpace(token), nil
}

// AuthRequired rejects requests without a valid admin JWT and stores the
// caller's identity for later handlers.
func AuthRequired(authService *services.AuthService, log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
				"error":   err.Error(),
			})
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			log.WithContext(c.UserContext()).Info("rejected admin token",
				logger.String("path", c.Path()), logger.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		admin := Admin{}
		admin.UserID, _ = claims["user_id"].(string)
		admin.Username, _ = claims["username"].(string)
		c.Locals(adminKey, admin)
		return c.Next()
	}
}

// CurrentAdmin returns the identity stored by AuthRequired.
func CurrentAdmin(c *fiber.Ctx) (Admin, bool) {
	admin, ok := c.Locals(adminKey).(Admin)
	return admin, ok
}
