package middleware_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tokoadmin/internal/middleware"
	"tokoadmin/internal/models"
	"tokoadmin/internal/repositories"
	"tokoadmin/internal/services"
	"tokoadmin/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	auth := services.NewAuthService(repositories.NewMemoryUserRepository(), "test_jwt_secret", logger.NewNop())
	require.NoError(t, auth.RegisterUser(context.Background(), &models.User{
		Username: "admin", Email: "admin@example.com", Password: "secret123",
	}))
	token, err := auth.LoginUser(context.Background(), "admin", "secret123")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/admin/whoami", middleware.AuthRequired(auth, logger.NewNop()), func(c *fiber.Ctx) error {
		admin, ok := middleware.CurrentAdmin(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"username": admin.Username, "user_id": admin.UserID})
	})
	return app, token
}

func TestAuthRequired(t *testing.T) {
	app, token := authApp(t)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"forged token", "Bearer not.a.token", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/whoami", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			var decoded map[string]string
			require.NoError(t, json.Unmarshal(body, &decoded))
			if tt.status == http.StatusOK {
				assert.Equal(t, "admin", decoded["username"])
				assert.NotEmpty(t, decoded["user_id"])
			} else {
				assert.NotEmpty(t, decoded["message"])
				assert.NotEmpty(t, decoded["error"])
			}
		})
	}
}

func TestCurrentAdminWithoutAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		_, ok := middleware.CurrentAdmin(c)
		return c.JSON(fiber.Map{"ok": ok})
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"ok":false}`, string(body))
}
