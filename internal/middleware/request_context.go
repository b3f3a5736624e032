package middleware

import (
	"context"
	"time"

	"tokoadmin/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// RequestContext copies the request ID set by the requestid middleware into the
// request's user context so loggers can pick it up. A positive timeout bounds the
// context handed to services.
func RequestContext(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if id := c.GetRespHeader(fiber.HeaderXRequestID); id != "" {
			ctx = logger.ContextWithRequestID(ctx, id)
		}
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}
