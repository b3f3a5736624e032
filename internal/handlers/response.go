package handlers

import (
	"errors"
	"fmt"

	"tokoadmin/internal/models"
	"tokoadmin/internal/services"
	"tokoadmin/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// errBadBody marks a request body that could not be parsed.
var errBadBody = errors.New("invalid request body")

// bind parses the request body into dst and runs struct validation on it.
func bind(c *fiber.Ctx, validate *validator.Validate, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return validate.Struct(dst)
}

// statusFor maps a service error onto an HTTP status code.
func statusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, errBadBody), errors.As(err, &verrs), models.IsValidation(err),
		errors.Is(err, models.ErrInvalidQuantity):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrRegistrationClosed):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case services.IsConflict(err):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the JSON error body for err. Server faults are logged.
func respondError(c *fiber.Ctx, log logger.Logger, message string, err error) error {
	status := statusFor(err)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		errorMessages := make(map[string]string, len(verrs))
		for _, e := range verrs {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	body := fiber.Map{"message": message, "error": err.Error()}
	var verr *models.ValidationError
	if errors.As(err, &verr) && verr.Field != "" {
		body["field"] = verr.Field
	}

	l := log.WithContext(c.UserContext())
	if status >= fiber.StatusInternalServerError {
		l.Error(message, logger.String("path", c.Path()), logger.Error(err))
	} else {
		l.Debug(message, logger.String("path", c.Path()), logger.Int("status", status), logger.Error(err))
	}
	return c.Status(status).JSON(body)
}

// listFilter reads the shared list query and rejects sort fields outside allowed.
func listFilter(c *fiber.Ctx, allowed ...string) (models.ListFilter, error) {
	f, err := models.ParseListFilter(func(key string) string { return c.Query(key) })
	if err != nil {
		return models.ListFilter{}, err
	}
	if err := f.CheckSort(allowed...); err != nil {
		return models.ListFilter{}, err
	}
	return f, nil
}
