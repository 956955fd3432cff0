package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/api/routes"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/rs/zerolog/log"
)

var failureStatus = map[error]int{
	models.ErrNotFound:        fiber.StatusNotFound,
	models.ErrUnauthenticated: fiber.StatusUnauthorized,
	models.ErrForbidden:       fiber.StatusForbidden,
	models.ErrConflict:        fiber.StatusBadRequest,
	models.ErrBadRequest:      fiber.StatusBadRequest,
}

// ErrorHandler turns the error a handler returned into the response body.
// Anything that is not a known failure is logged and answered with a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var validationError *models.ValidationError
	if errors.As(err, &validationError) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": validationError.Fields,
		})
	}

	var failure *models.Failure
	if errors.As(err, &failure) {
		status, exists := failureStatus[failure.Kind]
		if !exists {
			status = fiber.StatusInternalServerError
		}

		return c.Status(status).JSON(fiber.Map{
			"message": failure.Message,
		})
	}

	var fiberError *fiber.Error
	if errors.As(err, &fiberError) {
		return c.Status(fiberError.Code).JSON(fiber.Map{
			"message": fiberError.Message,
		})
	}

	message := "Server error"
	var operationError *routes.OperationError
	if errors.As(err, &operationError) {
		message = operationError.Message
	}

	log.Error().Err(err).
		Str("path", c.Path()).
		Interface("request-id", c.Locals(requestIDLocal)).
		Msg(message)

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
	})
}
