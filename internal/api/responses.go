package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/teboho/graft/internal/services"
	"github.com/teboho/graft/internal/storage"
	"go.uber.org/zap"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// AlreadyProcessed is surfaced as a warning, not an error: the caller's goal
// state already holds.
func (handler *Handler) respondServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrContentRequired),
		errors.Is(err, services.ErrProofRequired),
		errors.Is(err, services.ErrProofType),
		errors.Is(err, services.ErrRegistrationInvalid),
		errors.Is(err, services.ErrEmailInvalid),
		errors.Is(err, services.ErrPasswordTooShort):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrProofTooLarge):
		return apiError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return apiError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return apiError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrCheckInNotFound):
		return apiError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrAlreadyProcessed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"warning": err.Error()})
	case errors.Is(err, services.ErrDuplicateSubmission),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrOutOfOrderDisposition):
		return apiError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrWindowClosed):
		return apiError(c, fiber.StatusUnprocessableEntity, err.Error())
	default:
		handler.logger.Error("unhandled service error", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
