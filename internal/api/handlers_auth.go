package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/teboho/graft/internal/services"
	"go.uber.org/zap"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	var input registerInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	normalized, err := services.NormalizeRegistrationInput(input.Username, input.Email, input.Password)
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	user, err := handler.auth.Register(normalized)
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	if err := handler.setAuthCookie(c, &user); err != nil {
		handler.logger.Error("failed to issue session", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	handler.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": toUserPayload(user)})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var input loginInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	now := handler.now()
	limiterKey := requestLimiterKey(c)
	if handler.loginLimiter.tooManyRecent(limiterKey, now, loginAttemptsLimit, loginAttemptsWindow) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts, try again later")
	}

	username, password, err := services.NormalizeCredentialsInput(input.Username, input.Password)
	if err != nil {
		handler.loginLimiter.addFailure(limiterKey, now, loginAttemptsWindow)
		return handler.respondServiceError(c, err)
	}

	user, err := handler.auth.Authenticate(username, password)
	if err != nil {
		handler.loginLimiter.addFailure(limiterKey, now, loginAttemptsWindow)
		return handler.respondServiceError(c, err)
	}
	handler.loginLimiter.reset(limiterKey)

	if err := handler.setAuthCookie(c, &user); err != nil {
		handler.logger.Error("failed to issue session", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	return c.JSON(fiber.Map{"user": toUserPayload(user)})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"message": "logged out"})
}

// ForgotPassword acknowledges every well-formed request identically so the
// endpoint cannot be used to probe which emails are registered. No mailer is
// wired up; a registered hit is only logged for the operator.
func (handler *Handler) ForgotPassword(c *fiber.Ctx) error {
	var input forgotPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	email := services.NormalizeAuthEmail(input.Email)
	if email == "" {
		return apiError(c, fiber.StatusBadRequest, "invalid email address")
	}

	registered, err := handler.auth.EmailIsRegistered(email)
	if err != nil {
		handler.logger.Error("forgot-password lookup failed", zap.Error(err))
	} else if registered {
		handler.logger.Info("password reset requested", zap.String("email", email))
	}

	return c.JSON(fiber.Map{"message": "if that email is registered, reset instructions will be sent"})
}
