package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/teboho/graft/internal/services"
	"go.uber.org/zap"
)

// SubmitCheckIn accepts a multipart form with a "content" text field and a
// "proof" image file. The service decides everything else: window, duplicate
// guard, proof policy.
func (handler *Handler) SubmitCheckIn(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fileHeader, err := c.FormFile("proof")
	if err != nil {
		return handler.respondServiceError(c, services.ErrProofRequired)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "unreadable proof upload")
	}
	defer file.Close()

	checkin, err := handler.checkins.Submit(*user, handler.now(), c.FormValue("content"), services.ProofUpload{
		Filename: fileHeader.Filename,
		Content:  file,
	})
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	handler.logger.Info("check-in submitted",
		zap.Uint("user_id", user.ID),
		zap.Uint("checkin_id", checkin.ID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"checkin": toCheckinPayload(checkin)})
}

func (handler *Handler) ListOwnCheckIns(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	checkins, err := handler.checkins.ListForUser(user.ID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"checkins": toCheckinPayloads(checkins)})
}
