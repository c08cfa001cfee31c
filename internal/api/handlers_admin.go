package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/teboho/graft/internal/models"
	"go.uber.org/zap"
)

func (handler *Handler) ListPendingCheckIns(c *fiber.Ctx) error {
	actor, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	pending, err := handler.checkins.ListPending(*actor)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"checkins": toCheckinPayloads(pending)})
}

func (handler *Handler) ApproveCheckIn(c *fiber.Ctx) error {
	return handler.disposeCheckIn(c, "approve")
}

func (handler *Handler) RejectCheckIn(c *fiber.Ctx) error {
	return handler.disposeCheckIn(c, "reject")
}

func (handler *Handler) disposeCheckIn(c *fiber.Ctx, action string) error {
	actor, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	checkinID, err := parseCheckInID(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid check-in id")
	}

	var checkin models.CheckIn
	if action == "approve" {
		checkin, err = handler.checkins.Approve(*actor, checkinID)
	} else {
		checkin, err = handler.checkins.Reject(*actor, checkinID)
	}
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	handler.logger.Info("check-in disposed",
		zap.String("action", action),
		zap.Uint("checkin_id", checkin.ID),
		zap.Uint("admin_id", actor.ID))

	// Snapshot refresh is best effort; stale cache rows never block a
	// disposition.
	if err := handler.leaderboard.RefreshSnapshots(); err != nil {
		handler.logger.Warn("leaderboard snapshot refresh failed", zap.Error(err))
	}

	return c.JSON(fiber.Map{"checkin": toCheckinPayload(checkin)})
}

func parseCheckInID(c *fiber.Ctx) (uint, error) {
	raw, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(raw), nil
}
