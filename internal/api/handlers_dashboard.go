package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/teboho/graft/internal/models"
	"github.com/teboho/graft/internal/services"
)

// Dashboard settles the viewer first, so weekly resets and any overdue
// penalty land before the stats are read.
func (handler *Handler) Dashboard(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	now := handler.now().In(handler.location)
	settled, charged, err := handler.settlement.Settle(user.ID, now)
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	checkins, err := handler.checkins.ListForUser(settled.ID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	response := fiber.Map{
		"user":             toUserPayload(settled),
		"checkins":         toCheckinPayloads(checkins),
		"window_open":      services.SubmissionWindowOpen(now),
		"checked_in_today": checkedInToday(settled, now, handler.location),
		"penalty_charged":  charged,
	}
	if charged {
		response["penalty_notice"] = "weekly target missed, 10 added to your debt"
	}
	return c.JSON(response)
}

func checkedInToday(user models.User, now time.Time, location *time.Location) bool {
	if user.LastCheckinDate == nil {
		return false
	}
	return services.DateAtLocation(*user.LastCheckinDate, location).Equal(services.DateAtLocation(now, location))
}
