package api

import (
	"github.com/gofiber/fiber/v2"
)

// Leaderboard settles the viewer before ranking so their own row reflects any
// pending weekly reset or penalty. Other users settle on their own reads.
func (handler *Handler) Leaderboard(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if _, _, err := handler.settlement.Settle(user.ID, handler.now().In(handler.location)); err != nil {
		return handler.respondServiceError(c, err)
	}

	entries, err := handler.leaderboard.Rank()
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"leaderboard": entries})
}
