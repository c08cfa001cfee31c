package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/teboho/graft/internal/services"
	"github.com/teboho/graft/internal/storage"
)

// ServeProof streams a stored proof image. Only blobs referenced by a
// check-in row are served; any authenticated user may view them, since the
// leaderboard makes the evidence visible to the whole group anyway.
func (handler *Handler) ServeProof(c *fiber.Ctx) error {
	if _, ok := currentUser(c); !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	key := c.Params("name")
	if _, err := handler.checkins.FindByProofKey(key); err != nil {
		if errors.Is(err, services.ErrCheckInNotFound) {
			return apiError(c, fiber.StatusNotFound, "proof not found")
		}
		return handler.respondServiceError(c, err)
	}

	path, err := handler.proofs.Path(key)
	if err != nil {
		if errors.Is(err, storage.ErrProofBadKey) || errors.Is(err, storage.ErrProofNotFound) {
			return apiError(c, fiber.StatusNotFound, "proof not found")
		}
		return handler.respondServiceError(c, err)
	}
	return c.SendFile(path)
}
