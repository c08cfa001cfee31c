package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/uploads/:name", handler.AuthRequired, handler.ServeProof)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/forgot-password", handler.ForgotPassword)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)

	api.Get("/dashboard", handler.AuthRequired, handler.Dashboard)
	api.Get("/leaderboard", handler.AuthRequired, handler.Leaderboard)

	checkins := api.Group("/checkins", handler.AuthRequired)
	checkins.Post("", handler.SubmitCheckIn)
	checkins.Get("", handler.ListOwnCheckIns)

	admin := api.Group("/admin", handler.AuthRequired, handler.AdminOnly)
	admin.Get("/pending", handler.ListPendingCheckIns)
	admin.Post("/checkins/:id/approve", handler.ApproveCheckIn)
	admin.Post("/checkins/:id/reject", handler.RejectCheckIn)
}
