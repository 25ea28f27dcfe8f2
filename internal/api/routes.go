package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)

	days := api.Group("/days", handler.AuthRequired)
	days.Get("", handler.ListDays)
	days.Post("/:date", handler.UpsertDay)
	days.Delete("/:date", handler.DeleteDay)

	temperatures := api.Group("/temperatures", handler.AuthRequired)
	temperatures.Get("", handler.ListTemperatures)
	temperatures.Post("", handler.RecordTemperature)

	insights := api.Group("/insights", handler.AuthRequired)
	insights.Get("/regularity", handler.GetRegularity)
	insights.Get("/temperature", handler.GetTemperatureAnalysis)
	insights.Get("/prediction", handler.GetPrediction)
	insights.Get("/prediction/latest", handler.GetLatestPrediction)
	insights.Get("/phase", handler.GetPhase)

	profile := api.Group("/profile", handler.AuthRequired)
	profile.Get("", handler.GetProfile)
	profile.Put("", handler.UpdateProfile)
}
