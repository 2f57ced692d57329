package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/storewatch/alert-pipeline/internal/handlers"
)

func SetupRoutes(app *fiber.App, alerts *handlers.AlertHandler, health *handlers.HealthHandler) {
	app.Post("/alert", alerts.PublishAlert)
	app.Get("/health", health.HealthCheck)
}
