package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"github.com/iamanishx/talawa-api/internals/middlewares/logger"
)

// SetupMiddlewares memasang middleware global (urutan penting: recover dulu).
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
