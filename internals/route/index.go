// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	eventRoute "github.com/iamanishx/talawa-api/internals/features/events/route"
	eventService "github.com/iamanishx/talawa-api/internals/features/events/service"
	orgRoute "github.com/iamanishx/talawa-api/internals/features/organizations/route"
	userRoute "github.com/iamanishx/talawa-api/internals/features/users/route"
	authMiddleware "github.com/iamanishx/talawa-api/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, eventSvc *eventService.EventService) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	api := app.Group("/api")
	userRoute.AuthRoutes(api, db)

	// ===================== PRIVATE (login wajib) =====================
	log.Println("[INFO] Setting up PRIVATE group (/api/a)...")
	private := app.Group("/api/a", authMiddleware.AuthMiddleware())

	orgRoute.OrganizationRoutes(private, db)
	eventRoute.EventRoutes(private, eventSvc)
}
