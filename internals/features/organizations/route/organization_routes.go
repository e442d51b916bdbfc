package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/iamanishx/talawa-api/internals/features/organizations/controller"
)

func OrganizationRoutes(api fiber.Router, db *gorm.DB) {
	orgCtrl := controller.NewOrganizationController(db)

	orgs := api.Group("/organizations")
	orgs.Post("/", orgCtrl.CreateOrganization)
	orgs.Post("/:id/members", orgCtrl.AddMember)
}
