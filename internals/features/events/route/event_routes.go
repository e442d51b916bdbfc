package route

import (
	"github.com/gofiber/fiber/v2"

	"github.com/iamanishx/talawa-api/internals/features/events/controller"
	"github.com/iamanishx/talawa-api/internals/features/events/service"
)

// Login wajib; otorisasi admin organisasi dicek di service (dari storage).
func EventRoutes(api fiber.Router, svc *service.EventService) {
	eventCtrl := controller.NewEventController(svc)

	events := api.Group("/events")
	events.Post("/", eventCtrl.CreateEvent)
	events.Get("/:id/instances", eventCtrl.GetEventInstances)
}
