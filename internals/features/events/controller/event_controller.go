package controller

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/iamanishx/talawa-api/internals/features/events/dto"
	"github.com/iamanishx/talawa-api/internals/features/events/service"
	helper "github.com/iamanishx/talawa-api/internals/helpers"
)

type EventController struct {
	Service  *service.EventService
	Validate *validator.Validate
}

func NewEventController(svc *service.EventService) *EventController {
	return &EventController{
		Service:  svc,
		Validate: validator.New(),
	}
}

// 🟢 POST /api/a/events
// JSON body untuk event tanpa lampiran; multipart/form-data kalau ada file.
func (ctrl *EventController) CreateEvent(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err // fiber.Error 401/400 dari helper
	}

	var (
		req     dto.CreateEventRequest
		attachs []service.AttachmentInput
		closers []func()
	)
	defer func() {
		for _, fn := range closers {
			fn()
		}
	}()

	if strings.Contains(c.Get("Content-Type"), "multipart/form-data") {
		parsed, perr := parseMultipartCreateEvent(c)
		if perr != nil {
			return perr
		}
		req = parsed

		form, ferr := c.MultipartForm()
		if ferr != nil {
			log.Printf("[ERROR] multipart form: %v", ferr)
			return helper.JsonError(c, fiber.StatusBadRequest, "Form multipart tidak valid")
		}
		for _, fh := range form.File["attachments"] {
			f, oerr := fh.Open()
			if oerr != nil {
				log.Printf("[ERROR] open attachment %s: %v", fh.Filename, oerr)
				return helper.JsonError(c, fiber.StatusBadRequest, "Lampiran tidak bisa dibaca")
			}
			closers = append(closers, func() { _ = f.Close() })
			attachs = append(attachs, service.AttachmentInput{
				MediaType: strings.TrimSpace(fh.Header.Get("Content-Type")),
				Reader:    f,
			})
		}
	} else {
		if err := c.BodyParser(&req); err != nil {
			log.Printf("[ERROR] body parser: %v", err)
			return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
		}
	}

	if err := ctrl.Validate.Struct(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fieldErrors := make(map[string][]string, len(ve))
			for _, fe := range ve {
				fieldErrors[fe.Field()] = append(fieldErrors[fe.Field()], fe.Tag())
			}
			return helper.JsonValidationError(c, fieldErrors)
		}
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}

	res, serr := ctrl.Service.CreateEvent(c.UserContext(), req.ToServiceInput(actorID, attachs))
	if serr != nil {
		return respondServiceError(c, serr)
	}

	return helper.JsonCreated(c, "Event berhasil dibuat", dto.ToCreateEventResponse(res))
}

// 🟢 GET /api/a/events/:id/instances?start=&end=
// Expand on-demand: materialisasi instance series dalam jendela waktu.
func (ctrl *EventController) GetEventInstances(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	eventID, perr := uuid.Parse(c.Params("id"))
	if perr != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Event ID tidak valid")
	}

	in := service.ExpandInstancesInput{ActorID: actorID, EventID: eventID}
	if v := strings.TrimSpace(c.Query("start")); v != "" {
		t, terr := time.Parse(time.RFC3339, v)
		if terr != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Parameter start harus RFC3339")
		}
		in.WindowStart = &t
	}
	if v := strings.TrimSpace(c.Query("end")); v != "" {
		t, terr := time.Parse(time.RFC3339, v)
		if terr != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Parameter end harus RFC3339")
		}
		in.WindowEnd = &t
	}

	instances, serr := ctrl.Service.ExpandInstances(c.UserContext(), in)
	if serr != nil {
		return respondServiceError(c, serr)
	}

	return helper.JsonOK(c, "", dto.ToEventResponseList(instances))
}

/* ===============================
   Util kecil controller
=================================*/

func respondServiceError(c *fiber.Ctx, err error) error {
	var op *service.OpError
	if errors.As(err, &op) {
		var details any
		if len(op.Issues) > 0 {
			details = op.Issues
		}
		return helper.JsonErrorCode(c, op.Status, op.Code, op.Message, details)
	}
	log.Printf("[ERROR] service: %v", err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan internal")
}

// parseMultipartCreateEvent membaca field form satu per satu (selain file).
func parseMultipartCreateEvent(c *fiber.Ctx) (dto.CreateEventRequest, error) {
	var req dto.CreateEventRequest

	req.Name = strings.TrimSpace(c.FormValue("name"))
	if v := strings.TrimSpace(c.FormValue("description")); v != "" {
		req.Description = &v
	}

	orgID, err := uuid.Parse(strings.TrimSpace(c.FormValue("organization_id")))
	if err != nil {
		return req, helper.JsonError(c, fiber.StatusBadRequest, "organization_id tidak valid")
	}
	req.OrganizationID = orgID

	req.StartAt, err = time.Parse(time.RFC3339, strings.TrimSpace(c.FormValue("start_at")))
	if err != nil {
		return req, helper.JsonError(c, fiber.StatusBadRequest, "start_at harus RFC3339")
	}
	req.EndAt, err = time.Parse(time.RFC3339, strings.TrimSpace(c.FormValue("end_at")))
	if err != nil {
		return req, helper.JsonError(c, fiber.StatusBadRequest, "end_at harus RFC3339")
	}

	// Recurrence opsional: dianggap ada kalau recurrence_frequency diisi.
	if freq := strings.TrimSpace(c.FormValue("recurrence_frequency")); freq != "" {
		rec := dto.RecurrenceRequest{Frequency: strings.ToUpper(freq)}
		if v := strings.TrimSpace(c.FormValue("recurrence_interval")); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				rec.Interval = n
			}
		}
		if v := strings.TrimSpace(c.FormValue("recurrence_count")); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				rec.Count = &n
			}
		}
		if v := strings.TrimSpace(c.FormValue("recurrence_end_at")); v != "" {
			t, terr := time.Parse(time.RFC3339, v)
			if terr != nil {
				return req, helper.JsonError(c, fiber.StatusBadRequest, "recurrence_end_at harus RFC3339")
			}
			rec.EndAt = &t
		}
		rec.ByDay = splitCSV(c.FormValue("recurrence_by_day"))
		rec.ByMonth = splitCSVInts(c.FormValue("recurrence_by_month"))
		rec.ByMonthDay = splitCSVInts(c.FormValue("recurrence_by_month_day"))
		req.Recurrence = &rec
	}

	return req, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitCSVInts(s string) []int {
	var out []int
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if n, err := strconv.Atoi(p); err == nil {
			out = append(out, n)
		}
	}
	return out
}
