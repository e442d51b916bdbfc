package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/iamanishx/talawa-api/internals/features/events/model"
	"github.com/iamanishx/talawa-api/internals/features/events/service"
)

// 🔹 Request membuat event (JSON). Lampiran file hanya lewat multipart.
type RecurrenceRequest struct {
	Frequency  string     `json:"frequency" validate:"omitempty,oneof=DAILY WEEKLY MONTHLY YEARLY"`
	Interval   int        `json:"interval" validate:"omitempty,min=1"`
	Count      *int       `json:"count" validate:"omitempty,min=1"`
	EndAt      *time.Time `json:"recurrence_end_at"`
	ByDay      []string   `json:"by_day" validate:"omitempty,dive,oneof=MO TU WE TH FR SA SU"`
	ByMonth    []int      `json:"by_month" validate:"omitempty,dive,min=1,max=12"`
	ByMonthDay []int      `json:"by_month_day" validate:"omitempty,dive,min=1,max=31"`
}

type CreateEventRequest struct {
	Name           string             `json:"name" validate:"required,max=255"`
	Description    *string            `json:"description"`
	OrganizationID uuid.UUID          `json:"organization_id" validate:"required"`
	StartAt        time.Time          `json:"start_at" validate:"required"`
	EndAt          time.Time          `json:"end_at" validate:"required"`
	Recurrence     *RecurrenceRequest `json:"recurrence"`
}

// 🔄 Konversi request → input service
func (r *CreateEventRequest) ToServiceInput(actorID uuid.UUID, attachments []service.AttachmentInput) service.CreateEventInput {
	in := service.CreateEventInput{
		ActorID:        actorID,
		Name:           r.Name,
		Description:    r.Description,
		OrganizationID: r.OrganizationID,
		StartAt:        r.StartAt,
		EndAt:          r.EndAt,
		Attachments:    attachments,
	}
	if r.Recurrence != nil {
		in.Recurrence = &service.RecurrenceInput{
			Frequency:  r.Recurrence.Frequency,
			Interval:   r.Recurrence.Interval,
			Count:      r.Recurrence.Count,
			EndAt:      r.Recurrence.EndAt,
			ByDay:      r.Recurrence.ByDay,
			ByMonth:    r.Recurrence.ByMonth,
			ByMonthDay: r.Recurrence.ByMonthDay,
		}
	}
	return in
}

// 🔹 Response event
type EventResponse struct {
	EventID                   uuid.UUID  `json:"event_id"`
	EventName                 string     `json:"event_name"`
	EventSlug                 string     `json:"event_slug"`
	EventDescription          *string    `json:"event_description,omitempty"`
	EventStartAt              time.Time  `json:"event_start_at"`
	EventEndAt                time.Time  `json:"event_end_at"`
	EventOrganizationID       uuid.UUID  `json:"event_organization_id"`
	EventIsRecurring          bool       `json:"event_is_recurring"`
	EventIsBaseRecurringEvent bool       `json:"event_is_base_recurring_event"`
	EventBaseRecurringEventID *uuid.UUID `json:"event_base_recurring_event_id,omitempty"`
	EventRecurrenceRuleID     *uuid.UUID `json:"event_recurrence_rule_id,omitempty"`
}

type AttachmentResponse struct {
	EventAttachmentID        uuid.UUID `json:"event_attachment_id"`
	EventAttachmentMediaType string    `json:"event_attachment_media_type"`
	EventAttachmentURL       string    `json:"event_attachment_url"`
}

type RecurrenceRuleResponse struct {
	RecurrenceRuleID        uuid.UUID `json:"recurrence_rule_id"`
	RecurrenceRuleString    string    `json:"recurrence_rule_string"`
	RecurrenceRuleFrequency string    `json:"recurrence_rule_frequency"`
	RecurrenceRuleInterval  int       `json:"recurrence_rule_interval"`
}

type CreateEventResponse struct {
	Event       EventResponse           `json:"event"`
	Rule        *RecurrenceRuleResponse `json:"recurrence_rule,omitempty"`
	Attachments []AttachmentResponse    `json:"attachments"`
}

func ToEventResponse(m *model.EventModel) EventResponse {
	return EventResponse{
		EventID:                   m.EventID,
		EventName:                 m.EventName,
		EventSlug:                 m.EventSlug,
		EventDescription:          m.EventDescription,
		EventStartAt:              m.EventStartAt,
		EventEndAt:                m.EventEndAt,
		EventOrganizationID:       m.EventOrganizationID,
		EventIsRecurring:          m.EventIsRecurring,
		EventIsBaseRecurringEvent: m.EventIsBaseRecurringEvent,
		EventBaseRecurringEventID: m.EventBaseRecurringEventID,
		EventRecurrenceRuleID:     m.EventRecurrenceRuleID,
	}
}

func ToCreateEventResponse(res *service.CreateEventResult) CreateEventResponse {
	out := CreateEventResponse{
		Event:       ToEventResponse(res.Event),
		Attachments: make([]AttachmentResponse, 0, len(res.Attachments)),
	}
	if res.Rule != nil {
		out.Rule = &RecurrenceRuleResponse{
			RecurrenceRuleID:        res.Rule.RecurrenceRuleID,
			RecurrenceRuleString:    res.Rule.RecurrenceRuleString,
			RecurrenceRuleFrequency: res.Rule.RecurrenceRuleFrequency,
			RecurrenceRuleInterval:  res.Rule.RecurrenceRuleInterval,
		}
	}
	for i := range res.Attachments {
		out.Attachments = append(out.Attachments, AttachmentResponse{
			EventAttachmentID:        res.Attachments[i].EventAttachmentID,
			EventAttachmentMediaType: res.Attachments[i].EventAttachmentMediaType,
			EventAttachmentURL:       res.Attachments[i].EventAttachmentURL,
		})
	}
	return out
}

func ToEventResponseList(models []model.EventModel) []EventResponse {
	out := make([]EventResponse, 0, len(models))
	for i := range models {
		out = append(out, ToEventResponse(&models[i]))
	}
	return out
}
