package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventModel struct {
	EventID          uuid.UUID `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	EventName        string    `gorm:"column:event_name;type:varchar(255);not null"  json:"event_name"`
	EventSlug        string    `gorm:"column:event_slug;type:varchar(160);not null"  json:"event_slug"`
	EventDescription *string   `gorm:"column:event_description;type:text"            json:"event_description,omitempty"`

	EventStartAt time.Time `gorm:"column:event_start_at;not null" json:"event_start_at"`
	EventEndAt   time.Time `gorm:"column:event_end_at;not null;check:event_end_at >= event_start_at" json:"event_end_at"`

	EventOrganizationID uuid.UUID `gorm:"column:event_organization_id;type:uuid;not null;index:idx_events_organization_id" json:"event_organization_id"`
	EventCreatedByUserID uuid.UUID `gorm:"column:event_created_by_user_id;type:uuid;not null" json:"event_created_by_user_id"`

	// Recurring series:
	// - base event: is_recurring=true, is_base_recurring_event=true, base_recurring_event_id NULL
	// - instance : is_recurring=true, is_base_recurring_event=false, base_recurring_event_id & recurrence_rule_id wajib terisi
	EventIsRecurring          bool       `gorm:"column:event_is_recurring;not null;default:false" json:"event_is_recurring"`
	EventIsBaseRecurringEvent bool       `gorm:"column:event_is_base_recurring_event;not null;default:false" json:"event_is_base_recurring_event"`
	EventBaseRecurringEventID *uuid.UUID `gorm:"column:event_base_recurring_event_id;type:uuid;index:idx_events_base_recurring_event_id" json:"event_base_recurring_event_id,omitempty"`
	EventRecurrenceRuleID     *uuid.UUID `gorm:"column:event_recurrence_rule_id;type:uuid" json:"event_recurrence_rule_id,omitempty"`

	EventCreatedAt time.Time      `gorm:"column:event_created_at;autoCreateTime" json:"event_created_at"`
	EventUpdatedAt time.Time      `gorm:"column:event_updated_at;autoUpdateTime" json:"event_updated_at"`
	EventDeletedAt gorm.DeletedAt `gorm:"column:event_deleted_at;index"          json:"event_deleted_at,omitempty"`

	// NOTE:
	// - Unik slug per organisasi (case-insensitive) via migration:
	//   CREATE UNIQUE INDEX ux_events_slug_per_org_lower ON events (event_organization_id, LOWER(event_slug))
	//   WHERE event_deleted_at IS NULL;
	//   Backstop untuk race pada isolasi non-serializable; cek aplikasi tetap di dalam transaksi.
}

func (EventModel) TableName() string {
	return "events"
}

func (m *EventModel) BeforeCreate(tx *gorm.DB) error {
	if m.EventID == uuid.Nil {
		id, err := uuid.NewV7() // sortable
		if err != nil {
			return err
		}
		m.EventID = id
	}
	return nil
}
