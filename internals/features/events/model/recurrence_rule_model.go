package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecurrenceRuleModel menyimpan pola perulangan milik satu base event (1:1).
// Mutasi setelah create hanya pada latest_instance_date (high-water mark expand).
type RecurrenceRuleModel struct {
	RecurrenceRuleID             uuid.UUID `gorm:"column:recurrence_rule_id;type:uuid;primaryKey" json:"recurrence_rule_id"`
	RecurrenceRuleOrganizationID uuid.UUID `gorm:"column:recurrence_rule_organization_id;type:uuid;not null;index:idx_recurrence_rules_organization_id" json:"recurrence_rule_organization_id"`

	// Tepat satu rule per base event (uniqueIndex sebagai penegak 1:1).
	RecurrenceRuleBaseRecurringEventID uuid.UUID `gorm:"column:recurrence_rule_base_recurring_event_id;type:uuid;not null;uniqueIndex:ux_recurrence_rules_base_event" json:"recurrence_rule_base_recurring_event_id"`

	// String kanonik: FREQ=...;INTERVAL=...;UNTIL=...;COUNT=...;BYDAY=...;BYMONTH=...;BYMONTHDAY=...
	RecurrenceRuleString string `gorm:"column:recurrence_rule_string;type:text;not null" json:"recurrence_rule_string"`

	RecurrenceRuleFrequency string `gorm:"column:recurrence_rule_frequency;type:varchar(10);not null" json:"recurrence_rule_frequency"`
	RecurrenceRuleInterval  int    `gorm:"column:recurrence_rule_interval;not null;default:1" json:"recurrence_rule_interval"`
	RecurrenceRuleCount     *int   `gorm:"column:recurrence_rule_count" json:"recurrence_rule_count,omitempty"`

	RecurrenceRuleStartAt time.Time  `gorm:"column:recurrence_rule_start_at;not null" json:"recurrence_rule_start_at"`
	RecurrenceRuleEndAt   *time.Time `gorm:"column:recurrence_rule_end_at" json:"recurrence_rule_end_at,omitempty"`

	RecurrenceRuleByDay      pq.StringArray `gorm:"column:recurrence_rule_by_day;type:text[]" json:"recurrence_rule_by_day,omitempty"`
	RecurrenceRuleByMonth    pq.Int64Array  `gorm:"column:recurrence_rule_by_month;type:bigint[]" json:"recurrence_rule_by_month,omitempty"`
	RecurrenceRuleByMonthDay pq.Int64Array  `gorm:"column:recurrence_rule_by_month_day;type:bigint[]" json:"recurrence_rule_by_month_day,omitempty"`

	// Tanggal instance terakhir yang sudah dimaterialisasi (≥ recurrence_rule_start_at).
	RecurrenceRuleLatestInstanceDate datatypes.Date `gorm:"column:recurrence_rule_latest_instance_date;not null" json:"recurrence_rule_latest_instance_date"`

	RecurrenceRuleCreatedAt time.Time `gorm:"column:recurrence_rule_created_at;autoCreateTime" json:"recurrence_rule_created_at"`
	RecurrenceRuleUpdatedAt time.Time `gorm:"column:recurrence_rule_updated_at;autoUpdateTime" json:"recurrence_rule_updated_at"`
}

func (RecurrenceRuleModel) TableName() string {
	return "recurrence_rules"
}

func (m *RecurrenceRuleModel) BeforeCreate(tx *gorm.DB) error {
	if m.RecurrenceRuleID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		m.RecurrenceRuleID = id
	}
	return nil
}
