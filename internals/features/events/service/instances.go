package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/iamanishx/talawa-api/internals/constants"
	"github.com/iamanishx/talawa-api/internals/features/events/model"
	"github.com/iamanishx/talawa-api/internals/features/events/recurrence"
	orgModel "github.com/iamanishx/talawa-api/internals/features/organizations/model"
	userModel "github.com/iamanishx/talawa-api/internals/features/users/model"
)

// ExpandInstances adalah kontrak expand on-demand untuk konsumen lanjutan:
// instance series tidak dipra-materialisasi semua — dibuat malas per jendela
// waktu yang diminta. Row instance yang sudah ada tidak diduplikasi, dan
// latest_instance_date dimajukan kalau ada instance baru di luar high-water mark.
func (s *EventService) ExpandInstances(ctx context.Context, in ExpandInstancesInput) ([]model.EventModel, error) {
	// AuthCheck
	var actor userModel.UserModel
	if err := s.DB.WithContext(ctx).First(&actor, "user_id = ?", in.ActorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated("Akun Anda tidak ditemukan")
		}
		log.Printf("[ERROR] load actor %s: %v", in.ActorID, err)
		return nil, ErrUnexpected()
	}

	var out []model.EventModel
	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Resolve event → base event dari series-nya
		var ev model.EventModel
		if err := tx.First(&ev, "event_id = ?", in.EventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrResourceNotFound("Event tidak ditemukan")
			}
			log.Printf("[ERROR] load event %s: %v", in.EventID, err)
			return ErrUnexpected()
		}
		base := ev
		if !ev.EventIsBaseRecurringEvent {
			if ev.EventBaseRecurringEventID == nil {
				return ErrInvalidArguments([]FieldIssue{{Path: "event_id", Message: "Event bukan bagian dari series recurring"}})
			}
			if err := tx.First(&base, "event_id = ?", *ev.EventBaseRecurringEventID).Error; err != nil {
				log.Printf("[ERROR] load base event %s: %v", *ev.EventBaseRecurringEventID, err)
				return ErrUnexpected()
			}
		}
		if !base.EventIsRecurring {
			return ErrInvalidArguments([]FieldIssue{{Path: "event_id", Message: "Event bukan recurring"}})
		}

		// Anggota organisasi (role apa pun) atau owner global boleh membaca/expand.
		if actor.UserRole != constants.RoleOwner {
			var member orgModel.OrganizationMemberModel
			err := tx.First(&member,
				"organization_member_organization_id = ? AND organization_member_user_id = ?",
				base.EventOrganizationID, in.ActorID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnauthorized("Anda bukan anggota organisasi ini")
			}
			if err != nil {
				log.Printf("[ERROR] load membership: %v", err)
				return ErrUnexpected()
			}
		}

		// Rule wajib ada untuk base recurring (invariant 1:1)
		var rule model.RecurrenceRuleModel
		if err := tx.First(&rule, "recurrence_rule_base_recurring_event_id = ?", base.EventID).Error; err != nil {
			log.Printf("[ERROR] rule untuk base %s tidak ditemukan: %v", base.EventID, err)
			return ErrUnexpected()
		}

		// Expand selalu dengan dtstart = recurrence_rule_start_at supaya fase
		// pola tidak bergeser, lalu difilter ke jendela yang diminta.
		instants, err := recurrence.Expand(rule.RecurrenceRuleString, rule.RecurrenceRuleStartAt, in.WindowEnd, s.Clock)
		if err != nil {
			log.Printf("[ERROR] expand rule %q: %v", rule.RecurrenceRuleString, err)
			return ErrUnexpected()
		}
		if in.WindowStart != nil {
			ws := in.WindowStart.UTC()
			filtered := instants[:0]
			for _, t := range instants {
				if !t.Before(ws) {
					filtered = append(filtered, t)
				}
			}
			instants = filtered
		}

		duration := base.EventEndAt.Sub(base.EventStartAt)

		// Instance yang sudah termaterialisasi di jendela ini
		var existing []model.EventModel
		if err := tx.
			Where("event_base_recurring_event_id = ?", base.EventID).
			Find(&existing).Error; err != nil {
			log.Printf("[ERROR] load existing instances: %v", err)
			return ErrUnexpected()
		}
		have := make(map[int64]*model.EventModel, len(existing))
		for i := range existing {
			have[existing[i].EventStartAt.UTC().Unix()] = &existing[i]
		}

		latest := time.Time(rule.RecurrenceRuleLatestInstanceDate).UTC()
		advanced := false

		out = make([]model.EventModel, 0, len(instants))
		for _, t := range instants {
			if row, ok := have[t.Unix()]; ok {
				out = append(out, *row)
				continue
			}
			inst := model.EventModel{
				EventName:                 base.EventName,
				EventSlug:                 instanceSlug(base.EventSlug, t),
				EventDescription:          base.EventDescription,
				EventStartAt:              t,
				EventEndAt:                t.Add(duration),
				EventOrganizationID:       base.EventOrganizationID,
				EventCreatedByUserID:      base.EventCreatedByUserID,
				EventIsRecurring:          true,
				EventIsBaseRecurringEvent: false,
				EventBaseRecurringEventID: &base.EventID,
				EventRecurrenceRuleID:     &rule.RecurrenceRuleID,
			}
			if r := tx.Create(&inst); r.Error != nil || r.RowsAffected == 0 {
				log.Printf("[ERROR] materialize instance %s: %v", t, r.Error)
				return ErrUnexpected()
			}
			out = append(out, inst)
			if t.After(latest) {
				latest = t
				advanced = true
			}
		}

		if advanced {
			if err := tx.Model(&rule).
				Update("recurrence_rule_latest_instance_date", datatypes.Date(latest)).Error; err != nil {
				log.Printf("[ERROR] advance latest_instance_date: %v", err)
				return ErrUnexpected()
			}
		}

		return nil
	})

	if txErr != nil {
		var op *OpError
		if errors.As(txErr, &op) {
			return nil, op
		}
		log.Printf("[ERROR] expand instances tx: %v", txErr)
		return nil, ErrUnexpected()
	}

	return out, nil
}
