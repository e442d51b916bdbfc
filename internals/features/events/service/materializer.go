package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/iamanishx/talawa-api/internals/constants"
	"github.com/iamanishx/talawa-api/internals/features/events/model"
	"github.com/iamanishx/talawa-api/internals/features/events/recurrence"
	orgModel "github.com/iamanishx/talawa-api/internals/features/organizations/model"
	userModel "github.com/iamanishx/talawa-api/internals/features/users/model"
	helper "github.com/iamanishx/talawa-api/internals/helpers"
)

// CreateEventResult: event yang dikembalikan ke caller —
// standalone (SimplePath), first instance (RecurringPath), atau base event
// kalau expand tidak menghasilkan instant sama sekali.
type CreateEventResult struct {
	Event       *model.EventModel          `json:"event"`
	Rule        *model.RecurrenceRuleModel `json:"recurrence_rule,omitempty"`
	Attachments []model.EventAttachmentModel `json:"attachments"`
}

// CreateEvent menjalankan alur materialisasi:
// AuthCheck → validasi input → ResourceCheck → (RecurringPath|SimplePath)
// → AttachmentPersist → commit. Error fatal sebelum commit me-rollback semua
// row secara atomik. Kegagalan tulis blob SETELAH row diterima tidak
// me-rollback row (lihat catatan di EventAttachmentModel).
func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (*CreateEventResult, error) {
	// ---------- AuthCheck ----------
	var actor userModel.UserModel
	if err := s.DB.WithContext(ctx).First(&actor, "user_id = ?", in.ActorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated("Akun Anda tidak ditemukan")
		}
		log.Printf("[ERROR] load actor %s: %v", in.ActorID, err)
		return nil, ErrUnexpected()
	}

	// ---------- Validasi input (sebelum mutasi apa pun) ----------
	if issues := validateCreateEventInput(in); len(issues) > 0 {
		return nil, ErrInvalidArguments(issues)
	}

	if len(in.Attachments) > 0 && s.Blobs == nil {
		return nil, &OpError{
			Status:  fiber.StatusServiceUnavailable,
			Code:    CodeUnexpected,
			Message: "Object storage tidak tersedia; event dengan lampiran tidak bisa diproses",
		}
	}

	// Encode rule di depan: murni, gagal bersih tanpa side effect.
	var ruleString string
	if in.Recurrence != nil {
		var err error
		ruleString, err = recurrence.Encode(recurrenceOptions(in.Recurrence))
		if err != nil {
			return nil, ErrInvalidArguments([]FieldIssue{{Path: "recurrence", Message: err.Error()}})
		}
	}

	var (
		res     CreateEventResult
		blobErr error
	)

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// ---------- ResourceCheck ----------
		var org orgModel.OrganizationModel
		if err := tx.First(&org, "organization_id = ?", in.OrganizationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrResourceNotFound("Organisasi tidak ditemukan")
			}
			log.Printf("[ERROR] load organization %s: %v", in.OrganizationID, err)
			return ErrUnexpected()
		}

		// Administrator global (owner) bypass; selain itu wajib admin organisasi.
		isAdmin := actor.UserRole == constants.RoleOwner
		if !isAdmin {
			var member orgModel.OrganizationMemberModel
			err := tx.First(&member,
				"organization_member_organization_id = ? AND organization_member_user_id = ?",
				in.OrganizationID, in.ActorID).Error
			switch {
			case err == nil:
				isAdmin = constants.IsOrgAdminRole(member.OrganizationMemberRole)
			case errors.Is(err, gorm.ErrRecordNotFound):
				// bukan anggota → tetap ditolak di bawah
			default:
				log.Printf("[ERROR] load membership org=%s user=%s: %v", in.OrganizationID, in.ActorID, err)
				return ErrUnexpected()
			}
		}
		if !isAdmin {
			return ErrUnauthorized("Hanya administrator organisasi yang boleh membuat event")
		}

		// Keunikan nama (slug) per organisasi: cek-lalu-tulis di dalam transaksi,
		// index unik DB sebagai backstop untuk isolasi non-serializable.
		slug := helper.GenerateSlug(in.Name)
		var cnt int64
		if err := tx.Model(&model.EventModel{}).
			Where("event_organization_id = ? AND event_slug = ?", in.OrganizationID, slug).
			Count(&cnt).Error; err != nil {
			log.Printf("[ERROR] cek slug event: %v", err)
			return ErrUnexpected()
		}
		if cnt > 0 {
			return ErrConflict("Nama event sudah dipakai di organisasi ini")
		}

		if in.Recurrence != nil {
			if err := s.createRecurringSeries(tx, in, &actor, slug, ruleString, &res); err != nil {
				return err
			}
		} else {
			if err := createStandaloneEvent(tx, in, slug, &res); err != nil {
				return err
			}
		}

		// ---------- AttachmentPersist ----------
		if len(in.Attachments) > 0 {
			var err error
			res.Attachments, blobErr, err = s.persistAttachments(ctx, tx, in, res.Event.EventID)
			if err != nil {
				return err
			}
			// blobErr dibiarkan: row tetap commit, kegagalan dilaporkan setelahnya.
		} else {
			res.Attachments = []model.EventAttachmentModel{}
		}

		return nil
	})

	if txErr != nil {
		var op *OpError
		if errors.As(txErr, &op) {
			return nil, op
		}
		log.Printf("[ERROR] create event tx: %v", txErr)
		return nil, ErrUnexpected()
	}

	if blobErr != nil {
		log.Printf("[ERROR] upload lampiran event %s: %v", res.Event.EventID, blobErr)
		return nil, &OpError{
			Status:  502,
			Code:    CodeUnexpected,
			Message: "Lampiran gagal disimpan ke object storage; data event sudah tercatat",
		}
	}

	return &res, nil
}

/* ===============================
   RecurringPath / SimplePath
=================================*/

func (s *EventService) createRecurringSeries(tx *gorm.DB, in CreateEventInput, actor *userModel.UserModel, slug, ruleString string, res *CreateEventResult) error {
	// 1. Base event
	base := model.EventModel{
		EventName:                 in.Name,
		EventSlug:                 slug,
		EventDescription:          in.Description,
		EventStartAt:              in.StartAt.UTC(),
		EventEndAt:                in.EndAt.UTC(),
		EventOrganizationID:       in.OrganizationID,
		EventCreatedByUserID:      in.ActorID,
		EventIsRecurring:          true,
		EventIsBaseRecurringEvent: true,
	}
	if r := tx.Create(&base); r.Error != nil || r.RowsAffected == 0 {
		log.Printf("[ERROR] insert base event: %v", r.Error)
		return ErrUnexpected()
	}

	// 2-3. Durasi tetap untuk semua instance
	duration := in.EndAt.Sub(in.StartAt)

	// 4-5. Batas expand: recurrence_end_at eksplisit, else horizon default (clock)
	instants, err := recurrence.Expand(ruleString, in.StartAt, in.Recurrence.EndAt, s.Clock)
	if err != nil {
		// rule hasil encode sendiri; gagal parse = defect, bukan salah caller
		log.Printf("[ERROR] expand rule %q: %v", ruleString, err)
		return ErrUnexpected()
	}

	// 6. Rule row; latest_instance_date = instant terakhir (fallback: start)
	latest := in.StartAt.UTC()
	if len(instants) > 0 {
		latest = instants[len(instants)-1]
	}
	freq := strings.ToUpper(strings.TrimSpace(in.Recurrence.Frequency))
	if freq == "" {
		freq = string(recurrence.FreqDaily)
	}
	interval := in.Recurrence.Interval
	if interval < 1 {
		interval = 1
	}
	rule := model.RecurrenceRuleModel{
		RecurrenceRuleOrganizationID:       in.OrganizationID,
		RecurrenceRuleBaseRecurringEventID: base.EventID,
		RecurrenceRuleString:               ruleString,
		RecurrenceRuleFrequency:            freq,
		RecurrenceRuleInterval:             interval,
		RecurrenceRuleCount:                in.Recurrence.Count,
		RecurrenceRuleStartAt:              in.StartAt.UTC(),
		RecurrenceRuleEndAt:                in.Recurrence.EndAt,
		RecurrenceRuleByDay:                toStringArray(in.Recurrence.ByDay),
		RecurrenceRuleByMonth:              toInt64Array(in.Recurrence.ByMonth),
		RecurrenceRuleByMonthDay:           toInt64Array(in.Recurrence.ByMonthDay),
		RecurrenceRuleLatestInstanceDate:   datatypes.Date(latest),
	}
	if r := tx.Create(&rule); r.Error != nil || r.RowsAffected == 0 {
		log.Printf("[ERROR] insert recurrence rule: %v", r.Error)
		return ErrUnexpected()
	}

	// 7. Back-link base → rule (1:1)
	if err := tx.Model(&base).Update("event_recurrence_rule_id", rule.RecurrenceRuleID).Error; err != nil {
		log.Printf("[ERROR] back-link base event: %v", err)
		return ErrUnexpected()
	}
	base.EventRecurrenceRuleID = &rule.RecurrenceRuleID

	// 8-9. First instance kalau ada instant; kalau kosong, base + rule saja.
	if len(instants) > 0 {
		first := instants[0]
		inst := model.EventModel{
			EventName:                 in.Name,
			EventSlug:                 instanceSlug(slug, first),
			EventDescription:          in.Description,
			EventStartAt:              first,
			EventEndAt:                first.Add(duration),
			EventOrganizationID:       in.OrganizationID,
			EventCreatedByUserID:      in.ActorID,
			EventIsRecurring:          true,
			EventIsBaseRecurringEvent: false,
			EventBaseRecurringEventID: &base.EventID,
			EventRecurrenceRuleID:     &rule.RecurrenceRuleID,
		}
		if r := tx.Create(&inst); r.Error != nil || r.RowsAffected == 0 {
			log.Printf("[ERROR] insert first instance: %v", r.Error)
			return ErrUnexpected()
		}
		res.Event = &inst
	} else {
		res.Event = &base
	}
	res.Rule = &rule
	return nil
}

func createStandaloneEvent(tx *gorm.DB, in CreateEventInput, slug string, res *CreateEventResult) error {
	ev := model.EventModel{
		EventName:            in.Name,
		EventSlug:            slug,
		EventDescription:     in.Description,
		EventStartAt:         in.StartAt.UTC(),
		EventEndAt:           in.EndAt.UTC(),
		EventOrganizationID:  in.OrganizationID,
		EventCreatedByUserID: in.ActorID,
	}
	if r := tx.Create(&ev); r.Error != nil || r.RowsAffected == 0 {
		log.Printf("[ERROR] insert event: %v", r.Error)
		return ErrUnexpected()
	}
	res.Event = &ev
	return nil
}

/* ===============================
   AttachmentPersist
=================================*/

// persistAttachments menulis row lampiran di dalam transaksi, lalu fan-out
// tulis blob secara paralel SETELAH semua row diterima. Upload yang sukses
// menandai blob_synced_at; yang gagal dibiarkan NULL untuk sweep rekonsiliasi.
// Return: (rows, uploadErr, fatalErr). uploadErr tidak membatalkan transaksi.
func (s *EventService) persistAttachments(ctx context.Context, tx *gorm.DB, in CreateEventInput, eventID uuid.UUID) ([]model.EventAttachmentModel, error, error) {
	rows := make([]model.EventAttachmentModel, len(in.Attachments))
	for i, att := range in.Attachments {
		key := s.Blobs.BuildObjectKey("event-attachments", constants.ExtensionForMediaType(att.MediaType))
		rows[i] = model.EventAttachmentModel{
			EventAttachmentEventID:         eventID,
			EventAttachmentCreatedByUserID: in.ActorID,
			EventAttachmentMediaType:       att.MediaType,
			EventAttachmentObjectKey:       key,
			EventAttachmentURL:             s.Blobs.PublicURL(key),
		}
		if r := tx.Create(&rows[i]); r.Error != nil || r.RowsAffected == 0 {
			log.Printf("[ERROR] insert attachment row %d: %v", i, r.Error)
			return nil, nil, ErrUnexpected()
		}
	}

	// Fan-out paralel; maksimal satu percobaan tulis per lampiran.
	uploaded := make([]bool, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	for i := range rows {
		i := i
		reader := in.Attachments[i].Reader
		g.Go(func() error {
			if err := s.Blobs.UploadStream(gctx, rows[i].EventAttachmentObjectKey, reader, rows[i].EventAttachmentMediaType, true, true); err != nil {
				return fmt.Errorf("attachment %d (%s): %w", i, rows[i].EventAttachmentObjectKey, err)
			}
			uploaded[i] = true
			return nil
		})
	}
	uploadErr := g.Wait()

	now := time.Now().UTC()
	for i := range rows {
		if !uploaded[i] {
			continue
		}
		if err := tx.Model(&rows[i]).Update("event_attachment_blob_synced_at", now).Error; err != nil {
			log.Printf("[ERROR] tandai blob synced %s: %v", rows[i].EventAttachmentObjectKey, err)
			continue
		}
		rows[i].EventAttachmentBlobSyncedAt = &now
	}

	return rows, uploadErr, nil
}

/* ===============================
   Validasi & konversi kecil
=================================*/

func validateCreateEventInput(in CreateEventInput) []FieldIssue {
	var issues []FieldIssue

	if strings.TrimSpace(in.Name) == "" {
		issues = append(issues, FieldIssue{Path: "name", Message: "Nama event wajib diisi"})
	}
	if in.OrganizationID == uuid.Nil {
		issues = append(issues, FieldIssue{Path: "organization_id", Message: "organization_id wajib diisi"})
	}
	if in.StartAt.IsZero() || in.EndAt.IsZero() {
		issues = append(issues, FieldIssue{Path: "start_at", Message: "start_at dan end_at wajib diisi"})
	} else if in.EndAt.Before(in.StartAt) {
		issues = append(issues, FieldIssue{Path: "end_at", Message: "end_at harus ≥ start_at"})
	}

	// Satu issue per lampiran yang tipenya di luar allow-list; lampiran lain tetap lolos.
	for i, att := range in.Attachments {
		if !constants.IsAllowedAttachmentMediaType(att.MediaType) {
			issues = append(issues, FieldIssue{
				Path:    fmt.Sprintf("attachments[%d].media_type", i),
				Message: fmt.Sprintf("Tipe media %q tidak diizinkan", att.MediaType),
			})
		}
	}

	return issues
}

func recurrenceOptions(in *RecurrenceInput) recurrence.Options {
	return recurrence.Options{
		Frequency:  recurrence.Frequency(strings.ToUpper(strings.TrimSpace(in.Frequency))),
		Interval:   in.Interval,
		Count:      in.Count,
		Until:      in.EndAt,
		ByDay:      in.ByDay,
		ByMonth:    in.ByMonth,
		ByMonthDay: in.ByMonthDay,
	}
}

// instanceSlug membedakan slug instance dari base-nya (index unik per organisasi).
func instanceSlug(baseSlug string, startAt time.Time) string {
	return baseSlug + "-" + startAt.UTC().Format("20060102")
}

func toStringArray(vals []string) pq.StringArray {
	if len(vals) == 0 {
		return nil
	}
	return pq.StringArray(vals)
}

func toInt64Array(vals []int) pq.Int64Array {
	if len(vals) == 0 {
		return nil
	}
	out := make(pq.Int64Array, len(vals))
	for i, v := range vals {
		out[i] = int64(v)
	}
	return out
}
