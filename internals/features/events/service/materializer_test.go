package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamanishx/talawa-api/internals/constants"
	"github.com/iamanishx/talawa-api/internals/features/events/model"
)

func TestCreateEventSimplePath(t *testing.T) {
	t.Parallel()
	svc, _, admin, org := newTestService(t)

	in := CreateEventInput{
		ActorID:        admin.UserID,
		Name:           "Kajian Bulanan",
		OrganizationID: org.OrganizationID,
		StartAt:        time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
		EndAt:          time.Date(2024, 2, 1, 11, 0, 0, 0, time.UTC),
	}

	res, err := svc.CreateEvent(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, res.Event)
	assert.Nil(t, res.Rule)
	assert.Empty(t, res.Attachments)
	assert.Equal(t, "kajian-bulanan", res.Event.EventSlug)
	assert.False(t, res.Event.EventIsRecurring)

	var count int64
	require.NoError(t, svc.DB.Model(&model.EventModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateEventRecurringPath(t *testing.T) {
	t.Parallel()
	svc, _, admin, org := newTestService(t)

	count := 6
	in := CreateEventInput{
		ActorID:        admin.UserID,
		Name:           "Kajian Rutin",
		OrganizationID: org.OrganizationID,
		StartAt:        time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), // Senin
		EndAt:          time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC),
		Recurrence: &RecurrenceInput{
			Frequency: "WEEKLY",
			Interval:  1,
			Count:     &count,
			ByDay:     []string{"MO", "WE", "FR"},
		},
	}

	res, err := svc.CreateEvent(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, res.Rule)
	require.NotNil(t, res.Event)

	// Event yang dikembalikan = first instance, bukan base
	assert.False(t, res.Event.EventIsBaseRecurringEvent)
	assert.True(t, res.Event.EventIsRecurring)
	require.NotNil(t, res.Event.EventBaseRecurringEventID)
	require.NotNil(t, res.Event.EventRecurrenceRuleID)
	assert.Equal(t, res.Rule.RecurrenceRuleID, *res.Event.EventRecurrenceRuleID)

	// Base ↔ rule saling menunjuk (1:1)
	var base model.EventModel
	require.NoError(t, svc.DB.First(&base, "event_id = ?", *res.Event.EventBaseRecurringEventID).Error)
	assert.True(t, base.EventIsBaseRecurringEvent)
	require.NotNil(t, base.EventRecurrenceRuleID)
	assert.Equal(t, res.Rule.RecurrenceRuleID, *base.EventRecurrenceRuleID)
	assert.Equal(t, base.EventID, res.Rule.RecurrenceRuleBaseRecurringEventID)

	// First instance: instant pertama + durasi base
	assert.Equal(t, base.EventStartAt, res.Event.EventStartAt)
	assert.Equal(t, 2*time.Hour, res.Event.EventEndAt.Sub(res.Event.EventStartAt))
	assert.True(t, strings.HasPrefix(res.Event.EventSlug, base.EventSlug+"-"))

	// latest_instance_date = instant terakhir (12 Jan 2024)
	latest := time.Time(res.Rule.RecurrenceRuleLatestInstanceDate)
	assert.Equal(t, 12, latest.Day())
	assert.Equal(t, time.January, latest.Month())

	assert.Equal(t, "FREQ=WEEKLY;INTERVAL=1;COUNT=6;BYDAY=MO,WE,FR", res.Rule.RecurrenceRuleString)

	// 2 row event: base + first instance
	var evCount int64
	require.NoError(t, svc.DB.Model(&model.EventModel{}).Count(&evCount).Error)
	assert.EqualValues(t, 2, evCount)
}

func TestCreateEventRecurringDegenerate(t *testing.T) {
	t.Parallel()
	svc, _, admin, org := newTestService(t)

	// recurrence_end_at sebelum start → expand kosong → base + rule saja
	end := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	in := CreateEventInput{
		ActorID:        admin.UserID,
		Name:           "Event Tanpa Instance",
		OrganizationID: org.OrganizationID,
		StartAt:        time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		EndAt:          time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Recurrence: &RecurrenceInput{
			Frequency: "DAILY",
			EndAt:     &end,
		},
	}

	res, err := svc.CreateEvent(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, res.Rule)

	// Yang dikembalikan base event-nya sendiri
	assert.True(t, res.Event.EventIsBaseRecurringEvent)

	// Fallback latest_instance_date = start
	latest := time.Time(res.Rule.RecurrenceRuleLatestInstanceDate)
	assert.Equal(t, in.StartAt.Year(), latest.Year())
	assert.Equal(t, in.StartAt.Month(), latest.Month())
	assert.Equal(t, in.StartAt.Day(), latest.Day())

	var evCount int64
	require.NoError(t, svc.DB.Model(&model.EventModel{}).Count(&evCount).Error)
	assert.EqualValues(t, 1, evCount)
}

func TestCreateEventAuthz(t *testing.T) {
	t.Parallel()

	t.Run("anggota biasa ditolak", func(t *testing.T) {
		t.Parallel()
		svc, _, admin, org := newTestService(t)
		member := seedUser(t, svc.DB, constants.RoleUser)
		seedMembership(t, svc.DB, org.OrganizationID, member.UserID, constants.OrgRoleMember)
		_ = admin

		_, err := svc.CreateEvent(context.Background(), CreateEventInput{
			ActorID:        member.UserID,
			Name:           "Event Uji Akses",
			OrganizationID: org.OrganizationID,
			StartAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		})
		requireOpError(t, err, CodeUnauthorized, 403)
	})

	t.Run("admin organisasi lain ditolak", func(t *testing.T) {
		t.Parallel()
		svc, _, admin, _ := newTestService(t)
		otherOrg := seedOrg(t, svc.DB, admin.UserID)

		_, err := svc.CreateEvent(context.Background(), CreateEventInput{
			ActorID:        admin.UserID,
			Name:           "Event Uji Akses",
			OrganizationID: otherOrg.OrganizationID,
			StartAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		})
		requireOpError(t, err, CodeUnauthorized, 403)
	})

	t.Run("owner global bypass", func(t *testing.T) {
		t.Parallel()
		svc, _, admin, org := newTestService(t)
		owner := seedUser(t, svc.DB, constants.RoleOwner)
		_ = admin

		res, err := svc.CreateEvent(context.Background(), CreateEventInput{
			ActorID:        owner.UserID,
			Name:           "Event Owner",
			OrganizationID: org.OrganizationID,
			StartAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.NotNil(t, res.Event)
	})

	t.Run("organisasi tidak ada", func(t *testing.T) {
		t.Parallel()
		svc, _, admin, _ := newTestService(t)

		_, err := svc.CreateEvent(context.Background(), CreateEventInput{
			ActorID:        admin.UserID,
			Name:           "Event Uji Akses",
			OrganizationID: mustUUID(t),
			StartAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		})
		requireOpError(t, err, CodeResourceNotFound, 404)
	})

	t.Run("actor tidak ada", func(t *testing.T) {
		t.Parallel()
		svc, _, _, org := newTestService(t)

		_, err := svc.CreateEvent(context.Background(), CreateEventInput{
			ActorID:        mustUUID(t),
			Name:           "Event Uji Akses",
			OrganizationID: org.OrganizationID,
			StartAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		})
		requireOpError(t, err, CodeUnauthenticated, 401)
	})
}

func TestCreateEventValidation(t *testing.T) {
	t.Parallel()
	svc, _, admin, org := newTestService(t)

	t.Run("media type di luar allow-list, issue per indeks", func(t *testing.T) {
		_, err := svc.CreateEvent(context.Background(), CreateEventInput{
			ActorID:        admin.UserID,
			Name:           "Event Lampiran",
			OrganizationID: org.OrganizationID,
			StartAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			Attachments: []AttachmentInput{
				{MediaType: "image/png", Reader: strings.NewReader("ok")},
				{MediaType: "application/pdf", Reader: strings.NewReader("nope")},
			},
		})
		op := requireOpError(t, err, CodeInvalidArguments, 422)
		require.Len(t, op.Issues, 1)
		assert.Equal(t, "attachments[1].media_type", op.Issues[0].Path)
	})

	t.Run("end sebelum start", func(t *testing.T) {
		_, err := svc.CreateEvent(context.Background(), CreateEventInput{
			ActorID:        admin.UserID,
			Name:           "Event Mundur",
			OrganizationID: org.OrganizationID,
			StartAt:        time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		})
		requireOpError(t, err, CodeInvalidArguments, 422)
	})

	t.Run("recurrence tidak valid", func(t *testing.T) {
		_, err := svc.CreateEvent(context.Background(), CreateEventInput{
			ActorID:        admin.UserID,
			Name:           "Event Rule Salah",
			OrganizationID: org.OrganizationID,
			StartAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			Recurrence:     &RecurrenceInput{Frequency: "WEEKLY", ByDay: []string{"XX"}},
		})
		op := requireOpError(t, err, CodeInvalidArguments, 422)
		require.Len(t, op.Issues, 1)
		assert.Equal(t, "recurrence", op.Issues[0].Path)
	})
}

func TestCreateEventDuplicateName(t *testing.T) {
	t.Parallel()
	svc, _, admin, org := newTestService(t)

	in := CreateEventInput{
		ActorID:        admin.UserID,
		Name:           "Event Kembar",
		OrganizationID: org.OrganizationID,
		StartAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		EndAt:          time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	_, err := svc.CreateEvent(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.CreateEvent(context.Background(), in)
	requireOpError(t, err, CodeConflict, 409)
}

func TestCreateEventAttachments(t *testing.T) {
	t.Parallel()

	t.Run("upload sukses menandai blob_synced_at", func(t *testing.T) {
		t.Parallel()
		svc, blobs, admin, org := newTestService(t)

		res, err := svc.CreateEvent(context.Background(), CreateEventInput{
			ActorID:        admin.UserID,
			Name:           "Event Berlampiran",
			OrganizationID: org.OrganizationID,
			StartAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			Attachments: []AttachmentInput{
				{MediaType: "image/png", Reader: strings.NewReader("png-bytes")},
				{MediaType: "video/mp4", Reader: strings.NewReader("mp4-bytes")},
			},
		})
		require.NoError(t, err)
		require.Len(t, res.Attachments, 2)
		assert.Equal(t, 2, blobs.uploadCount())
		for _, att := range res.Attachments {
			assert.NotNil(t, att.EventAttachmentBlobSyncedAt)
			assert.NotEmpty(t, att.EventAttachmentURL)
			assert.Equal(t, res.Event.EventID, att.EventAttachmentEventID)
		}
	})

	t.Run("blob gagal: row tetap commit, error dilaporkan", func(t *testing.T) {
		t.Parallel()
		svc, blobs, admin, org := newTestService(t)
		blobs.failAll = true

		_, err := svc.CreateEvent(context.Background(), CreateEventInput{
			ActorID:        admin.UserID,
			Name:           "Event Storage Down",
			OrganizationID: org.OrganizationID,
			StartAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			Attachments: []AttachmentInput{
				{MediaType: "image/jpeg", Reader: strings.NewReader("jpg-bytes")},
			},
		})
		requireOpError(t, err, CodeUnexpected, 502)

		// Event + row lampiran tetap tercatat; blob_synced_at NULL (target sweep)
		var ev model.EventModel
		require.NoError(t, svc.DB.First(&ev, "event_name = ?", "Event Storage Down").Error)
		var atts []model.EventAttachmentModel
		require.NoError(t, svc.DB.Find(&atts, "event_attachment_event_id = ?", ev.EventID).Error)
		require.Len(t, atts, 1)
		assert.Nil(t, atts[0].EventAttachmentBlobSyncedAt)
	})

	t.Run("object storage tidak tersedia", func(t *testing.T) {
		t.Parallel()
		svc, _, admin, org := newTestService(t)
		svc.Blobs = nil

		_, err := svc.CreateEvent(context.Background(), CreateEventInput{
			ActorID:        admin.UserID,
			Name:           "Event Tanpa Storage",
			OrganizationID: org.OrganizationID,
			StartAt:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			Attachments: []AttachmentInput{
				{MediaType: "image/png", Reader: strings.NewReader("x")},
			},
		})
		requireOpError(t, err, CodeUnexpected, 503)
	})
}
