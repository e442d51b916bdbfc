package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamanishx/talawa-api/internals/constants"
	"github.com/iamanishx/talawa-api/internals/features/events/model"
)

func TestExpandInstancesMaterializesWindow(t *testing.T) {
	t.Parallel()
	svc, _, admin, org := newTestService(t)

	count := 6
	created, err := svc.CreateEvent(context.Background(), CreateEventInput{
		ActorID:        admin.UserID,
		Name:           "Kajian Mingguan",
		OrganizationID: org.OrganizationID,
		StartAt:        time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		EndAt:          time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC),
		Recurrence: &RecurrenceInput{
			Frequency: "WEEKLY",
			Interval:  1,
			Count:     &count,
			ByDay:     []string{"MO", "WE", "FR"},
		},
	})
	require.NoError(t, err)

	out, err := svc.ExpandInstances(context.Background(), ExpandInstancesInput{
		ActorID: admin.UserID,
		EventID: created.Event.EventID, // instance ID → resolve ke base
	})
	require.NoError(t, err)
	require.Len(t, out, 6)

	// Urut naik, durasi konsisten 2 jam, semua menunjuk base yang sama
	for i, inst := range out {
		if i > 0 {
			assert.True(t, out[i-1].EventStartAt.Before(inst.EventStartAt))
		}
		assert.Equal(t, 2*time.Hour, inst.EventEndAt.Sub(inst.EventStartAt))
		require.NotNil(t, inst.EventBaseRecurringEventID)
		assert.Equal(t, *created.Event.EventBaseRecurringEventID, *inst.EventBaseRecurringEventID)
		assert.False(t, inst.EventIsBaseRecurringEvent)
	}

	// base + 6 instance
	var evCount int64
	require.NoError(t, svc.DB.Model(&model.EventModel{}).Count(&evCount).Error)
	assert.EqualValues(t, 7, evCount)
}

func TestExpandInstancesIdempotent(t *testing.T) {
	t.Parallel()
	svc, _, admin, org := newTestService(t)

	count := 4
	created, err := svc.CreateEvent(context.Background(), CreateEventInput{
		ActorID:        admin.UserID,
		Name:           "Event Idempoten",
		OrganizationID: org.OrganizationID,
		StartAt:        time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		EndAt:          time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Recurrence: &RecurrenceInput{
			Frequency: "DAILY",
			Count:     &count,
		},
	})
	require.NoError(t, err)

	in := ExpandInstancesInput{ActorID: admin.UserID, EventID: created.Event.EventID}

	first, err := svc.ExpandInstances(context.Background(), in)
	require.NoError(t, err)
	again, err := svc.ExpandInstances(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, first, 4)
	require.Len(t, again, 4)
	for i := range first {
		assert.Equal(t, first[i].EventID, again[i].EventID)
	}

	var evCount int64
	require.NoError(t, svc.DB.Model(&model.EventModel{}).Count(&evCount).Error)
	assert.EqualValues(t, 5, evCount) // base + 4, tanpa duplikat
}

func TestExpandInstancesWindowFilter(t *testing.T) {
	t.Parallel()
	svc, _, admin, org := newTestService(t)

	count := 6
	created, err := svc.CreateEvent(context.Background(), CreateEventInput{
		ActorID:        admin.UserID,
		Name:           "Event Jendela",
		OrganizationID: org.OrganizationID,
		StartAt:        time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		EndAt:          time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Recurrence: &RecurrenceInput{
			Frequency: "WEEKLY",
			Count:     &count,
			ByDay:     []string{"MO", "WE", "FR"},
		},
	})
	require.NoError(t, err)

	ws := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	out, err := svc.ExpandInstances(context.Background(), ExpandInstancesInput{
		ActorID:     admin.UserID,
		EventID:     created.Event.EventID,
		WindowStart: &ws,
	})
	require.NoError(t, err)

	// COUNT=6 dari 1 Jan: 1,3,5,8,10,12 Jan → jendela ≥ 8 Jan = 3 instance
	require.Len(t, out, 3)
	assert.Equal(t, 8, out[0].EventStartAt.Day())
	assert.Equal(t, 12, out[2].EventStartAt.Day())
}

func TestExpandInstancesAdvancesLatest(t *testing.T) {
	t.Parallel()
	svc, _, admin, org := newTestService(t)

	// Tanpa COUNT/UNTIL: create memakai horizon default (testNow + 1 tahun)
	created, err := svc.CreateEvent(context.Background(), CreateEventInput{
		ActorID:        admin.UserID,
		Name:           "Event Horizon",
		OrganizationID: org.OrganizationID,
		StartAt:        time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		EndAt:          time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Recurrence: &RecurrenceInput{
			Frequency: "WEEKLY",
			ByDay:     []string{"MO"},
		},
	})
	require.NoError(t, err)
	latestAtCreate := time.Time(created.Rule.RecurrenceRuleLatestInstanceDate)

	// Jendela melewati horizon create → instant baru → high-water mark maju
	we := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.ExpandInstances(context.Background(), ExpandInstancesInput{
		ActorID:   admin.UserID,
		EventID:   created.Event.EventID,
		WindowEnd: &we,
	})
	require.NoError(t, err)

	var rule model.RecurrenceRuleModel
	require.NoError(t, svc.DB.First(&rule, "recurrence_rule_id = ?", created.Rule.RecurrenceRuleID).Error)
	latestAfter := time.Time(rule.RecurrenceRuleLatestInstanceDate)
	assert.True(t, latestAfter.After(latestAtCreate),
		"latest_instance_date harus maju: %s vs %s", latestAfter, latestAtCreate)
}

func TestExpandInstancesGuards(t *testing.T) {
	t.Parallel()

	t.Run("event non-recurring ditolak", func(t *testing.T) {
		t.Parallel()
		svc, _, admin, org := newTestService(t)

		created, err := svc.CreateEvent(context.Background(), CreateEventInput{
			ActorID:        admin.UserID,
			Name:           "Event Sekali",
			OrganizationID: org.OrganizationID,
			StartAt:        time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		_, err = svc.ExpandInstances(context.Background(), ExpandInstancesInput{
			ActorID: admin.UserID,
			EventID: created.Event.EventID,
		})
		requireOpError(t, err, CodeInvalidArguments, 422)
	})

	t.Run("bukan anggota organisasi ditolak", func(t *testing.T) {
		t.Parallel()
		svc, _, admin, org := newTestService(t)
		outsider := seedUser(t, svc.DB, constants.RoleUser)

		count := 3
		created, err := svc.CreateEvent(context.Background(), CreateEventInput{
			ActorID:        admin.UserID,
			Name:           "Event Internal",
			OrganizationID: org.OrganizationID,
			StartAt:        time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			Recurrence:     &RecurrenceInput{Frequency: "DAILY", Count: &count},
		})
		require.NoError(t, err)

		_, err = svc.ExpandInstances(context.Background(), ExpandInstancesInput{
			ActorID: outsider.UserID,
			EventID: created.Event.EventID,
		})
		requireOpError(t, err, CodeUnauthorized, 403)
	})

	t.Run("anggota biasa boleh expand", func(t *testing.T) {
		t.Parallel()
		svc, _, admin, org := newTestService(t)
		member := seedUser(t, svc.DB, constants.RoleUser)
		seedMembership(t, svc.DB, org.OrganizationID, member.UserID, constants.OrgRoleMember)

		count := 3
		created, err := svc.CreateEvent(context.Background(), CreateEventInput{
			ActorID:        admin.UserID,
			Name:           "Event Bersama",
			OrganizationID: org.OrganizationID,
			StartAt:        time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			Recurrence:     &RecurrenceInput{Frequency: "DAILY", Count: &count},
		})
		require.NoError(t, err)

		out, err := svc.ExpandInstances(context.Background(), ExpandInstancesInput{
			ActorID: member.UserID,
			EventID: created.Event.EventID,
		})
		require.NoError(t, err)
		assert.Len(t, out, 3)
	})

	t.Run("event tidak ditemukan", func(t *testing.T) {
		t.Parallel()
		svc, _, admin, _ := newTestService(t)

		_, err := svc.ExpandInstances(context.Background(), ExpandInstancesInput{
			ActorID: admin.UserID,
			EventID: mustUUID(t),
		})
		requireOpError(t, err, CodeResourceNotFound, 404)
	})
}
