package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iamanishx/talawa-api/internals/features/events/recurrence"
)

// BlobStore adalah kontrak object storage yang dibutuhkan service:
// put stream + pembentukan key opaque + URL publik. OSSService memenuhinya.
type BlobStore interface {
	UploadStream(ctx context.Context, key string, r io.Reader, contentType string, inline bool, cacheForever bool) error
	BuildObjectKey(dir, ext string) string
	PublicURL(key string) string
}

type EventService struct {
	DB    *gorm.DB
	Blobs BlobStore
	Clock recurrence.Clock
}

func NewEventService(db *gorm.DB, blobs BlobStore, clock recurrence.Clock) *EventService {
	if clock == nil {
		clock = recurrence.SystemClock
	}
	return &EventService{DB: db, Blobs: blobs, Clock: clock}
}

/* ===============================
   Input / output types
=================================*/

type RecurrenceInput struct {
	Frequency  string     `json:"frequency"`
	Interval   int        `json:"interval"`
	Count      *int       `json:"count,omitempty"`
	EndAt      *time.Time `json:"recurrence_end_at,omitempty"`
	ByDay      []string   `json:"by_day,omitempty"`
	ByMonth    []int      `json:"by_month,omitempty"`
	ByMonthDay []int      `json:"by_month_day,omitempty"`
}

type AttachmentInput struct {
	MediaType string
	Reader    io.Reader
}

type CreateEventInput struct {
	ActorID        uuid.UUID
	Name           string
	Description    *string
	OrganizationID uuid.UUID
	StartAt        time.Time
	EndAt          time.Time
	Recurrence     *RecurrenceInput
	Attachments    []AttachmentInput
}

type ExpandInstancesInput struct {
	ActorID     uuid.UUID
	EventID     uuid.UUID // base atau instance, di-resolve ke base-nya
	WindowStart *time.Time
	WindowEnd   *time.Time
}
