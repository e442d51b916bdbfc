package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventAttachmentModel: satu row per lampiran yang diterima.
// Blob di object store ditulis SETELAH row diterima di transaksi, jadi ada
// jendela "row ada, blob belum" — blob_synced_at NULL menandai kondisi itu
// dan jadi target sweep rekonsiliasi (lihat scheduler/attachment_reconciler.go).
type EventAttachmentModel struct {
	EventAttachmentID      uuid.UUID `gorm:"column:event_attachment_id;type:uuid;primaryKey" json:"event_attachment_id"`
	EventAttachmentEventID uuid.UUID `gorm:"column:event_attachment_event_id;type:uuid;not null;index:idx_event_attachments_event_id" json:"event_attachment_event_id"`

	EventAttachmentCreatedByUserID uuid.UUID `gorm:"column:event_attachment_created_by_user_id;type:uuid;not null" json:"event_attachment_created_by_user_id"`

	EventAttachmentMediaType string `gorm:"column:event_attachment_media_type;type:varchar(64);not null" json:"event_attachment_media_type"`
	EventAttachmentObjectKey string `gorm:"column:event_attachment_object_key;type:varchar(255);not null;uniqueIndex:ux_event_attachments_object_key" json:"event_attachment_object_key"`
	EventAttachmentURL       string `gorm:"column:event_attachment_url;type:text" json:"event_attachment_url"`

	EventAttachmentBlobSyncedAt *time.Time `gorm:"column:event_attachment_blob_synced_at" json:"event_attachment_blob_synced_at,omitempty"`

	EventAttachmentCreatedAt time.Time      `gorm:"column:event_attachment_created_at;autoCreateTime" json:"event_attachment_created_at"`
	EventAttachmentDeletedAt gorm.DeletedAt `gorm:"column:event_attachment_deleted_at;index" json:"event_attachment_deleted_at,omitempty"`
}

func (EventAttachmentModel) TableName() string {
	return "event_attachments"
}

func (m *EventAttachmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.EventAttachmentID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		m.EventAttachmentID = id
	}
	return nil
}
