package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationModel struct {
	OrganizationID          uuid.UUID `gorm:"column:organization_id;type:uuid;primaryKey" json:"organization_id"`
	OrganizationName        string    `gorm:"column:organization_name;type:varchar(255);not null" json:"organization_name"`
	OrganizationSlug        string    `gorm:"column:organization_slug;type:varchar(160);not null;uniqueIndex:ux_organizations_slug" json:"organization_slug"`
	OrganizationDescription *string   `gorm:"column:organization_description;type:text" json:"organization_description,omitempty"`

	OrganizationCreatedByUserID uuid.UUID `gorm:"column:organization_created_by_user_id;type:uuid;not null" json:"organization_created_by_user_id"`

	OrganizationCreatedAt time.Time      `gorm:"column:organization_created_at;autoCreateTime" json:"organization_created_at"`
	OrganizationUpdatedAt time.Time      `gorm:"column:organization_updated_at;autoUpdateTime" json:"organization_updated_at"`
	OrganizationDeletedAt gorm.DeletedAt `gorm:"column:organization_deleted_at;index" json:"organization_deleted_at,omitempty"`
}

func (OrganizationModel) TableName() string {
	return "organizations"
}

func (m *OrganizationModel) BeforeCreate(tx *gorm.DB) error {
	if m.OrganizationID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		m.OrganizationID = id
	}
	return nil
}
