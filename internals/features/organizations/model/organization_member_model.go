package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrganizationMemberModel: keanggotaan user di satu organisasi + role-nya.
// Role "admin"/"dkm" = administrator organisasi; "member" = anggota biasa.
type OrganizationMemberModel struct {
	OrganizationMemberID             uuid.UUID `gorm:"column:organization_member_id;type:uuid;primaryKey" json:"organization_member_id"`
	OrganizationMemberOrganizationID uuid.UUID `gorm:"column:organization_member_organization_id;type:uuid;not null;uniqueIndex:ux_organization_members_org_user" json:"organization_member_organization_id"`
	OrganizationMemberUserID         uuid.UUID `gorm:"column:organization_member_user_id;type:uuid;not null;uniqueIndex:ux_organization_members_org_user" json:"organization_member_user_id"`
	OrganizationMemberRole           string    `gorm:"column:organization_member_role;type:varchar(20);not null;default:member" json:"organization_member_role"`

	OrganizationMemberCreatedAt time.Time `gorm:"column:organization_member_created_at;autoCreateTime" json:"organization_member_created_at"`
}

func (OrganizationMemberModel) TableName() string {
	return "organization_members"
}

func (m *OrganizationMemberModel) BeforeCreate(tx *gorm.DB) error {
	if m.OrganizationMemberID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		m.OrganizationMemberID = id
	}
	return nil
}
