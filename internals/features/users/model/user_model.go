package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	UserFullName string    `gorm:"column:user_full_name;type:varchar(255);not null" json:"user_full_name"`
	UserEmail    string    `gorm:"column:user_email;type:varchar(255);not null;uniqueIndex:ux_users_email" json:"user_email"`
	UserPassword string    `gorm:"column:user_password;type:text;not null" json:"-"`

	// Role global: "user" atau "owner" (owner = superadmin, bypass cek organisasi)
	UserRole string `gorm:"column:user_role;type:varchar(20);not null;default:user" json:"user_role"`

	UserCreatedAt time.Time      `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt time.Time      `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
	UserDeletedAt gorm.DeletedAt `gorm:"column:user_deleted_at;index" json:"user_deleted_at,omitempty"`
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.UserID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		m.UserID = id
	}
	return nil
}
