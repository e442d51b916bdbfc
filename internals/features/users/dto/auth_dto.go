package dto

import (
	"github.com/google/uuid"

	"github.com/iamanishx/talawa-api/internals/features/users/model"
)

// 🔹 Request register/login
type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// 🔹 Response
type UserResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	UserFullName string    `json:"user_full_name"`
	UserEmail    string    `json:"user_email"`
	UserRole     string    `json:"user_role"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

func ToUserResponse(m *model.UserModel) UserResponse {
	return UserResponse{
		UserID:       m.UserID,
		UserFullName: m.UserFullName,
		UserEmail:    m.UserEmail,
		UserRole:     m.UserRole,
	}
}
