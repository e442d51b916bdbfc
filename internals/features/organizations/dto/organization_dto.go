package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/iamanishx/talawa-api/internals/features/organizations/model"
)

// 🔹 Request
type CreateOrganizationRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Role   string    `json:"role" validate:"omitempty,oneof=member admin dkm"`
}

// 🔹 Response
type OrganizationResponse struct {
	OrganizationID          uuid.UUID `json:"organization_id"`
	OrganizationName        string    `json:"organization_name"`
	OrganizationSlug        string    `json:"organization_slug"`
	OrganizationDescription *string   `json:"organization_description,omitempty"`
	OrganizationCreatedAt   time.Time `json:"organization_created_at"`
}

type OrganizationMemberResponse struct {
	OrganizationMemberID             uuid.UUID `json:"organization_member_id"`
	OrganizationMemberOrganizationID uuid.UUID `json:"organization_member_organization_id"`
	OrganizationMemberUserID         uuid.UUID `json:"organization_member_user_id"`
	OrganizationMemberRole           string    `json:"organization_member_role"`
}

func ToOrganizationResponse(m *model.OrganizationModel) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID:          m.OrganizationID,
		OrganizationName:        m.OrganizationName,
		OrganizationSlug:        m.OrganizationSlug,
		OrganizationDescription: m.OrganizationDescription,
		OrganizationCreatedAt:   m.OrganizationCreatedAt,
	}
}

func ToOrganizationMemberResponse(m *model.OrganizationMemberModel) OrganizationMemberResponse {
	return OrganizationMemberResponse{
		OrganizationMemberID:             m.OrganizationMemberID,
		OrganizationMemberOrganizationID: m.OrganizationMemberOrganizationID,
		OrganizationMemberUserID:         m.OrganizationMemberUserID,
		OrganizationMemberRole:           m.OrganizationMemberRole,
	}
}
