package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iamanishx/talawa-api/internals/constants"
	"github.com/iamanishx/talawa-api/internals/features/organizations/dto"
	"github.com/iamanishx/talawa-api/internals/features/organizations/model"
	usermodel "github.com/iamanishx/talawa-api/internals/features/users/model"
	helper "github.com/iamanishx/talawa-api/internals/helpers"
)

type OrganizationController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewOrganizationController(db *gorm.DB) *OrganizationController {
	return &OrganizationController{DB: db, Validate: validator.New()}
}

// 🟢 POST /api/a/organizations
// Pembuat otomatis jadi admin organisasi (satu transaksi dengan insert org).
func (ctrl *OrganizationController) CreateOrganization(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Validasi input gagal")
	}

	org := model.OrganizationModel{
		OrganizationName:            strings.TrimSpace(req.Name),
		OrganizationSlug:            helper.GenerateSlug(req.Name),
		OrganizationDescription:     req.Description,
		OrganizationCreatedByUserID: actorID,
	}

	txErr := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&model.OrganizationModel{}).
			Where("organization_slug = ?", org.OrganizationSlug).
			Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return fiber.NewError(fiber.StatusConflict, "Nama organisasi sudah dipakai")
		}

		if err := tx.Create(&org).Error; err != nil {
			return err
		}

		membership := model.OrganizationMemberModel{
			OrganizationMemberOrganizationID: org.OrganizationID,
			OrganizationMemberUserID:         actorID,
			OrganizationMemberRole:           constants.OrgRoleAdmin,
		}
		return tx.Create(&membership).Error
	})
	if txErr != nil {
		var fe *fiber.Error
		if errors.As(txErr, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		log.Printf("[ERROR] create organization: %v", txErr)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan organisasi")
	}

	return helper.JsonCreated(c, "Organisasi berhasil dibuat", dto.ToOrganizationResponse(&org))
}

// 🟢 POST /api/a/organizations/:id/members
// Hanya admin organisasi (atau owner global) yang boleh menambah anggota.
func (ctrl *OrganizationController) AddMember(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	actorRole := helper.GetUserRoleFromToken(c)

	orgID, perr := uuid.Parse(c.Params("id"))
	if perr != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Organization ID tidak valid")
	}

	var req dto.AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}
	if err := ctrl.Validate.Struct(&req); err != nil {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Validasi input gagal")
	}
	if req.Role == "" {
		req.Role = constants.OrgRoleMember
	}

	var membership model.OrganizationMemberModel
	txErr := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		var org model.OrganizationModel
		if err := tx.First(&org, "organization_id = ?", orgID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Organisasi tidak ditemukan")
			}
			return err
		}

		if actorRole != constants.RoleOwner {
			var actorMembership model.OrganizationMemberModel
			if err := tx.First(&actorMembership,
				"organization_member_organization_id = ? AND organization_member_user_id = ?",
				orgID, actorID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorAdmin("anggota organisasi"))
				}
				return err
			}
			if !constants.IsOrgAdminRole(actorMembership.OrganizationMemberRole) {
				return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorAdmin("anggota organisasi"))
			}
		}

		var user usermodel.UserModel
		if err := tx.First(&user, "user_id = ?", req.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "User tidak ditemukan")
			}
			return err
		}

		var cnt int64
		if err := tx.Model(&model.OrganizationMemberModel{}).
			Where("organization_member_organization_id = ? AND organization_member_user_id = ?", orgID, req.UserID).
			Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return fiber.NewError(fiber.StatusConflict, "User sudah jadi anggota organisasi")
		}

		membership = model.OrganizationMemberModel{
			OrganizationMemberOrganizationID: orgID,
			OrganizationMemberUserID:         req.UserID,
			OrganizationMemberRole:           req.Role,
		}
		return tx.Create(&membership).Error
	})
	if txErr != nil {
		var fe *fiber.Error
		if errors.As(txErr, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		log.Printf("[ERROR] add member: %v", txErr)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menambah anggota")
	}

	return helper.JsonCreated(c, "Anggota berhasil ditambahkan", dto.ToOrganizationMemberResponse(&membership))
}
