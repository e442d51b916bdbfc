package constants

import "fmt"

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrOnlyOwnersCanAccess = "❌ Hanya owner yang boleh mengakses fitur %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorOwner(feature string) string {
	return fmt.Sprintf(ErrOnlyOwnersCanAccess, feature)
}

// ==========================
// ✅ Role constants
// ==========================
const (
	// Role global (kolom user_role di tabel users)
	RoleUser  = "user"
	RoleOwner = "owner" // superadmin global, bypass semua cek organisasi

	// Role keanggotaan organisasi (kolom organization_member_role)
	OrgRoleMember = "member"
	OrgRoleAdmin  = "admin"
	OrgRoleDKM    = "dkm"
)

var (
	// Role organisasi yang dianggap administrator
	OrgAdminRoles = []string{OrgRoleAdmin, OrgRoleDKM}
)

func IsOrgAdminRole(role string) bool {
	for _, r := range OrgAdminRoles {
		if r == role {
			return true
		}
	}
	return false
}
