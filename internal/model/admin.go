package model

import "time"

// Permission codes embedded in admin JWTs.
const (
	PermissionSuperAdmin    = "super_admin"
	PermissionSessionsRead  = "sessions:read"
	PermissionSessionsWrite = "sessions:write"
	PermissionStudentsRead  = "students:read"
	PermissionStudentsWrite = "students:write"
	PermissionTeachersRead  = "teachers:read"
	PermissionTeachersWrite = "teachers:write"
	PermissionPromote       = "students:promote"
)

// AllPermissions lists every known permission code, super admin excluded.
var AllPermissions = []string{
	PermissionSessionsRead,
	PermissionSessionsWrite,
	PermissionStudentsRead,
	PermissionStudentsWrite,
	PermissionTeachersRead,
	PermissionTeachersWrite,
	PermissionPromote,
}

// IsKnownPermission reports whether code is a recognized permission.
func IsKnownPermission(code string) bool {
	if code == PermissionSuperAdmin {
		return true
	}
	for _, p := range AllPermissions {
		if p == code {
			return true
		}
	}
	return false
}

// Admin represents an administrative user of one institution.
type Admin struct {
	ID            int       `json:"id"`
	InstitutionID int       `json:"institution_id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	PasswordHash  string    `json:"-"`
	Permissions   []string  `json:"permissions"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateAdminRequest is the payload for registering a new admin.
type CreateAdminRequest struct {
	InstitutionID int      `json:"institution_id" binding:"omitempty,min=1"`
	Name          string   `json:"name" binding:"required,min=3,max=100"`
	Email         string   `json:"email" binding:"required,email,max=255"`
	Password      string   `json:"password" binding:"required,min=6,max=128"`
	Permissions   []string `json:"permissions"`
}

// AdminLoginRequest is the payload for admin authentication.
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// AdminLoginResponse is returned after successful admin login.
type AdminLoginResponse struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
}
