package models

import "time"

// UserRole is the closed set of roles a viewer can hold. GUEST is never
// persisted; it stands for an unauthenticated request.
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleModerator UserRole = "MODERATOR"
	RoleStudent   UserRole = "STUDENT"
	RoleGuest     UserRole = "GUEST"
)

// Persisted reports whether the role can be stored on a user row.
func (r UserRole) Persisted() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleStudent:
		return true
	case RoleGuest:
		return false
	}
	return false
}

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	LoginID      string     `db:"login_id" json:"login_id"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         UserRole   `db:"role" json:"role"`
	SignName     *string    `db:"sign_name" json:"sign_name,omitempty"`
	Email        *string    `db:"email" json:"email,omitempty"`
	Department   *string    `db:"department" json:"department,omitempty"`
	Year         *int       `db:"year" json:"year,omitempty"`
	EnrollmentNo *string    `db:"enrollment_no" json:"enrollment_no,omitempty"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Viewer returns the request identity derived from the user row.
func (u *User) Viewer() Viewer {
	return Viewer{
		UserID:     u.ID,
		LoginID:    u.LoginID,
		Role:       u.Role,
		Department: u.Department,
		Year:       u.Year,
	}
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role   *UserRole
	Active *bool
	Search string
}

// Viewer is the identity every visibility decision is made against.
type Viewer struct {
	UserID     string   `json:"user_id,omitempty"`
	LoginID    string   `json:"login_id,omitempty"`
	Role       UserRole `json:"role"`
	Department *string  `json:"department,omitempty"`
	Year       *int     `json:"year,omitempty"`
}

// GuestViewer is the identity of an unauthenticated request.
func GuestViewer() Viewer {
	return Viewer{Role: RoleGuest}
}

// IsGuest reports whether the viewer is unauthenticated.
func (v Viewer) IsGuest() bool {
	return v.Role == RoleGuest || v.UserID == ""
}

// PurgeResult reports the rows touched by a non-admin purge.
type PurgeResult struct {
	ReassignedNotices int64 `json:"reassigned_notices"`
	UpdatedFAQLinks   int64 `json:"updated_faq_links"`
	UpdatedEmailLogs  int64 `json:"updated_email_logs"`
	DeletedUsers      int64 `json:"deleted_users"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
