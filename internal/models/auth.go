package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	LoginID  string `json:"login_id" validate:"required"`
	Password string `json:"password" validate:"required"`
	IP       string `json:"-"`
}

// RegisterRequest is the student self-registration payload. The enrollment
// number doubles as the login id.
type RegisterRequest struct {
	SignName     string `json:"sign_name" validate:"required"`
	EnrollmentNo string `json:"enrollment_no" validate:"required"`
	Department   string `json:"department" validate:"required"`
	Year         int    `json:"year" validate:"required,min=1,max=6"`
	Email        string `json:"email"`
	Password     string `json:"password" validate:"required,min=6"`
}

// CreateModeratorRequest is the admin payload for provisioning a moderator.
type CreateModeratorRequest struct {
	LoginID    string `json:"login_id"`
	SignName   string `json:"sign_name"`
	Department string `json:"department"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID         string   `json:"id"`
	LoginID    string   `json:"login_id"`
	Role       UserRole `json:"role"`
	SignName   *string  `json:"sign_name,omitempty"`
	Email      *string  `json:"email,omitempty"`
	Department *string  `json:"department,omitempty"`
	Year       *int     `json:"year,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID     string   `json:"user_id"`
	LoginID    string   `json:"login_id"`
	Role       UserRole `json:"role"`
	Department *string  `json:"department,omitempty"`
	Year       *int     `json:"year,omitempty"`
	jwt.RegisteredClaims
}

// Viewer converts the token payload into a request identity.
func (c *JWTClaims) Viewer() Viewer {
	if c == nil {
		return GuestViewer()
	}
	return Viewer{
		UserID:     c.UserID,
		LoginID:    c.LoginID,
		Role:       c.Role,
		Department: c.Department,
		Year:       c.Year,
	}
}
