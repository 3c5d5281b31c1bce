package entity

import (
	"time"
)

// Role is an informational label carried into signed tokens.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

// Status is the authoritative account standing. An account must be
// StatusActive to log in; IsEmailVerified is kept separately as an
// audit flag so the two login failure modes stay distinguishable.
type Status string

const (
	StatusInactive  Status = "inactive"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Account is the aggregate root for the credential lifecycle.
// PasswordHash holds a bcrypt hash, never a plaintext password.
// RefreshTokenHash holds the SHA-256 of the single currently valid
// refresh token, or "" when logged out.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	AvatarURL    string
	Role         Role
	Status       Status

	IsEmailVerified            bool
	EmailVerificationToken     string
	EmailVerificationExpiresAt *time.Time

	PasswordResetToken     string
	PasswordResetExpiresAt *time.Time

	RefreshTokenHash string
	LastLoginAt      *time.Time

	Deleted   bool
	DeletedAt *time.Time
	DeletedBy string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sanitized returns a copy safe to cross the transport boundary:
// the password hash, refresh-token hash and any outstanding one-use
// tokens are stripped.
func (a *Account) Sanitized() *Account {
	if a == nil {
		return nil
	}
	cp := *a
	cp.PasswordHash = ""
	cp.RefreshTokenHash = ""
	cp.EmailVerificationToken = ""
	cp.EmailVerificationExpiresAt = nil
	cp.PasswordResetToken = ""
	cp.PasswordResetExpiresAt = nil
	return &cp
}
