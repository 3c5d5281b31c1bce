package repository

import (
	"context"
	"errors"
	"time"

	"github.com/widyatama/go-account-api/internal/domain/entity"
)

// ErrNotFound is returned when no visible account matches a lookup.
// Soft-deleted accounts are invisible to every method except the
// admin-only ListIncludingDeleted and HardDelete.
var ErrNotFound = errors.New("account not found")

// ErrDuplicateEmail is returned by Create when a non-deleted account
// already holds the email (unique partial index).
var ErrDuplicateEmail = errors.New("email already registered")

// AccountRepository defines the persistence contract for accounts.
// Every mutation touches a single record and is applied as one atomic
// statement; methods that change several fields (MarkVerified,
// RecordLogin, ResetCredentials) exist precisely so those field groups
// cannot be half-written.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error

	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetByVerificationToken(ctx context.Context, token string) (*entity.Account, error)
	GetByResetToken(ctx context.Context, token string) (*entity.Account, error)

	UpdateProfile(ctx context.Context, id, name, avatarURL string) (*entity.Account, error)

	// SetVerificationToken stores a fresh verification token and expiry,
	// overwriting any outstanding one.
	SetVerificationToken(ctx context.Context, id, token string, expiresAt time.Time) error

	// MarkVerified atomically sets IsEmailVerified, activates the account
	// and clears the verification token and its expiry.
	MarkVerified(ctx context.Context, id string) error

	SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error

	// ClearResetToken revokes an outstanding reset token without
	// touching the password. The lifecycle never needs it —
	// ResetCredentials consumes the token on success and an expired one
	// is inert — but the contract keeps it for out-of-band revocation.
	ClearResetToken(ctx context.Context, id string) error

	// ResetCredentials atomically installs a new password hash, clears the
	// reset token and expiry, and clears the refresh-token hash.
	ResetCredentials(ctx context.Context, id, passwordHash string) error

	// SetRefreshTokenHash replaces the stored refresh-token hash; an empty
	// hash clears it (logout).
	SetRefreshTokenHash(ctx context.Context, id, hash string) error

	// RecordLogin atomically stores the new refresh-token hash and the
	// login timestamp.
	RecordLogin(ctx context.Context, id, refreshTokenHash string, at time.Time) error

	SoftDelete(ctx context.Context, id, deletedBy string) error

	// Admin-only paths.
	HardDelete(ctx context.Context, id string) error
	ListIncludingDeleted(ctx context.Context) ([]*entity.Account, error)
}
