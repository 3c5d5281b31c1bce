package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/widyatama/go-account-api/internal/domain/entity"
	"github.com/widyatama/go-account-api/internal/domain/repository"
)

const uniqueViolation = "23505"

const accountCols = `
	id, email, password_hash, name, avatar_url, role, status,
	is_email_verified, email_verification_token, email_verification_expires_at,
	password_reset_token, password_reset_expires_at,
	refresh_token_hash, last_login_at,
	deleted, deleted_at, deleted_by,
	created_at, updated_at`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	a := &entity.Account{}
	var (
		verifyTok *string
		resetTok  *string
		deletedBy *string
	)
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.AvatarURL, &a.Role, &a.Status,
		&a.IsEmailVerified, &verifyTok, &a.EmailVerificationExpiresAt,
		&resetTok, &a.PasswordResetExpiresAt,
		&a.RefreshTokenHash, &a.LastLoginAt,
		&a.Deleted, &a.DeletedAt, &deletedBy,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if verifyTok != nil {
		a.EmailVerificationToken = *verifyTok
	}
	if resetTok != nil {
		a.PasswordResetToken = *resetTok
	}
	if deletedBy != nil {
		a.DeletedBy = *deletedBy
	}
	return a, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (
			email, password_hash, name, avatar_url, role, status,
			is_email_verified, email_verification_token, email_verification_expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, a.Email, a.PasswordHash, a.Name, a.AvatarURL, a.Role, a.Status,
		a.IsEmailVerified, nullable(a.EmailVerificationToken), a.EmailVerificationExpiresAt)

	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `
		SELECT `+accountCols+`
		FROM accounts
		WHERE id = $1 AND NOT deleted
	`, id))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `
		SELECT `+accountCols+`
		FROM accounts
		WHERE email = $1 AND NOT deleted
	`, email))
}

func (r *AccountRepository) GetByVerificationToken(ctx context.Context, token string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `
		SELECT `+accountCols+`
		FROM accounts
		WHERE email_verification_token = $1 AND NOT deleted
	`, token))
}

func (r *AccountRepository) GetByResetToken(ctx context.Context, token string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `
		SELECT `+accountCols+`
		FROM accounts
		WHERE password_reset_token = $1 AND NOT deleted
	`, token))
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id, name, avatarURL string) (*entity.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `
		UPDATE accounts
		SET name = COALESCE(NULLIF($2, ''), name),
		    avatar_url = COALESCE(NULLIF($3, ''), avatar_url),
		    updated_at = now()
		WHERE id = $1 AND NOT deleted
		RETURNING `+accountCols+`
	`, id, name, avatarURL))
}

func (r *AccountRepository) SetVerificationToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	return r.exec(ctx, `
		UPDATE accounts
		SET email_verification_token = $2,
		    email_verification_expires_at = $3,
		    updated_at = now()
		WHERE id = $1 AND NOT deleted
	`, id, token, expiresAt)
}

func (r *AccountRepository) MarkVerified(ctx context.Context, id string) error {
	return r.exec(ctx, `
		UPDATE accounts
		SET is_email_verified = TRUE,
		    status = 'active',
		    email_verification_token = NULL,
		    email_verification_expires_at = NULL,
		    updated_at = now()
		WHERE id = $1 AND NOT deleted
	`, id)
}

func (r *AccountRepository) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	return r.exec(ctx, `
		UPDATE accounts
		SET password_reset_token = $2,
		    password_reset_expires_at = $3,
		    updated_at = now()
		WHERE id = $1 AND NOT deleted
	`, id, token, expiresAt)
}

func (r *AccountRepository) ClearResetToken(ctx context.Context, id string) error {
	return r.exec(ctx, `
		UPDATE accounts
		SET password_reset_token = NULL,
		    password_reset_expires_at = NULL,
		    updated_at = now()
		WHERE id = $1 AND NOT deleted
	`, id)
}

func (r *AccountRepository) ResetCredentials(ctx context.Context, id, passwordHash string) error {
	return r.exec(ctx, `
		UPDATE accounts
		SET password_hash = $2,
		    password_reset_token = NULL,
		    password_reset_expires_at = NULL,
		    refresh_token_hash = '',
		    updated_at = now()
		WHERE id = $1 AND NOT deleted
	`, id, passwordHash)
}

func (r *AccountRepository) SetRefreshTokenHash(ctx context.Context, id, hash string) error {
	return r.exec(ctx, `
		UPDATE accounts
		SET refresh_token_hash = $2,
		    updated_at = now()
		WHERE id = $1 AND NOT deleted
	`, id, hash)
}

func (r *AccountRepository) RecordLogin(ctx context.Context, id, refreshTokenHash string, at time.Time) error {
	return r.exec(ctx, `
		UPDATE accounts
		SET refresh_token_hash = $2,
		    last_login_at = $3,
		    updated_at = now()
		WHERE id = $1 AND NOT deleted
	`, id, refreshTokenHash, at)
}

func (r *AccountRepository) SoftDelete(ctx context.Context, id, deletedBy string) error {
	return r.exec(ctx, `
		UPDATE accounts
		SET deleted = TRUE,
		    deleted_at = now(),
		    deleted_by = $2,
		    refresh_token_hash = '',
		    updated_at = now()
		WHERE id = $1 AND NOT deleted
	`, id, deletedBy)
}

func (r *AccountRepository) HardDelete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) ListIncludingDeleted(ctx context.Context) ([]*entity.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountCols+`
		FROM accounts
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AccountRepository) exec(ctx context.Context, sql string, args ...any) error {
	res, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
