package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/widyatama/go-account-api/internal/domain/entity"
	"github.com/widyatama/go-account-api/internal/domain/repository"
	"github.com/widyatama/go-account-api/pkg/token"
)

var (
	ErrDuplicateAccount    = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailNotVerified    = errors.New("email not verified")
	ErrAccountNotActive    = errors.New("account not active")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrAlreadyVerified     = errors.New("email already verified")
	ErrAccountNotFound     = errors.New("account not found")
	ErrDeliveryFailed      = errors.New("notification delivery failed")
)

// PasswordHasher is the one-way credential hasher contract.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// TokenSigner mints signed bearer tokens for the two key domains.
type TokenSigner interface {
	GenerateAccessToken(accountID, email, role string) (string, time.Time, error)
	GenerateRefreshToken(accountID, email, role string) (string, time.Time, error)
}

// AccountIndexer mirrors accounts into a search index. Indexing is
// best-effort from the lifecycle's perspective.
type AccountIndexer interface {
	Index(ctx context.Context, a *entity.Account) error
	Search(ctx context.Context, query string, size int) ([]map[string]any, error)
}

// AvatarStorage stores an uploaded avatar and returns its public URL.
type AvatarStorage interface {
	Upload(ctx context.Context, accountID, filename, contentType string, r io.Reader) (string, error)
}

// TokenPair is an access/refresh pair minted together. Only the
// refresh token's hash is ever persisted.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// Service implements the credential lifecycle state machine over a
// single Account per operation. Collaborators are passed in
// explicitly; Indexer and Storage may be nil when the deployment has
// no search index or object store.
type Service struct {
	Repo     repository.AccountRepository
	Hasher   PasswordHasher
	Signer   TokenSigner
	Notifier Notifier
	Indexer  AccountIndexer
	Storage  AvatarStorage
	Logger   *logrus.Logger

	VerificationTTL time.Duration
	ResetTTL        time.Duration
}

func NewService(
	repo repository.AccountRepository,
	hasher PasswordHasher,
	signer TokenSigner,
	notifier Notifier,
	indexer AccountIndexer,
	storage AvatarStorage,
	log *logrus.Logger,
	verificationTTL, resetTTL time.Duration,
) *Service {
	if verificationTTL <= 0 {
		verificationTTL = 24 * time.Hour
	}
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &Service{
		Repo:            repo,
		Hasher:          hasher,
		Signer:          signer,
		Notifier:        notifier,
		Indexer:         indexer,
		Storage:         storage,
		Logger:          log,
		VerificationTTL: verificationTTL,
		ResetTTL:        resetTTL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// tokenLive reports whether a stored expiry is still in the future.
// The boundary is exclusive: an expiry equal to now is already dead.
func tokenLive(expiresAt *time.Time, now time.Time) bool {
	return expiresAt != nil && expiresAt.After(now)
}

type RegisterInput struct {
	Email     string
	Password  string
	Name      string
	AvatarURL string
	Role      entity.Role
}

// Register creates an inactive, unverified account and dispatches the
// verification message. The verification token never appears in the
// returned account; it travels only through the notifier.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.Account, error) {
	email := normalizeEmail(in.Email)

	_, err := s.Repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrDuplicateAccount
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	verifyTok, err := token.NewOpaque()
	if err != nil {
		return nil, fmt.Errorf("mint verification token: %w", err)
	}
	expires := time.Now().UTC().Add(s.VerificationTTL)

	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !role.Valid() {
		role = entity.RoleUser
	}

	acct := &entity.Account{
		Email:                      email,
		PasswordHash:               hash,
		Name:                       in.Name,
		AvatarURL:                  in.AvatarURL,
		Role:                       role,
		Status:                     entity.StatusInactive,
		IsEmailVerified:            false,
		EmailVerificationToken:     verifyTok,
		EmailVerificationExpiresAt: &expires,
	}
	if err := s.Repo.Create(ctx, acct); err != nil {
		// Two concurrent registrations can both pass the lookup; the
		// unique index decides the winner.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	if err := s.notify(ctx, acct.Email, NotifyVerification, map[string]any{
		"Name":      acct.Name,
		"Token":     verifyTok,
		"ExpiresAt": expires,
	}); err != nil {
		return nil, err
	}

	s.index(ctx, acct)
	return acct.Sanitized(), nil
}

type LoginResult struct {
	Account *entity.Account
	Tokens  TokenPair
}

// Login authenticates, mints a token pair and rotates the stored
// refresh-token hash. Unknown email and wrong password fail
// identically so the API leaks no account existence.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	acct, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if !s.Hasher.Verify(password, acct.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !acct.IsEmailVerified {
		return nil, ErrEmailNotVerified
	}
	if acct.Status != entity.StatusActive {
		return nil, ErrAccountNotActive
	}

	pair, err := s.mintPair(acct)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.Repo.RecordLogin(ctx, acct.ID, token.HashString(pair.RefreshToken), now); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	acct.LastLoginAt = &now

	return &LoginResult{Account: acct.Sanitized(), Tokens: pair}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. The
// presented token must hash to the stored value; rotation makes the
// previous token permanently unusable the instant the new hash lands.
// A suspended or deactivated account cannot refresh.
func (s *Service) Refresh(ctx context.Context, accountID, presented string) (TokenPair, error) {
	acct, err := s.Repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, fmt.Errorf("lookup account: %w", err)
	}
	if acct.RefreshTokenHash == "" || !token.CompareHash(presented, acct.RefreshTokenHash) {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	if acct.Status != entity.StatusActive {
		return TokenPair{}, ErrAccountNotActive
	}

	pair, err := s.mintPair(acct)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.Repo.SetRefreshTokenHash(ctx, acct.ID, token.HashString(pair.RefreshToken)); err != nil {
		return TokenPair{}, fmt.Errorf("rotate refresh token: %w", err)
	}
	return pair, nil
}

// Logout clears the stored refresh-token hash. Logging out an account
// that is already logged out, or gone, succeeds silently.
func (s *Service) Logout(ctx context.Context, accountID string) error {
	err := s.Repo.SetRefreshTokenHash(ctx, accountID, "")
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// VerifyEmail consumes a verification token: the account becomes
// active and verified and the token is cleared in one mutation. An
// expired token leaves the record untouched so the caller can request
// a resend.
func (s *Service) VerifyEmail(ctx context.Context, tok string) (*entity.Account, error) {
	acct, err := s.Repo.GetByVerificationToken(ctx, tok)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("lookup verification token: %w", err)
	}
	if !tokenLive(acct.EmailVerificationExpiresAt, time.Now().UTC()) {
		return nil, ErrTokenExpired
	}
	if err := s.Repo.MarkVerified(ctx, acct.ID); err != nil {
		return nil, fmt.Errorf("mark verified: %w", err)
	}
	acct.IsEmailVerified = true
	acct.Status = entity.StatusActive
	acct.EmailVerificationToken = ""
	acct.EmailVerificationExpiresAt = nil

	if err := s.notify(ctx, acct.Email, NotifyWelcome, map[string]any{
		"Name": acct.Name,
	}); err != nil {
		return nil, err
	}

	s.index(ctx, acct)
	return acct.Sanitized(), nil
}

// ResendVerification mints a fresh verification token, overwriting any
// outstanding one, and resends the message.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	acct, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("lookup email: %w", err)
	}
	if acct.IsEmailVerified {
		return ErrAlreadyVerified
	}

	verifyTok, err := token.NewOpaque()
	if err != nil {
		return fmt.Errorf("mint verification token: %w", err)
	}
	expires := time.Now().UTC().Add(s.VerificationTTL)
	if err := s.Repo.SetVerificationToken(ctx, acct.ID, verifyTok, expires); err != nil {
		return fmt.Errorf("store verification token: %w", err)
	}

	return s.notify(ctx, acct.Email, NotifyVerification, map[string]any{
		"Name":      acct.Name,
		"Token":     verifyTok,
		"ExpiresAt": expires,
	})
}

// ForgotPassword issues a reset token for a known email. An unknown
// email takes the same success path outward; the caller cannot tell
// the branches apart.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	acct, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("lookup email: %w", err)
	}

	resetTok, err := token.NewOpaque()
	if err != nil {
		return fmt.Errorf("mint reset token: %w", err)
	}
	expires := time.Now().UTC().Add(s.ResetTTL)
	if err := s.Repo.SetResetToken(ctx, acct.ID, resetTok, expires); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	return s.notify(ctx, acct.Email, NotifyPasswordReset, map[string]any{
		"Name":      acct.Name,
		"Token":     resetTok,
		"ExpiresAt": expires,
	})
}

// ResetPassword consumes a reset token: the new hash is installed, the
// token cleared and the refresh-token hash cleared in one mutation, so
// every open session must log in again with the new password.
func (s *Service) ResetPassword(ctx context.Context, tok, newPassword string) error {
	acct, err := s.Repo.GetByResetToken(ctx, tok)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("lookup reset token: %w", err)
	}
	if !tokenLive(acct.PasswordResetExpiresAt, time.Now().UTC()) {
		return ErrTokenExpired
	}

	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.Repo.ResetCredentials(ctx, acct.ID, hash); err != nil {
		return fmt.Errorf("reset credentials: %w", err)
	}
	return nil
}

func (s *Service) GetProfile(ctx context.Context, accountID string) (*entity.Account, error) {
	acct, err := s.Repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	return acct.Sanitized(), nil
}

type UpdateProfileInput struct {
	Name      string
	AvatarURL string
}

func (s *Service) UpdateProfile(ctx context.Context, accountID string, in UpdateProfileInput) (*entity.Account, error) {
	acct, err := s.Repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	name := acct.Name
	avatar := acct.AvatarURL
	if in.Name != "" {
		name = in.Name
	}
	if in.AvatarURL != "" {
		avatar = in.AvatarURL
	}
	updated, err := s.Repo.UpdateProfile(ctx, accountID, name, avatar)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.index(ctx, updated)
	return updated.Sanitized(), nil
}

// UploadAvatar stores the uploaded image and points the profile at it.
func (s *Service) UploadAvatar(ctx context.Context, accountID string, r io.Reader, filename, contentType string) (string, error) {
	if s.Storage == nil {
		return "", errors.New("avatar storage not configured")
	}
	if _, err := s.Repo.GetByID(ctx, accountID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrAccountNotFound
		}
		return "", fmt.Errorf("lookup account: %w", err)
	}
	url, err := s.Storage.Upload(ctx, accountID, filename, contentType, r)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	updated, err := s.Repo.UpdateProfile(ctx, accountID, "", url)
	if err != nil {
		return "", fmt.Errorf("update profile: %w", err)
	}
	s.index(ctx, updated)
	return url, nil
}

// SearchAccounts queries the search index; without one it returns an
// empty result rather than failing.
func (s *Service) SearchAccounts(ctx context.Context, query string, size int) ([]map[string]any, error) {
	if s.Indexer == nil {
		return []map[string]any{}, nil
	}
	return s.Indexer.Search(ctx, query, size)
}

// ListAccounts returns every account including soft-deleted ones.
// Admin path only.
func (s *Service) ListAccounts(ctx context.Context) ([]*entity.Account, error) {
	accts, err := s.Repo.ListIncludingDeleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]*entity.Account, 0, len(accts))
	for _, a := range accts {
		out = append(out, a.Sanitized())
	}
	return out, nil
}

// SoftDeleteAccount hides the account from every lifecycle lookup.
func (s *Service) SoftDeleteAccount(ctx context.Context, accountID, deletedBy string) error {
	if err := s.Repo.SoftDelete(ctx, accountID, deletedBy); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("soft delete: %w", err)
	}
	return nil
}

// HardDeleteAccount physically removes the record. Admin path only.
func (s *Service) HardDeleteAccount(ctx context.Context, accountID string) error {
	if err := s.Repo.HardDelete(ctx, accountID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("hard delete: %w", err)
	}
	return nil
}

func (s *Service) mintPair(acct *entity.Account) (TokenPair, error) {
	access, aexp, err := s.Signer.GenerateAccessToken(acct.ID, acct.Email, string(acct.Role))
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("account_id", acct.ID).Error("generate access token failed")
		}
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, rexp, err := s.Signer.GenerateRefreshToken(acct.ID, acct.Email, string(acct.Role))
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("account_id", acct.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *Service) notify(ctx context.Context, address string, kind NotificationKind, data map[string]any) error {
	if err := s.Notifier.Notify(ctx, address, kind, data); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("kind", string(kind)).Warn("notification dispatch failed")
		}
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}

func (s *Service) index(ctx context.Context, acct *entity.Account) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.Index(ctx, acct); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("account_id", acct.ID).Warn("search index failed")
	}
}
