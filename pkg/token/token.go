package token

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired is returned when a signed token's expiry has passed.
	ErrExpired = errors.New("token expired")
	// ErrInvalid is returned for a bad signature, wrong key domain or
	// otherwise unparseable token.
	ErrInvalid = errors.New("invalid token")
)

// Claims is the payload carried by both access and refresh tokens.
type Claims struct {
	AccountID string `json:"aid"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Manager mints and verifies signed bearer tokens for the two key
// domains and produces opaque single-use tokens. Access and refresh
// use distinct secrets so a leaked secret from one domain cannot
// forge tokens of the other.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}
}

func (m *Manager) GenerateAccessToken(accountID, email, role string) (string, time.Time, error) {
	return m.generate(accountID, email, role, m.accessSecret, m.AccessTTL)
}

func (m *Manager) GenerateRefreshToken(accountID, email, role string) (string, time.Time, error) {
	return m.generate(accountID, email, role, m.refreshSecret, m.RefreshTTL)
}

func (m *Manager) generate(accountID, email, role string, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := &Claims{
		AccountID: accountID,
		Email:     email,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(secret)
	return s, exp, err
}

func (m *Manager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, m.accessSecret)
}

func (m *Manager) ParseRefreshToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, m.refreshSecret)
}

func parseToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !tkn.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}

const opaqueTokenBytes = 32

// NewOpaque returns a random unguessable single-use token. It carries
// no structure: validity is decided solely by the stored expiry.
func NewOpaque() (string, error) {
	b := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashString returns the SHA-256 hex digest of tok. Used for stored
// refresh tokens; bcrypt is unsuitable there because it truncates
// input at 72 bytes and a signed refresh token is longer.
func HashString(tok string) string {
	sum := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(sum[:])
}

// CompareHash reports whether tok hashes to storedHash, in constant
// time.
func CompareHash(tok, storedHash string) bool {
	h := HashString(tok)
	return subtle.ConstantTimeCompare([]byte(h), []byte(storedHash)) == 1
}
