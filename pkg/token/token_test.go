package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestGenerateAndParse(t *testing.T) {
	m := newTestManager()

	access, exp, err := m.GenerateAccessToken("acct-1", "a@example.com", "user")
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := m.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", claims.AccountID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)

	refresh, rexp, err := m.GenerateRefreshToken("acct-1", "a@example.com", "user")
	require.NoError(t, err)
	assert.True(t, rexp.After(exp), "refresh should outlive access")

	rc, err := m.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", rc.AccountID)
}

func TestKeyDomainsAreDistinct(t *testing.T) {
	m := newTestManager()

	access, _, err := m.GenerateAccessToken("acct-1", "a@example.com", "user")
	require.NoError(t, err)
	refresh, _, err := m.GenerateRefreshToken("acct-1", "a@example.com", "user")
	require.NoError(t, err)

	// A token from one domain never parses in the other.
	_, err = m.ParseRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = m.ParseAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseRejectsForgery(t *testing.T) {
	m := newTestManager()
	other := NewManager("other-access", "other-refresh", 15*time.Minute, time.Hour)

	forged, _, err := other.GenerateAccessToken("acct-1", "a@example.com", "admin")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(forged)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = m.ParseAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseExpired(t *testing.T) {
	m := NewManager("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	tok, _, err := m.GenerateAccessToken("acct-1", "a@example.com", "user")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(tok)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestNewOpaque(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 64; i++ {
		tok, err := NewOpaque()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(tok), 43, "32 random bytes in unpadded base64")
		assert.False(t, seen[tok], "opaque tokens must not repeat")
		seen[tok] = true
	}
}

func TestHashAndCompare(t *testing.T) {
	tok, err := NewOpaque()
	require.NoError(t, err)

	h := HashString(tok)
	assert.Len(t, h, 64)
	assert.NotEqual(t, tok, h)

	assert.True(t, CompareHash(tok, h))
	assert.False(t, CompareHash(tok+"x", h))
	assert.False(t, CompareHash(tok, ""))
}
