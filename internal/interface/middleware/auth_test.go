package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/widyatama/go-account-api/pkg/token"
)

func newAuthRouter(tokens *token.Manager, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := []gin.HandlerFunc{Auth(tokens)}
	if len(roles) > 0 {
		chain = append(chain, RequireRoles(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"account_id": c.GetString(CtxAccountIDKey),
			"role":       c.GetString(CtxRoleKey),
		})
	})
	r.GET("/protected", chain...)
	return r
}

func TestAuthBearerHeader(t *testing.T) {
	tokens := token.NewManager("acc", "ref", 15*time.Minute, time.Hour)
	r := newAuthRouter(tokens)

	access, _, err := tokens.GenerateAccessToken("acct-1", "a@example.com", "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"account_id":"acct-1"`)
}

func TestAuthCookie(t *testing.T) {
	tokens := token.NewManager("acc", "ref", 15*time.Minute, time.Hour)
	r := newAuthRouter(tokens)

	access, _, err := tokens.GenerateAccessToken("acct-2", "b@example.com", "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: access})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejections(t *testing.T) {
	tokens := token.NewManager("acc", "ref", 15*time.Minute, time.Hour)
	r := newAuthRouter(tokens)

	// No token at all.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A refresh token is not an access token.
	refresh, _, err := tokens.GenerateRefreshToken("acct-1", "a@example.com", "user")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Expired access token.
	expired := token.NewManager("acc", "ref", -time.Minute, time.Hour)
	old, _, err := expired.GenerateAccessToken("acct-1", "a@example.com", "user")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+old)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoles(t *testing.T) {
	tokens := token.NewManager("acc", "ref", 15*time.Minute, time.Hour)
	r := newAuthRouter(tokens, "admin")

	user, _, err := tokens.GenerateAccessToken("acct-1", "a@example.com", "user")
	require.NoError(t, err)
	admin, _, err := tokens.GenerateAccessToken("acct-2", "root@example.com", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
