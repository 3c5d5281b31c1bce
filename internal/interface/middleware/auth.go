package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/widyatama/go-account-api/pkg/response"
	"github.com/widyatama/go-account-api/pkg/token"
)

const (
	CtxAccountIDKey = "accountID"
	CtxEmailKey     = "accountEmail"
	CtxRoleKey      = "accountRole"
)

// Auth validates the access token from the access_token cookie or an
// Authorization bearer header and injects the token claims into the
// Gin context.
func Auth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := accessTokenFrom(c)
		if raw == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := tokens.ParseAccessToken(raw)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}
		c.Set(CtxAccountIDKey, claims.AccountID)
		c.Set(CtxEmailKey, claims.Email)
		c.Set(CtxRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRoles gates a route to the listed roles. Must run after Auth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		if len(allowed) == 0 {
			c.Next()
			return
		}
		if _, ok := allowed[c.GetString(CtxRoleKey)]; !ok {
			response.Error[any](c, http.StatusForbidden, "insufficient role", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func accessTokenFrom(c *gin.Context) string {
	if tok, err := c.Cookie("access_token"); err == nil && tok != "" {
		return tok
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}
