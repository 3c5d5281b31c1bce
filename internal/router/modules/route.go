package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/widyatama/go-account-api/internal/interface/middleware"
	"github.com/widyatama/go-account-api/pkg/token"
)

// Route declares one endpoint together with the cross-cutting policy
// it needs. Each module builds a table of these and hands it to a
// Mounter, so the auth/role/rate-limit policy for every path is
// readable in one place instead of being buried in middleware chains.
type Route struct {
	Method       string
	Path         string
	RequiresAuth bool
	AllowedRoles []string // empty means any authenticated role
	Limit        *RateLimitSpec
	Handler      gin.HandlerFunc
}

// RateLimitSpec is a per-route limiter policy. Allow, when set,
// bypasses the limit for matching requests.
type RateLimitSpec struct {
	Max    int
	Window time.Duration
	Key    middleware.KeyFunc
	Allow  middleware.AllowFunc
}

// Mounter turns Route declarations into registered gin routes,
// inserting the rate-limit, auth and role middleware each one asks for.
type Mounter struct {
	Tokens *token.Manager
	Redis  *redis.Client
}

func NewMounter(tokens *token.Manager, rdb *redis.Client) *Mounter {
	return &Mounter{Tokens: tokens, Redis: rdb}
}

func (m *Mounter) Mount(rg *gin.RouterGroup, routes []Route) {
	for _, rt := range routes {
		chain := make([]gin.HandlerFunc, 0, 4)
		if rt.Limit != nil && m.Redis != nil {
			chain = append(chain, middleware.RateLimit(m.Redis, rt.Limit.Max, rt.Limit.Window, rt.Limit.Key, rt.Limit.Allow))
		}
		if rt.RequiresAuth {
			chain = append(chain, middleware.Auth(m.Tokens))
			if len(rt.AllowedRoles) > 0 {
				chain = append(chain, middleware.RequireRoles(rt.AllowedRoles...))
			}
		}
		chain = append(chain, rt.Handler)
		rg.Handle(rt.Method, rt.Path, chain...)
	}
}
