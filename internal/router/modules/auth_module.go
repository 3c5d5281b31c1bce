package modules

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/widyatama/go-account-api/internal/interface/http"
	"github.com/widyatama/go-account-api/internal/interface/middleware"
)

// AuthModule registers the credential lifecycle endpoints.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Mounter *Mounter
}

func NewAuthModule(h *handlers.AuthHandler, m *Mounter) *AuthModule {
	return &AuthModule{Handler: h, Mounter: m}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	perIP := func(max int) *RateLimitSpec {
		return &RateLimitSpec{Max: max, Window: time.Minute, Key: middleware.KeyByIP()}
	}
	perIPPath := func(max int) *RateLimitSpec {
		return &RateLimitSpec{Max: max, Window: time.Minute, Key: middleware.KeyByIPAndPath()}
	}

	m.Mounter.Mount(rg, []Route{
		{Method: http.MethodPost, Path: "/auth/register", Limit: perIPPath(5), Handler: m.Handler.Register},
		{Method: http.MethodPost, Path: "/auth/login", Limit: perIP(10), Handler: m.Handler.Login},
		{Method: http.MethodPost, Path: "/auth/refresh", Limit: perIP(60), Handler: m.Handler.Refresh},
		{Method: http.MethodPost, Path: "/auth/verify/confirm", Limit: perIPPath(30), Handler: m.Handler.VerifyEmail},
		{Method: http.MethodPost, Path: "/auth/verify/resend", Limit: perIPPath(5), Handler: m.Handler.ResendVerification},
		{Method: http.MethodPost, Path: "/auth/password/forgot", Limit: perIPPath(5), Handler: m.Handler.ForgotPassword},
		{Method: http.MethodPost, Path: "/auth/password/reset", Limit: perIPPath(30), Handler: m.Handler.ResetPassword},

		{Method: http.MethodPost, Path: "/auth/logout", RequiresAuth: true, Limit: perIP(60), Handler: m.Handler.Logout},
	})
}
