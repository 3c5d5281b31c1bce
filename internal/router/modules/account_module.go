package modules

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/widyatama/go-account-api/internal/domain/entity"
	handlers "github.com/widyatama/go-account-api/internal/interface/http"
	"github.com/widyatama/go-account-api/internal/interface/middleware"
)

// AccountModule registers the profile surface and the admin paths.
// Admin routes require the admin role; everything here is behind auth.
type AccountModule struct {
	Handler *handlers.AccountHandler
	Mounter *Mounter
}

func NewAccountModule(h *handlers.AccountHandler, m *Mounter) *AccountModule {
	return &AccountModule{Handler: h, Mounter: m}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	perAccount := func(max int) *RateLimitSpec {
		return &RateLimitSpec{Max: max, Window: time.Minute, Key: middleware.KeyByAccountID()}
	}
	admin := []string{string(entity.RoleAdmin)}

	m.Mounter.Mount(rg, []Route{
		{Method: http.MethodGet, Path: "/profile", RequiresAuth: true, Limit: perAccount(120), Handler: m.Handler.GetProfile},
		{Method: http.MethodPut, Path: "/profile", RequiresAuth: true, Limit: perAccount(30), Handler: m.Handler.UpdateProfile},
		{Method: http.MethodPost, Path: "/profile/avatar", RequiresAuth: true, Limit: perAccount(10), Handler: m.Handler.UploadAvatar},

		{Method: http.MethodGet, Path: "/admin/accounts", RequiresAuth: true, AllowedRoles: admin, Limit: perAccount(60), Handler: m.Handler.List},
		{Method: http.MethodGet, Path: "/admin/accounts/search", RequiresAuth: true, AllowedRoles: admin, Limit: perAccount(60), Handler: m.Handler.Search},
		{Method: http.MethodDelete, Path: "/admin/accounts/:id", RequiresAuth: true, AllowedRoles: admin, Limit: perAccount(30), Handler: m.Handler.SoftDelete},
		{Method: http.MethodDelete, Path: "/admin/accounts/:id/purge", RequiresAuth: true, AllowedRoles: admin, Limit: perAccount(10), Handler: m.Handler.HardDelete},
	})
}
