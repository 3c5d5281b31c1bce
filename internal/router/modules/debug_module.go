package modules

import (
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/widyatama/go-account-api/internal/interface/middleware"
)

// DebugModule exposes expvar counters. Only mounted when
// DEBUG_METRICS_ENABLED is set.
type DebugModule struct {
	Mounter *Mounter
}

func NewDebugModule(m *Mounter) *DebugModule { return &DebugModule{Mounter: m} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	m.Mounter.Mount(rg, []Route{
		{
			Method:  http.MethodGet,
			Path:    "/debug/vars",
			Limit:   &RateLimitSpec{Max: 120, Window: time.Minute, Key: middleware.KeyByIP(), Allow: middleware.AllowPrivateIP()},
			Handler: gin.WrapH(expvar.Handler()),
		},
	})
}
