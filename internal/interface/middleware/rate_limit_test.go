package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limiterCtx(ip string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/debug/vars", nil)
	c.Set("real_ip", ip)
	return c
}

func TestAllowPrivateIP(t *testing.T) {
	allow := AllowPrivateIP()

	cases := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"::1", true},
		{"10.1.2.3", true},
		{"172.16.0.9", true},
		{"192.168.0.5", true},
		{"203.0.113.7", false},
		{"2001:db8::1", false},
		{"not-an-ip", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, allow(limiterCtx(tc.ip)), tc.ip)
	}
}

func TestRateLimitDisabledConfig(t *testing.T) {
	// A nil client or empty window disables the limiter entirely.
	handler := RateLimit(nil, 10, 0, KeyByIP(), nil)
	c := limiterCtx("203.0.113.7")
	handler(c)
	assert.False(t, c.IsAborted())
}

func TestKeyFuncs(t *testing.T) {
	c := limiterCtx("203.0.113.7")
	assert.Equal(t, "rl:ip:203.0.113.7", KeyByIP()(c))

	c.Set(CtxAccountIDKey, "acct-1")
	assert.Equal(t, "rl:acct:acct-1", KeyByAccountID()(c))

	anon := limiterCtx("203.0.113.7")
	assert.Equal(t, "rl:acct:anon:ip:203.0.113.7", KeyByAccountID()(anon))
}
