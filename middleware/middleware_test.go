package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"holistic/models"

	"github.com/gin-gonic/gin"
)

func rolePlayingRouter(role string, required ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded",
		func(c *gin.Context) { c.Set("userRole", role) },
		RequireRole(required...),
		func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRequireRoleAllowsListedRoles(t *testing.T) {
	for _, role := range []string{models.RoleProfessional, models.RoleAdmin} {
		router := rolePlayingRouter(role, models.RoleProfessional, models.RoleAdmin)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
		if w.Code != http.StatusOK {
			t.Errorf("role %q should pass, got %d", role, w.Code)
		}
	}
}

func TestRequireRoleRejectsOthers(t *testing.T) {
	for _, role := range []string{models.RoleClient, ""} {
		router := rolePlayingRouter(role, models.RoleProfessional, models.RoleAdmin)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
		if w.Code != http.StatusForbidden {
			t.Errorf("role %q should be rejected, got %d", role, w.Code)
		}
	}
}

func TestGetClientIPPrefersForwardedFor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"forwarded list", "203.0.113.7, 10.0.0.1", "", "192.0.2.1:1234", "203.0.113.7"},
		{"real ip fallback", "", "203.0.113.9", "192.0.2.1:1234", "203.0.113.9"},
		{"remote addr fallback", "", "", "192.0.2.1:1234", "192.0.2.1"},
		{"remote addr without port", "", "", "192.0.2.1", "192.0.2.1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				c.Request.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if tc.realIP != "" {
				c.Request.Header.Set("X-Real-IP", tc.realIP)
			}
			if got := GetClientIP(c); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
