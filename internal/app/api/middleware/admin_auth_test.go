package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	cfgpkg "github.com/leilauto/gatekeeper/pkg/config"
	"github.com/leilauto/gatekeeper/pkg/types"
)

const testSecret = "test-secret"

func signToken(t *testing.T, role types.Role, secret string) string {
	t.Helper()
	claims := &AdminClaims{
		UserID: "admin-1",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func adminTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &cfgpkg.Config{}
	cfg.Auth.JWTSecret = testSecret

	r := gin.New()
	grp := r.Group("/admin")
	grp.Use(AdminAuthMiddleware(cfg))
	grp.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("admin_id"))
	})
	return r
}

func TestAdminAuthMiddleware(t *testing.T) {
	r := adminTestRouter()

	do := func(authHeader string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("missing header", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, do("").Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, do("Basic abc").Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		w := do("Bearer " + signToken(t, types.RoleAdmin, "other-secret"))
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-admin role", func(t *testing.T) {
		w := do("Bearer " + signToken(t, types.RoleUser, testSecret))
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("valid admin token passes and exposes admin_id", func(t *testing.T) {
		w := do("Bearer " + signToken(t, types.RoleAdmin, testSecret))
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "admin-1", w.Body.String())
	})
}
