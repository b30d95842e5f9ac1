package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	cfgpkg "github.com/leilauto/gatekeeper/pkg/config"
	"github.com/leilauto/gatekeeper/pkg/response"
	"github.com/leilauto/gatekeeper/pkg/types"
)

// AdminClaims is the bearer-token payload for back-office calls.
type AdminClaims struct {
	UserID string     `json:"user_id"`
	Role   types.Role `json:"role"`
	jwt.RegisteredClaims
}

// AdminAuthMiddleware gates the admin API group on a valid bearer token with
// the admin role. This is the only place admin-ness is checked; admin calls
// bypass the entitlement evaluator entirely.
func AdminAuthMiddleware(cfg *cfgpkg.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing bearer token"))
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims := &AdminClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(cfg.Auth.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid token"))
			return
		}
		if claims.Role != types.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeBadRequest, "admin role required"))
			return
		}

		c.Set("admin_id", claims.UserID)
		c.Next()
	}
}
