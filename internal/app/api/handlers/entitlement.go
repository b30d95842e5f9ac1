package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leilauto/gatekeeper/internal/app/service/entitlement"
	"github.com/leilauto/gatekeeper/internal/models"
	"github.com/leilauto/gatekeeper/pkg/response"
)

// AccountLoader is the slice of the lifecycle service the entitlement
// endpoint needs: a reconciling account read.
type AccountLoader interface {
	GetAccount(ctx context.Context, userID string) (*models.AccountState, error)
}

// @Summary      Entitlement summary
// @Description  Returns the per-feature access map, premium flag and days until expiry for an account. Without user_id the anonymous summary is returned (catalog browsing only).
// @Tags         Entitlement
// @Produce      json
// @Param        user_id query string false "account id"
// @Success      200  {object}  handlers.RespEntitlementInfo
// @Router       /api/v1/entitlements [get]
func ApiGetEntitlements(loader AccountLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			// Anonymous: everything gated is off, browsing stays on.
			c.JSON(http.StatusOK, response.OKT(entitlement.Info(entitlement.Snapshot{}, time.Now())))
			return
		}

		st, err := loader.GetAccount(c.Request.Context(), userID)
		if err != nil {
			respondErr(c, err)
			return
		}
		snap := entitlement.Snapshot{Account: st.Account, Subscription: st.Subscription}
		c.JSON(http.StatusOK, response.OKT(entitlement.Info(snap, time.Now())))
	}
}

func RegisterEntitlementRoutes(r gin.IRouter, loader AccountLoader) {
	r.GET("/entitlements", ApiGetEntitlements(loader))
}
