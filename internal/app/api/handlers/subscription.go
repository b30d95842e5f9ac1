package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/leilauto/gatekeeper/internal/models"
	"github.com/leilauto/gatekeeper/pkg/config"
	"github.com/leilauto/gatekeeper/pkg/response"
	"github.com/leilauto/gatekeeper/pkg/types"
)

// SubscriptionManager is the slice of the lifecycle service the
// user-facing subscription endpoints need.
type SubscriptionManager interface {
	StartTrial(ctx context.Context, userID, planID string) (*models.Subscription, error)
	Activate(ctx context.Context, userID, planID string) (*models.Subscription, error)
	CancelSubscription(ctx context.Context, userID string) (*models.Subscription, error)
}

// PlanItem is the catalog entry shown on the pricing page.
type PlanItem struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       int64              `json:"price"`
	Currency    string             `json:"currency"`
	Interval    types.PlanInterval `json:"interval"`
	Features    []string           `json:"features"`
	TrialDays   int                `json:"trial_days"`
	IsPopular   bool               `json:"is_popular"`
}

// @Summary      List plans
// @Description  Returns the active subscription plan catalog.
// @Tags         Subscription
// @Produce      json
// @Success      200  {object}  handlers.RespPlans
// @Router       /api/v1/plans [get]
func ApiListPlans(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		items := lo.Map(cfg.ActivePlans(), func(p *types.SubscriptionPlan, _ int) *PlanItem {
			return &PlanItem{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				Price:       p.Price,
				Currency:    p.Currency,
				Interval:    p.Interval,
				Features:    p.Features,
				TrialDays:   p.TrialDays,
				IsPopular:   p.IsPopular,
			}
		})
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

type StartTrialRequest struct {
	UserID string `json:"user_id"`
	PlanID string `json:"plan_id"`
}

// @Summary      Start trial
// @Description  Begins the once-per-account free trial.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body StartTrialRequest true "start trial request"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/trial/start [post]
func ApiStartTrial(mgr SubscriptionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StartTrialRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.UserID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id"))
			return
		}
		sub, err := mgr.StartTrial(c.Request.Context(), req.UserID, req.PlanID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

type ActivateRequest struct {
	UserID string `json:"user_id"`
	PlanID string `json:"plan_id"`
}

// @Summary      Activate subscription
// @Description  Charges the payment collaborator and activates the plan. A declined charge leaves the account untouched.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body ActivateRequest true "activation request"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/subscription/activate [post]
func ApiActivate(mgr SubscriptionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ActivateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.UserID == "" || req.PlanID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id or plan_id"))
			return
		}
		sub, err := mgr.Activate(c.Request.Context(), req.UserID, req.PlanID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

type CancelRequest struct {
	UserID string `json:"user_id"`
}

// @Summary      Cancel subscription
// @Description  Cancels at period end; access stays on through the paid period.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body CancelRequest true "cancel request"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/subscription/cancel [post]
func ApiCancelSubscription(mgr SubscriptionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CancelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.UserID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id"))
			return
		}
		sub, err := mgr.CancelSubscription(c.Request.Context(), req.UserID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

func RegisterSubscriptionRoutes(r gin.IRouter, mgr SubscriptionManager, cfg *config.Config) {
	r.GET("/plans", ApiListPlans(cfg))
	r.POST("/trial/start", ApiStartTrial(mgr))
	r.POST("/subscription/activate", ApiActivate(mgr))
	r.POST("/subscription/cancel", ApiCancelSubscription(mgr))
}
