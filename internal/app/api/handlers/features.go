package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leilauto/gatekeeper/internal/app/service/alerts"
	"github.com/leilauto/gatekeeper/internal/app/service/calculator"
	"github.com/leilauto/gatekeeper/internal/app/service/entitlement"
	"github.com/leilauto/gatekeeper/internal/app/service/favorites"
	"github.com/leilauto/gatekeeper/internal/app/service/lifecycle"
	"github.com/leilauto/gatekeeper/pkg/response"
	"github.com/leilauto/gatekeeper/pkg/types"
)

type AddFavoriteRequest struct {
	UserID    string                 `json:"user_id"`
	VehicleID string                 `json:"vehicle_id"`
	Snapshot  map[string]interface{} `json:"snapshot"`
}

// @Summary      Add favorite
// @Tags         Favorites
// @Accept       json
// @Produce      json
// @Param        request body AddFavoriteRequest true "add favorite request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/favorites/add [post]
func ApiAddFavorite(svc *favorites.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddFavoriteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.UserID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id"))
			return
		}
		fav, err := svc.Add(c.Request.Context(), req.UserID, req.VehicleID, req.Snapshot)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(fav))
	}
}

// @Summary      Remove favorite
// @Tags         Favorites
// @Produce      json
// @Param        user_id query string true "account id"
// @Param        vehicle_id query string true "vehicle id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/favorites/remove [post]
func ApiRemoveFavorite(svc *favorites.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, vehicleID := c.Query("user_id"), c.Query("vehicle_id")
		if userID == "" || vehicleID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id or vehicle_id"))
			return
		}
		if err := svc.Remove(c.Request.Context(), userID, vehicleID); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      List favorites
// @Tags         Favorites
// @Produce      json
// @Param        user_id query string true "account id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/favorites/list [get]
func ApiListFavorites(svc *favorites.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id"))
			return
		}
		rows, err := svc.List(c.Request.Context(), userID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

type AlertRequest struct {
	UserID  string             `json:"user_id"`
	AlertID string             `json:"alert_id"`
	Alert   *alerts.AlertInput `json:"alert"`
	Active  *bool              `json:"active"`
}

// @Summary      Create alert
// @Tags         Alerts
// @Accept       json
// @Produce      json
// @Param        request body AlertRequest true "create alert request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/alerts/create [post]
func ApiCreateAlert(svc *alerts.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AlertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.UserID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id"))
			return
		}
		alert, err := svc.Create(c.Request.Context(), req.UserID, req.Alert)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(alert))
	}
}

// @Summary      Update alert
// @Tags         Alerts
// @Accept       json
// @Produce      json
// @Param        request body AlertRequest true "update alert request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/alerts/update [post]
func ApiUpdateAlert(svc *alerts.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AlertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.UserID == "" || req.AlertID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id or alert_id"))
			return
		}
		if req.Active != nil && req.Alert == nil {
			alert, err := svc.SetActive(c.Request.Context(), req.UserID, req.AlertID, *req.Active)
			if err != nil {
				respondErr(c, err)
				return
			}
			c.JSON(http.StatusOK, response.OKT(alert))
			return
		}
		alert, err := svc.Update(c.Request.Context(), req.UserID, req.AlertID, req.Alert)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(alert))
	}
}

// @Summary      Delete alert
// @Tags         Alerts
// @Produce      json
// @Param        user_id query string true "account id"
// @Param        alert_id query string true "alert id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/alerts/delete [post]
func ApiDeleteAlert(svc *alerts.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, alertID := c.Query("user_id"), c.Query("alert_id")
		if userID == "" || alertID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id or alert_id"))
			return
		}
		if err := svc.Delete(c.Request.Context(), userID, alertID); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      List alerts
// @Tags         Alerts
// @Produce      json
// @Param        user_id query string true "account id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/alerts/list [get]
func ApiListAlerts(svc *alerts.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id"))
			return
		}
		rows, err := svc.List(c.Request.Context(), userID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

type ProfitRequest struct {
	UserID     string                 `json:"user_id"`
	Simulation *calculator.Simulation `json:"simulation"`
}

// @Summary      Profit estimate
// @Description  Runs the auction profit calculator for a gated account.
// @Tags         Calculator
// @Accept       json
// @Produce      json
// @Param        request body ProfitRequest true "profit request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/calculator/profit [post]
func ApiCalculateProfit(loader AccountLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProfitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.UserID == "" || req.Simulation == nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id or simulation"))
			return
		}

		st, err := loader.GetAccount(c.Request.Context(), req.UserID)
		if err != nil {
			respondErr(c, err)
			return
		}
		snap := entitlement.Snapshot{Account: st.Account, Subscription: st.Subscription}
		if !entitlement.HasAccess(snap, types.FeatureCalculator) {
			respondErr(c, fmt.Errorf("%w: calculator feature is locked for this account", lifecycle.ErrPrecondition))
			return
		}
		c.JSON(http.StatusOK, response.OKT(calculator.Calculate(req.Simulation)))
	}
}

func RegisterFeatureRoutes(r gin.IRouter, fav *favorites.Service, al *alerts.Service, loader AccountLoader) {
	r.POST("/favorites/add", ApiAddFavorite(fav))
	r.POST("/favorites/remove", ApiRemoveFavorite(fav))
	r.GET("/favorites/list", ApiListFavorites(fav))

	r.POST("/alerts/create", ApiCreateAlert(al))
	r.POST("/alerts/update", ApiUpdateAlert(al))
	r.POST("/alerts/delete", ApiDeleteAlert(al))
	r.GET("/alerts/list", ApiListAlerts(al))

	r.POST("/calculator/profit", ApiCalculateProfit(loader))
}
