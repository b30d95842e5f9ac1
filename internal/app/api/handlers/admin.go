package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/leilauto/gatekeeper/internal/app/service/adminops"
	"github.com/leilauto/gatekeeper/internal/models"
	"github.com/leilauto/gatekeeper/pkg/response"
	"github.com/leilauto/gatekeeper/pkg/types"
)

// AdminManager is the back-office surface consumed by the admin routes.
type AdminManager interface {
	ExtendTrial(ctx context.Context, userID string, days int, reason, adminID string) (*models.AdminAction, error)
	GrantTemporaryAccess(ctx context.Context, userID string, hours int, reason, adminID string) (*models.AdminAction, error)
	Suspend(ctx context.Context, userID, reason, adminID string) (*models.AdminAction, error)
	Activate(ctx context.Context, userID, reason, adminID string) (*models.AdminAction, error)
	ScanUsers(ctx context.Context, req *adminops.ScanUsersRequest) (*adminops.ScanUsersResponse, error)
	ScanActions(ctx context.Context, req *adminops.ScanActionsRequest) (*adminops.ScanActionsResponse, error)
	CreateUser(ctx context.Context, req *adminops.CreateUserRequest) (*models.UserAccount, error)
	UpdateUser(ctx context.Context, userID string, req *adminops.UpdateUserRequest) (*models.UserAccount, error)
	DeleteUser(ctx context.Context, userID, reason, adminID string) error
	Metrics(ctx context.Context) (*adminops.DashboardMetrics, error)
}

// AdminUserItem is the back-office listing row.
type AdminUserItem struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Email              string              `json:"email"`
	Phone              *string             `json:"phone"`
	Role               types.Role          `json:"role"`
	SubscriptionStatus types.AccountStatus `json:"subscription_status"`
	TrialEndDate       *time.Time          `json:"trial_end_date"`
	AccessExpiresAt    *time.Time          `json:"access_expires_at"`
	IsActive           bool                `json:"is_active"`
	LastLoginAt        *time.Time          `json:"last_login_at"`
	CreatedAt          time.Time           `json:"created_at"`
}

func toAdminUserItem(m *models.UserAccount) *AdminUserItem {
	return &AdminUserItem{
		ID:                 m.ID,
		Name:               m.Name,
		Email:              m.Email,
		Phone:              m.Phone,
		Role:               m.Role,
		SubscriptionStatus: m.SubscriptionStatus,
		TrialEndDate:       m.TrialEndDate,
		AccessExpiresAt:    m.AccessExpiresAt,
		IsActive:           m.IsActive,
		LastLoginAt:        m.LastLoginAt,
		CreatedAt:          m.CreatedAt,
	}
}

type ListUsersResponse struct {
	Items []*AdminUserItem `json:"items"`
	Total int64            `json:"total"`
}

// adminID pulls the operator id the auth middleware stored on the context.
func adminID(c *gin.Context) string {
	return c.GetString("admin_id")
}

// @Summary      List Users (Admin)
// @Description  Paginated and filterable back-office user listing.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body adminops.ScanUsersRequest true "list users request with filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespListUsers
// @Router       /api/v1/admin/list_users [post]
func ApiListUsers(mgr AdminManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req adminops.ScanUsersRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := mgr.ScanUsers(c.Request.Context(), &req)
		if err != nil {
			respondErr(c, err)
			return
		}
		items := lo.Map(res.Items, func(m *models.UserAccount, _ int) *AdminUserItem { return toAdminUserItem(m) })
		c.JSON(http.StatusOK, response.OKT(&ListUsersResponse{Items: items, Total: res.Total}))
	}
}

// UserActionRequest carries the shared parameters of the override endpoints.
type UserActionRequest struct {
	UserID string `json:"user_id"`
	// Duration is days for extend_trial, hours for grant_access.
	Duration int    `json:"duration"`
	Reason   string `json:"reason"`
}

// @Summary      Extend Trial (Admin)
// @Description  Pushes a user's trial end date out by 1-30 days and records the action.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body UserActionRequest true "extend trial request"
// @Success      200  {object}  handlers.RespAdminAction
// @Router       /api/v1/admin/users/extend_trial [post]
func ApiExtendTrial(mgr AdminManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UserActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.UserID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id"))
			return
		}
		action, err := mgr.ExtendTrial(c.Request.Context(), req.UserID, req.Duration, req.Reason, adminID(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(action))
	}
}

// @Summary      Grant Temporary Access (Admin)
// @Description  Activates a user for 1-168 hours; reversion happens lazily once the stamp passes.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body UserActionRequest true "grant access request"
// @Success      200  {object}  handlers.RespAdminAction
// @Router       /api/v1/admin/users/grant_access [post]
func ApiGrantAccess(mgr AdminManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UserActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.UserID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id"))
			return
		}
		action, err := mgr.GrantTemporaryAccess(c.Request.Context(), req.UserID, req.Duration, req.Reason, adminID(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(action))
	}
}

// @Summary      Suspend User (Admin)
// @Description  Suspends a user. A reason is mandatory.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body UserActionRequest true "suspend request"
// @Success      200  {object}  handlers.RespAdminAction
// @Router       /api/v1/admin/users/suspend [post]
func ApiSuspendUser(mgr AdminManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UserActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.UserID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id"))
			return
		}
		action, err := mgr.Suspend(c.Request.Context(), req.UserID, req.Reason, adminID(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(action))
	}
}

// @Summary      Activate User (Admin)
// @Description  Reverses a suspension or expiry.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body UserActionRequest true "activate request"
// @Success      200  {object}  handlers.RespAdminAction
// @Router       /api/v1/admin/users/activate [post]
func ApiActivateUser(mgr AdminManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UserActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.UserID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id"))
			return
		}
		action, err := mgr.Activate(c.Request.Context(), req.UserID, req.Reason, adminID(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(action))
	}
}

// @Summary      Create User (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body adminops.CreateUserRequest true "create user request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/users/create [post]
func ApiCreateUser(mgr AdminManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req adminops.CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		account, err := mgr.CreateUser(c.Request.Context(), &req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toAdminUserItem(account)))
	}
}

type UpdateUserRequestBody struct {
	UserID string                      `json:"user_id"`
	Fields *adminops.UpdateUserRequest `json:"fields"`
}

// @Summary      Update User (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body UpdateUserRequestBody true "update user request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/users/update [post]
func ApiUpdateUser(mgr AdminManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateUserRequestBody
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.UserID == "" || req.Fields == nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id or fields"))
			return
		}
		account, err := mgr.UpdateUser(c.Request.Context(), req.UserID, req.Fields)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toAdminUserItem(account)))
	}
}

// @Summary      Delete User (Admin)
// @Description  Removes a user and everything it owns. A reason is mandatory; the audit row survives.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body UserActionRequest true "delete user request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/users/delete [post]
func ApiDeleteUser(mgr AdminManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UserActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.UserID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id"))
			return
		}
		if err := mgr.DeleteUser(c.Request.Context(), req.UserID, req.Reason, adminID(c)); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      List Admin Actions (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body adminops.ScanActionsRequest true "list actions request"
// @Success      200  {object}  handlers.RespListActions
// @Router       /api/v1/admin/list_actions [post]
func ApiListActions(mgr AdminManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req adminops.ScanActionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := mgr.ScanActions(c.Request.Context(), &req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Dashboard Metrics (Admin)
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/dashboard_metrics [post]
func ApiDashboardMetrics(mgr AdminManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := mgr.Metrics(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(m))
	}
}

func RegisterAdminRoutes(r gin.IRouter, mgr AdminManager) {
	r.POST("/list_users", ApiListUsers(mgr))
	r.POST("/list_actions", ApiListActions(mgr))
	r.POST("/dashboard_metrics", ApiDashboardMetrics(mgr))
	r.POST("/users/create", ApiCreateUser(mgr))
	r.POST("/users/update", ApiUpdateUser(mgr))
	r.POST("/users/delete", ApiDeleteUser(mgr))
	r.POST("/users/extend_trial", ApiExtendTrial(mgr))
	r.POST("/users/grant_access", ApiGrantAccess(mgr))
	r.POST("/users/suspend", ApiSuspendUser(mgr))
	r.POST("/users/activate", ApiActivateUser(mgr))
}
