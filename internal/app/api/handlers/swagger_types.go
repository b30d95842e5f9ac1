package handlers

import (
	"github.com/leilauto/gatekeeper/internal/app/service/adminops"
	"github.com/leilauto/gatekeeper/pkg/response"
	"github.com/leilauto/gatekeeper/pkg/types"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespEntitlementInfo wraps the computed entitlement view in the standard envelope.
type RespEntitlementInfo struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    types.EntitlementInfo    `json:"data"`
}

// RespPlans wraps the plan catalog in the standard envelope.
type RespPlans struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []PlanItem               `json:"data"`
}

// RespSubscription wraps the subscription record returned by lifecycle endpoints.
type RespSubscription struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    SwaggerSubscription      `json:"data"`
}

// SwaggerSubscription is a simplified view of models.Subscription for documentation purposes.
type SwaggerSubscription struct {
	ID                 string                   `json:"id"`
	UserID             string                   `json:"user_id"`
	PlanID             string                   `json:"plan_id"`
	Status             types.SubscriptionStatus `json:"status"`
	CurrentPeriodStart string                   `json:"current_period_start"`
	CurrentPeriodEnd   string                   `json:"current_period_end"`
	CancelAtPeriodEnd  bool                     `json:"cancel_at_period_end"`
	CanceledAt         *string                  `json:"canceled_at"`
	TrialStart         *string                  `json:"trial_start"`
	TrialEnd           *string                  `json:"trial_end"`
}

// RespListUsers wraps the back-office user listing in the standard envelope.
type RespListUsers struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ListUsersResponse        `json:"data"`
}

// RespAdminAction wraps a recorded administrative action in the standard envelope.
type RespAdminAction struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    SwaggerAdminAction       `json:"data"`
}

// RespListActions wraps the audit trail listing in the standard envelope.
type RespListActions struct {
	Code    response.APIResponseCode     `json:"code"`
	Message string                       `json:"message"`
	Data    adminops.ScanActionsResponse `json:"data"`
}

// SwaggerAdminAction is a simplified view of models.AdminAction for documentation purposes.
type SwaggerAdminAction struct {
	ID          string                `json:"id"`
	UserID      string                `json:"user_id"`
	Type        types.AdminActionType `json:"type"`
	Description string                `json:"description"`
	Duration    *int                  `json:"duration"`
	Reason      string                `json:"reason"`
	PerformedBy string                `json:"performed_by"`
	PerformedAt string                `json:"performed_at"`
	ExpiresAt   *string               `json:"expires_at"`
}
