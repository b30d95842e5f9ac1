package types

import "time"

// AccountStatus is the subscription status snapshot cached on the user
// account. It is a fast-read hint; time-driven checks (trial expiry) are
// re-derived on every evaluation.
type AccountStatus string

const (
	AccountStatusFree      AccountStatus = "free"
	AccountStatusTrial     AccountStatus = "trial"
	AccountStatusActive    AccountStatus = "active"
	AccountStatusExpired   AccountStatus = "expired"
	AccountStatusSuspended AccountStatus = "suspended"
)

type SubscriptionStatus string

const (
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusUnpaid   SubscriptionStatus = "unpaid"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Feature is a gated dashboard capability.
type Feature string

const (
	FeatureFilters    Feature = "filters"
	FeatureAlerts     Feature = "alerts"
	FeatureFavorites  Feature = "favorites"
	FeatureCalculator Feature = "calculator"
)

// AllFeatures lists every gated feature. Vehicle browsing is deliberately not
// in this list; it is open to anonymous users.
var AllFeatures = []Feature{FeatureFilters, FeatureAlerts, FeatureFavorites, FeatureCalculator}

func (f Feature) Valid() bool {
	switch f {
	case FeatureFilters, FeatureAlerts, FeatureFavorites, FeatureCalculator:
		return true
	}
	return false
}

// SubscriptionChangeReason tags before/after rows in the subscription log.
type SubscriptionChangeReason string

const (
	SubscriptionChangeReasonTrialStart    SubscriptionChangeReason = "trialStart"
	SubscriptionChangeReasonActivate      SubscriptionChangeReason = "activate"
	SubscriptionChangeReasonCancel        SubscriptionChangeReason = "cancel"
	SubscriptionChangeReasonExpire        SubscriptionChangeReason = "expire"
	SubscriptionChangeReasonExtendTrial   SubscriptionChangeReason = "extendTrial"
	SubscriptionChangeReasonGrantAccess   SubscriptionChangeReason = "grantAccess"
	SubscriptionChangeReasonSuspend       SubscriptionChangeReason = "suspend"
	SubscriptionChangeReasonAdminActivate SubscriptionChangeReason = "adminActivate"
)

// AdminActionType identifies an administrative override in the audit log.
type AdminActionType string

const (
	AdminActionExtendTrial  AdminActionType = "extend_trial"
	AdminActionGrantAccess  AdminActionType = "grant_access"
	AdminActionSuspendUser  AdminActionType = "suspend_user"
	AdminActionActivateUser AdminActionType = "activate_user"
	AdminActionRevokeAccess AdminActionType = "revoke_access"
)

// EntitlementInfo is the UI-facing entitlement summary for an account.
type EntitlementInfo struct {
	Features        map[Feature]bool `json:"features"`
	CanViewVehicles bool             `json:"can_view_vehicles"`
	Premium         bool             `json:"premium"`
	DaysUntilExpiry int              `json:"days_until_expiry"`
	Status          AccountStatus    `json:"status"`
	TrialEndDate    *time.Time       `json:"trial_end_date,omitempty"`
}
