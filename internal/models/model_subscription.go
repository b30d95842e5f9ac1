package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/leilauto/gatekeeper/pkg/types"
)

// Subscription is the billing record, 1:1 with a paying or trialing account.
// Free accounts have no row. Use Valid() to check whether it currently
// confers access.
type Subscription struct {
	ID     string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID string                   `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	PlanID string                   `gorm:"column:plan_id;type:varchar(64);not null" json:"plan_id"`
	Status types.SubscriptionStatus `gorm:"column:status;type:varchar(16);not null" json:"status"`

	// Billing window. CurrentPeriodEnd is always after CurrentPeriodStart.
	CurrentPeriodStart time.Time `gorm:"column:current_period_start;not null" json:"current_period_start"`
	CurrentPeriodEnd   time.Time `gorm:"column:current_period_end;not null" json:"current_period_end"`

	CancelAtPeriodEnd bool       `gorm:"column:cancel_at_period_end;not null;default:false" json:"cancel_at_period_end"`
	CanceledAt        *time.Time `gorm:"column:canceled_at;default:null" json:"canceled_at,omitempty"`

	// Trial window; for a trialing subscription TrialEnd equals CurrentPeriodEnd.
	TrialStart *time.Time `gorm:"column:trial_start;default:null" json:"trial_start,omitempty"`
	TrialEnd   *time.Time `gorm:"column:trial_end;default:null" json:"trial_end,omitempty"`

	// GatewaySubscriptionID is an opaque reference into the payment collaborator.
	GatewaySubscriptionID string `gorm:"column:gateway_subscription_id;type:varchar(128)" json:"gateway_subscription_id"`

	Extra     datatypes.JSONMap `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscription"
}

// Valid reports whether the subscription confers access at now: either an
// active paid period that has not ended, or a trial window still running.
func (s *Subscription) Valid(now time.Time) bool {
	if s == nil {
		return false
	}
	switch s.Status {
	case types.SubscriptionStatusActive:
		return s.CurrentPeriodEnd.After(now)
	case types.SubscriptionStatusTrialing:
		return s.TrialEnd != nil && s.TrialEnd.After(now)
	}
	return false
}
