package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/leilauto/gatekeeper/pkg/types"
)

// UserAccount is the root entity. SubscriptionStatus is an authoritative
// snapshot for fast reads; trial expiry is still re-checked against
// TrialEndDate on every evaluation, so a stale "trial" here never grants
// access past the end date.
type UserAccount struct {
	ID    string     `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Name  string     `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email string     `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	Phone *string    `gorm:"column:phone;type:varchar(64);default:null" json:"phone,omitempty"`
	Role  types.Role `gorm:"column:role;type:varchar(16);not null;default:'user'" json:"role"`

	SubscriptionStatus types.AccountStatus `gorm:"column:subscription_status;type:varchar(16);not null;default:'free';index" json:"subscription_status"`
	// TrialEndDate is set iff the account has ever entered trial.
	TrialEndDate *time.Time `gorm:"column:trial_end_date;default:null" json:"trial_end_date,omitempty"`
	// AccessExpiresAt bounds admin-granted temporary access. A reconciling
	// load demotes the account once it has passed.
	AccessExpiresAt *time.Time `gorm:"column:access_expires_at;default:null" json:"access_expires_at,omitempty"`
	IsActive        bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`

	// Extra stores additional JSON data (admin notes, signup source).
	Extra       datatypes.JSONMap `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra,omitempty"`
	LastLoginAt *time.Time        `gorm:"column:last_login_at;default:null" json:"last_login_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (UserAccount) TableName() string {
	return "user_account"
}

func (a *UserAccount) IsAdmin() bool {
	return a != nil && a.Role == types.RoleAdmin
}

// TrialElapsed reports whether the cached trial window has passed at now.
// Missing end date counts as elapsed.
func (a *UserAccount) TrialElapsed(now time.Time) bool {
	if a == nil || a.TrialEndDate == nil {
		return true
	}
	return !a.TrialEndDate.After(now)
}

// HadTrial reports whether the account ever entered trial, which makes it
// ineligible for another one.
func (a *UserAccount) HadTrial() bool {
	return a != nil && a.TrialEndDate != nil
}
