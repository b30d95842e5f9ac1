package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/leilauto/gatekeeper/pkg/types"
)

// SubscriptionLog records account/subscription state changes.
// Use case: troubleshooting.
type SubscriptionLog struct {
	ID     string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;index:idx_sub_log_user_id,priority:1;not null"`
	// Reason is the change reason.
	Reason types.SubscriptionChangeReason `gorm:"column:reason;type:varchar(64);not null"`
	// Before stores the account snapshot before the change in JSON format.
	Before datatypes.JSONType[*AccountState] `gorm:"column:before;type:jsonb;default:'null'"`
	// After stores the account snapshot after the change in JSON format.
	After datatypes.JSONType[*AccountState] `gorm:"column:after;type:jsonb;default:'null'"`
	// Extra stores additional context such as the operator and trigger source.
	Extra     datatypes.JSONMap `gorm:"column:extra;type:jsonb;default:'{}'"`
	CreatedAt time.Time
}

func (SubscriptionLog) TableName() string {
	return "subscription_log"
}

// AccountState is the unit the log snapshots: the account together with its
// owned subscription row, if any.
type AccountState struct {
	Account      *UserAccount  `json:"account"`
	Subscription *Subscription `json:"subscription,omitempty"`
}

// Clone copies the state shallowly enough for before/after snapshots; the
// row structs are value-copied, nested JSON maps are shared.
func (st *AccountState) Clone() *AccountState {
	if st == nil {
		return nil
	}
	cp := &AccountState{}
	if st.Account != nil {
		a := *st.Account
		cp.Account = &a
	}
	if st.Subscription != nil {
		s := *st.Subscription
		cp.Subscription = &s
	}
	return cp
}
