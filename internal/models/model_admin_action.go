package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/leilauto/gatekeeper/pkg/types"
)

// AdminAction is an append-only audit record of an administrative override.
// Rows are created exactly once and never mutated. ExpiresAt is informational;
// access is governed by the resulting account/subscription mutation, not by
// re-reading this log.
type AdminAction struct {
	ID          string                `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID      string                `gorm:"column:user_id;type:uuid;not null;index:idx_admin_action_user,priority:1" json:"user_id"`
	Type        types.AdminActionType `gorm:"column:type;type:varchar(32);not null" json:"type"`
	Description string                `gorm:"column:description;type:varchar(255)" json:"description"`
	// Duration in hours, when the action is time-bounded.
	Duration    *int              `gorm:"column:duration;default:null" json:"duration,omitempty"`
	Reason      string            `gorm:"column:reason;type:varchar(255);not null" json:"reason"`
	PerformedBy string            `gorm:"column:performed_by;type:varchar(64);not null" json:"performed_by"`
	PerformedAt time.Time         `gorm:"column:performed_at;not null;index:idx_admin_action_user,priority:2,sort:desc" json:"performed_at"`
	ExpiresAt   *time.Time        `gorm:"column:expires_at;default:null" json:"expires_at,omitempty"`
	Extra       datatypes.JSONMap `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (AdminAction) TableName() string {
	return "admin_action"
}
