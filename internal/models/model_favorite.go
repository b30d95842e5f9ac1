package models

import (
	"time"

	"gorm.io/datatypes"
)

// Favorite marks an auction vehicle saved by a user.
type Favorite struct {
	ID        string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID    string `gorm:"column:user_id;type:uuid;not null;uniqueIndex:unique_user_vehicle,priority:1" json:"user_id"`
	VehicleID string `gorm:"column:vehicle_id;type:varchar(64);not null;uniqueIndex:unique_user_vehicle,priority:2" json:"vehicle_id"`
	// Snapshot keeps the listing data as seen when saved, so the favorites
	// page renders even after the auction closes.
	Snapshot  datatypes.JSONMap `gorm:"column:snapshot;type:jsonb;default:'{}'" json:"snapshot,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorite"
}
