package models

import (
	"time"
)

// VehicleAlert is a saved search a user wants to be notified about.
// Delivery transport is out of scope here; rows only describe the criteria.
type VehicleAlert struct {
	ID     string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Name   string `gorm:"column:name;type:varchar(128);not null" json:"name"`

	Make     *string `gorm:"column:make;type:varchar(64);default:null" json:"make,omitempty"`
	Model    *string `gorm:"column:model;type:varchar(64);default:null" json:"model,omitempty"`
	State    *string `gorm:"column:state;type:varchar(2);default:null" json:"state,omitempty"`
	YearMin  *int    `gorm:"column:year_min;default:null" json:"year_min,omitempty"`
	YearMax  *int    `gorm:"column:year_max;default:null" json:"year_max,omitempty"`
	PriceMax *int64  `gorm:"column:price_max;default:null" json:"price_max,omitempty"`

	// Channel is how the user asked to be notified (email, whatsapp).
	Channel   string    `gorm:"column:channel;type:varchar(16);not null;default:'email'" json:"channel"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (VehicleAlert) TableName() string {
	return "vehicle_alert"
}
