package models

import (
	"gorm.io/gorm"
)

// CustomerStop is a per-customer service record tied to a location code.
// Many stops can share one code; display ordering is customer name ascending.
type CustomerStop struct {
	gorm.Model

	Code         string  `json:"code" gorm:"index"`
	CustomerName string  `json:"customer_name"`
	AvgMinutes   float64 `json:"avg_minutes"`
	Stops        int     `json:"stops"`

	// Placeholder marks synthetic fallback records produced when a fetch
	// fails; they must never be persisted.
	Placeholder bool `json:"placeholder,omitempty" gorm:"-"`
}
