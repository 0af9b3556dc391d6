package models

import (
	"time"

	"gorm.io/gorm"
)

type VehiclePosition struct {
	gorm.Model
	VehicleID        uint      `json:"vehicle_id" gorm:"index"`
	Vehicle          Vehicle   `gorm:"foreignKey:VehicleID"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Accuracy         float64   `json:"accuracy"` // GPS accuracy in meters
	Speed            float64   `json:"speed"`    // Speed in km/h
	Bearing          float64   `json:"bearing"`  // Direction in degrees
	IsMoving         bool      `json:"is_moving"`
	DistanceFromLast float64   `json:"distance_from_last"` // meters from previous point
	Timestamp        time.Time `json:"timestamp"`
	EventType        string    `json:"event_type"` // "initial", "move", "stopped", "started", "periodic"
}
