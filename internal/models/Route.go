package models

import (
	"time"

	"gorm.io/gorm"
)

// Route represents a delivery route serving one customer location.
// ServiceDays is free-form comma-separated text ("Monday, Wednesday") and is
// never interpreted here; parsing lives in internal/servicedays.
type Route struct {
	gorm.Model

	RouteName       string     `json:"route_name" gorm:"uniqueIndex" binding:"required"`
	LocationCode    string     `json:"location_code" gorm:"index"`
	ServiceDays     *string    `json:"service_days"`
	UserGroup       string     `json:"user_group"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Inactive        bool       `json:"inactive" gorm:"default:false"`
	RouteExternalID string     `json:"route_external_id"`

	// Optional path geometry stored as WKB (SRID 4326 LINESTRING).
	// API input/output is GeoJSON; conversion happens in the controller.
	Geometry []byte `json:"-" gorm:"type:bytea"`
}
