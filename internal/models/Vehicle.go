// internal/models/vehicle.go
package models

import "gorm.io/gorm"

type Vehicle struct {
	gorm.Model
	VehicleNo           string `json:"vehicle_no"`
	VehicleRegistration string `json:"vehicle_registration"`
	DriverID            uint   `json:"driver_id"`
	InService           bool   `json:"in_service" gorm:"default:true"`
	RouteID             uint   `json:"route_id"`
	TelemetryExternalID string `json:"telemetry_external_id"` // id used by the telemetry provider
}
