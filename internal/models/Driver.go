// internal/models/driver.go
package models

import (
	"gorm.io/gorm"
)

type Driver struct {
	gorm.Model
	UserID        uint   `json:"user_id" gorm:"unique"` // Foreign key to User
	VehicleID     uint   `json:"vehicle_id" gorm:"index"`
	User          User   `gorm:"foreignKey:UserID"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
	UserGroup     string `json:"user_group"` // staffing group, matches Route.UserGroup
}
