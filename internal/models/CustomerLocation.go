// internal/models/customerlocation.go
package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// CustomerLocation holds the recorded coordinates for a location code.
// Lat/Lon are parallel text arrays because a single code may carry multiple
// coordinate pairs (several entrances); grouping only uses the first pair.
// Values come from spreadsheet imports, so they stay strings until parsed.
type CustomerLocation struct {
	gorm.Model

	Code         string         `json:"code" gorm:"index"`
	CustomerName string         `json:"customer_name"`
	Lat          pq.StringArray `json:"lat" gorm:"type:text[]"`
	Lon          pq.StringArray `json:"lon" gorm:"type:text[]"`
	Direction    string         `json:"direction"`
}
