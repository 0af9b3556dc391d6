package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"routeboard/internal/config"
	"routeboard/internal/models"
)

// CreateVehicle registers a new fleet vehicle; defaults InService to true.
func CreateVehicle(c *gin.Context) {
	var input struct {
		VehicleNo           string `json:"vehicle_no" binding:"required"`
		VehicleRegistration string `json:"vehicle_registration" binding:"required"`
		RouteID             uint   `json:"route_id"`
		TelemetryExternalID string `json:"telemetry_external_id"`
		// InService omitted: always default true on creation
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle input: " + err.Error()})
		return
	}

	vehicle := models.Vehicle{
		VehicleNo:           input.VehicleNo,
		VehicleRegistration: input.VehicleRegistration,
		RouteID:             input.RouteID,
		TelemetryExternalID: input.TelemetryExternalID,
		InService:           true,
	}

	if err := config.DB.Create(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vehicle": vehicle})
}

// ListVehicles returns the whole fleet (administrative view).
func ListVehicles(c *gin.Context) {
	var vehicles []models.Vehicle
	if err := config.DB.Find(&vehicles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing vehicles: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vehicles})
}

// UpdateVehicleService toggles the in-service flag.
func UpdateVehicleService(c *gin.Context) {
	id := c.Param("id")

	var payload struct {
		InService *bool `json:"in_service" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update: " + err.Error()})
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	vehicle.InService = *payload.InService
	if err := config.DB.Save(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// AssignVehicleRoute links a vehicle to a route.
func AssignVehicleRoute(c *gin.Context) {
	id := c.Param("id")

	var payload struct {
		RouteID uint `json:"route_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment: " + err.Error()})
		return
	}

	var route models.Route
	if err := config.DB.First(&route, payload.RouteID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	vehicle.RouteID = route.ID
	if err := config.DB.Save(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Assignment failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}
