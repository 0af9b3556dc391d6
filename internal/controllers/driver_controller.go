package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"routeboard/internal/config"
	"routeboard/internal/models"
)

// ListDrivers returns all drivers with their linked user accounts
// (administrative view).
func ListDrivers(c *gin.Context) {
	var drivers []models.Driver
	if err := config.DB.Preload("User").Find(&drivers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing drivers: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": drivers})
}

// AssignDriverVehicle links a driver to a vehicle, keeping both sides of the
// association in sync.
func AssignDriverVehicle(c *gin.Context) {
	dID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid driver ID"})
		return
	}

	var payload struct {
		VehicleID uint `json:"vehicle_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment: " + err.Error()})
		return
	}

	var driver models.Driver
	if err := config.DB.First(&driver, dID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, payload.VehicleID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	driver.VehicleID = vehicle.ID
	vehicle.DriverID = driver.ID
	if err := tx.Save(&driver).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Assignment failed: " + err.Error()})
		return
	}
	if err := tx.Save(&vehicle).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Assignment failed: " + err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit failed: " + err.Error()})
		return
	}

	logrus.WithFields(logrus.Fields{
		"driver_id":  driver.ID,
		"vehicle_id": vehicle.ID,
	}).Info("Driver assigned to vehicle.")
	c.JSON(http.StatusOK, gin.H{"driver": driver})
}
