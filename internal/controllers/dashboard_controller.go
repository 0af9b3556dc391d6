package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"routeboard/internal/config"
	"routeboard/internal/grouping"
	"routeboard/internal/models"
)

const maxRadiusKm = 100

// RouteGroups clusters the active routes into geographic proximity groups
// for the dashboard map.
func RouteGroups(c *gin.Context) {
	radius := float64(grouping.DefaultRadiusKm)
	if raw := c.Query("radius_km"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 || v > maxRadiusKm {
			c.JSON(http.StatusBadRequest, gin.H{"error": "radius_km must be a number in (0, 100]"})
			return
		}
		radius = v
	}

	var routes []models.Route
	if err := config.DB.Where("inactive = ?", false).Order("route_name asc").Find(&routes).Error; err != nil {
		logrus.WithError(err).Error("RouteGroups: failed to load routes")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading routes: " + err.Error()})
		return
	}

	var locations []models.CustomerLocation
	if err := config.DB.Find(&locations).Error; err != nil {
		logrus.WithError(err).Error("RouteGroups: failed to load customer locations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading locations: " + err.Error()})
		return
	}

	groups := grouping.ByProximity(routes, locations, radius)
	c.JSON(http.StatusOK, gin.H{
		"groups":    groups,
		"radius_km": radius,
	})
}

// TodayOverview aggregates all routes by raw location code with their
// customer stops for the day-start dashboard.
func TodayOverview(c *gin.Context) {
	var routes []models.Route
	if err := config.DB.Where("inactive = ?", false).Order("route_name asc").Find(&routes).Error; err != nil {
		logrus.WithError(err).Error("TodayOverview: failed to load routes")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading routes: " + err.Error()})
		return
	}

	summary := todayAggregator.ForToday(c.Request.Context(), routes)
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// LiveFleet proxies the external telemetry provider, reporting which source
// produced the snapshots.
func LiveFleet(c *gin.Context) {
	snaps, source := fleetTelemetry.Fleet(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"vehicles": snaps,
		"source":   source,
	})
}
