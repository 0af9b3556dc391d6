package controllers

import (
	"encoding/binary"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"routeboard/internal/config"
	"routeboard/internal/models"
	"routeboard/internal/servicedays"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// RouteResponse mirrors models.Route but carries Geometry as a GeoJSON string
// and adds the display rendering of the service days.
type RouteResponse struct {
	ID                 uint           `json:"ID"`
	CreatedAt          time.Time      `json:"CreatedAt"`
	UpdatedAt          time.Time      `json:"UpdatedAt"`
	DeletedAt          gorm.DeletedAt `json:"DeletedAt,omitempty"`
	RouteName          string         `json:"route_name"`
	LocationCode       string         `json:"location_code"`
	ServiceDays        *string        `json:"service_days"`
	ServiceDaysDisplay string         `json:"service_days_display"`
	UserGroup          string         `json:"user_group"`
	StartDate          *time.Time     `json:"start_date"`
	EndDate            *time.Time     `json:"end_date"`
	Inactive           bool           `json:"inactive"`
	RouteExternalID    string         `json:"route_external_id"`
	Geometry           string         `json:"geometry"`
}

func toRouteResponse(route models.Route) RouteResponse {
	jsonGeom, _ := convertWKBToGeoJSON(route.Geometry)
	return RouteResponse{
		ID:                 route.ID,
		CreatedAt:          route.CreatedAt,
		UpdatedAt:          route.UpdatedAt,
		DeletedAt:          route.DeletedAt,
		RouteName:          route.RouteName,
		LocationCode:       route.LocationCode,
		ServiceDays:        route.ServiceDays,
		ServiceDaysDisplay: servicedays.FormatForDisplay(route.ServiceDays, 0),
		UserGroup:          route.UserGroup,
		StartDate:          route.StartDate,
		EndDate:            route.EndDate,
		Inactive:           route.Inactive,
		RouteExternalID:    route.RouteExternalID,
		Geometry:           jsonGeom,
	}
}

// parseAndConvertGeometry parses a GeoJSON string into a geom.T and returns WKB bytes
func parseAndConvertGeometry(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	err := gjson.Unmarshal([]byte(raw), &g)
	if err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

// convertWKBToGeoJSON converts WKB bytes into a GeoJSON string
func convertWKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CreateRoute registers a new delivery route.
func CreateRoute(c *gin.Context) {
	var input struct {
		RouteName       string     `json:"route_name" binding:"required"`
		LocationCode    string     `json:"location_code"`
		ServiceDays     *string    `json:"service_days"`
		UserGroup       string     `json:"user_group"`
		StartDate       *time.Time `json:"start_date"`
		EndDate         *time.Time `json:"end_date"`
		RouteExternalID string     `json:"route_external_id"`
		Geometry        string     `json:"geometry"` // GeoJSON string
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateRoute: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	wkbGeom, err := parseAndConvertGeometry(input.Geometry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid geometry: " + err.Error()})
		return
	}

	route := models.Route{
		RouteName:       input.RouteName,
		LocationCode:    input.LocationCode,
		ServiceDays:     input.ServiceDays,
		UserGroup:       input.UserGroup,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		RouteExternalID: input.RouteExternalID,
		Geometry:        wkbGeom,
	}
	if err := config.DB.Create(&route).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create route failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"route": toRouteResponse(route)})
}

// ListRoutes returns all routes, optionally filtered to active ones.
func ListRoutes(c *gin.Context) {
	query := config.DB.Model(&models.Route{})
	if c.Query("active") == "true" {
		query = query.Where("inactive = ?", false)
	}
	if group := c.Query("user_group"); group != "" {
		query = query.Where("user_group = ?", group)
	}

	var routes []models.Route
	if err := query.Order("route_name asc").Find(&routes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing routes: " + err.Error()})
		return
	}

	routeResponses := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		routeResponses = append(routeResponses, toRouteResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"routes": routeResponses})
}

// GetRoute returns a single route by id.
func GetRoute(c *gin.Context) {
	rID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var route models.Route
	if err := config.DB.First(&route, rID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(route)})
}

// routeUpdateInput is the allow-list of patchable route fields. Anything not
// named here cannot be changed through the API.
type routeUpdateInput struct {
	RouteName       *string    `json:"route_name"`
	LocationCode    *string    `json:"location_code"`
	ServiceDays     *string    `json:"service_days"`
	UserGroup       *string    `json:"user_group"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Inactive        *bool      `json:"inactive"`
	RouteExternalID *string    `json:"route_external_id"`
	Geometry        *string    `json:"geometry"`
}

// UpdateRoute applies a field-level patch to an existing route.
func UpdateRoute(c *gin.Context) {
	rID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logrus.WithError(err).Warn("UpdateRoute: Invalid route ID in parameter")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var existingRoute models.Route
	if err := config.DB.First(&existingRoute, rID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		} else {
			logrus.WithError(err).Error("UpdateRoute: Database error fetching route")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var input routeUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("UpdateRoute: Invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := applyRouteUpdates(&existingRoute, &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Save(&existingRoute).Error; err != nil {
		logrus.WithError(err).Error("UpdateRoute: Failed to save updated route")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(existingRoute)})
}

func applyRouteUpdates(route *models.Route, input *routeUpdateInput) error {
	if input.RouteName != nil {
		if *input.RouteName == "" {
			return errors.New("route_name cannot be empty")
		}
		route.RouteName = *input.RouteName
	}
	if input.LocationCode != nil {
		route.LocationCode = *input.LocationCode
	}
	if input.ServiceDays != nil {
		route.ServiceDays = input.ServiceDays
	}
	if input.UserGroup != nil {
		route.UserGroup = *input.UserGroup
	}
	if input.StartDate != nil {
		route.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		route.EndDate = input.EndDate
	}
	if input.Inactive != nil {
		route.Inactive = *input.Inactive
	}
	if input.RouteExternalID != nil {
		route.RouteExternalID = *input.RouteExternalID
	}
	if input.Geometry != nil {
		if *input.Geometry == "" {
			route.Geometry = nil
		} else {
			wkbGeom, err := parseAndConvertGeometry(*input.Geometry)
			if err != nil {
				return errors.New("Invalid geometry: " + err.Error())
			}
			route.Geometry = wkbGeom
		}
	}
	return nil
}

// DeleteRoute removes a route. Route deletion is an admin lifecycle action,
// never triggered by the grouping or aggregation code.
func DeleteRoute(c *gin.Context) {
	rID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var route models.Route
	if err := config.DB.First(&route, rID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if err := config.DB.Delete(&route).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete route: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Route deleted successfully"})
}
