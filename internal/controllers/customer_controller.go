package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"routeboard/internal/config"
	"routeboard/internal/customers"
	"routeboard/internal/models"
	"routeboard/internal/servicedays"
)

const (
	stopsDefaultLimit = 1000
	stopsMaxLimit     = 1000
	pageSizeDefault   = 10
	pageSizeMax       = 100
)

// ListCustomerStops lists customer stop records with optional filters.
// limit/offset are clamped into range here rather than rejected; this is the
// lenient counterpart to the strictly validated paginated endpoint below.
func ListCustomerStops(c *gin.Context) {
	limit := stopsDefaultLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > stopsMaxLimit {
		limit = stopsMaxLimit
	}

	offset := 0
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			offset = v
		}
	}
	if offset < 0 {
		offset = 0
	}

	query := config.DB.Model(&models.CustomerStop{})
	if code := c.Query("code"); code != "" {
		query = query.Where("code = ?", code)
	}
	if q := c.Query("q"); q != "" {
		query = query.Where("customer_name ILIKE ?", "%"+q+"%")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		logrus.WithError(err).Error("ListCustomerStops: count query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "store error: " + err.Error()})
		return
	}

	var stops []models.CustomerStop
	if err := query.Order("customer_name asc").Limit(limit).Offset(offset).Find(&stops).Error; err != nil {
		logrus.WithError(err).Error("ListCustomerStops: fetch query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "store error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      stops,
		"count":     count,
		"limit":     limit,
		"offset":    offset,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// CustomersByLocation returns one page of customer stops for a location code.
// Pagination parameters outside their bounds are rejected with 400, never
// clamped — the asymmetry with ListCustomerStops is intentional.
func CustomersByLocation(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "code query parameter is required"})
		return
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "page must be an integer >= 1"})
			return
		}
		page = v
	}

	pageSize := pageSizeDefault
	if raw := c.Query("page_size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > pageSizeMax {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": fmt.Sprintf("page_size must be between 1 and %d", pageSizeMax)})
			return
		}
		pageSize = v
	}

	fetcher := customers.NewGormFetcher(config.DB)
	stops, total, err := fetcher.FetchPage(c.Request.Context(), code, page, pageSize)
	if err != nil {
		logrus.WithError(err).WithField("code", code).Error("CustomersByLocation: fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "store error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       stops,
		"pagination": customers.NewPagination(page, pageSize, total),
	})
}

// RouteCustomers drives the cached customer list for an expanded route card:
// it parses the route's own service-day text, short-circuits when today is
// not a service day, and otherwise serves through the write-through cache.
func RouteCustomers(c *gin.Context) {
	rID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
			page = v
		}
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

	if c.Query("refresh") == "true" {
		durationPager.Invalidate(route.LocationCode)
	}

	days := servicedays.Parse(route.ServiceDays).Days
	result := durationPager.Load(c.Request.Context(), route.LocationCode, days, page, pageSizeDefault)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"customers":    result.Customers,
		"pagination":   result.Pagination,
		"error":        result.ErrMsg,
		"service_days": days,
	})
}

// ImportCustomerLocations ingests parsed upload rows. Rows arrive as loosely
// typed key/value objects from the upload boundary; everything is normalized
// to string arrays before it touches the table.
func ImportCustomerLocations(c *gin.Context) {
	var rows []map[string]any
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rows payload: " + err.Error()})
		return
	}

	imported := 0
	skipped := 0
	for _, row := range rows {
		code := stringField(row, "code")
		if code == "" {
			skipped++
			continue
		}

		loc := models.CustomerLocation{
			Code:         code,
			CustomerName: stringField(row, "customer_name"),
			Lat:          coordField(row, "lat"),
			Lon:          coordField(row, "lon"),
			Direction:    stringField(row, "direction"),
		}

		var existing models.CustomerLocation
		err := config.DB.Where("code = ?", code).First(&existing).Error
		switch {
		case err == nil:
			existing.CustomerName = loc.CustomerName
			existing.Lat = loc.Lat
			existing.Lon = loc.Lon
			existing.Direction = loc.Direction
			if err := config.DB.Save(&existing).Error; err != nil {
				logrus.WithError(err).WithField("code", code).Error("ImportCustomerLocations: update failed")
				skipped++
				continue
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := config.DB.Create(&loc).Error; err != nil {
				logrus.WithError(err).WithField("code", code).Error("ImportCustomerLocations: insert failed")
				skipped++
				continue
			}
		default:
			logrus.WithError(err).WithField("code", code).Error("ImportCustomerLocations: lookup failed")
			skipped++
			continue
		}
		imported++
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "imported": imported, "skipped": skipped})
}

func stringField(row map[string]any, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}

// coordField accepts a single value or a list and normalizes to strings.
// Numeric cells are common when rows come from spreadsheets.
func coordField(row map[string]any, key string) pq.StringArray {
	var out pq.StringArray
	switch v := row[key].(type) {
	case string:
		if v != "" {
			out = append(out, v)
		}
	case float64:
		out = append(out, strconv.FormatFloat(v, 'f', -1, 64))
	case []any:
		for _, e := range v {
			switch el := e.(type) {
			case string:
				if el != "" {
					out = append(out, el)
				}
			case float64:
				out = append(out, strconv.FormatFloat(el, 'f', -1, 64))
			}
		}
	}
	return out
}
