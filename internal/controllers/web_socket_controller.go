package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"routeboard/internal/config"
	"routeboard/internal/geo"
	"routeboard/internal/middleware"
	"routeboard/internal/models"
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for development (restrict in production!)
	},
}

// PositionData is the incoming JSON from a driver's device.
type PositionData struct {
	VehicleID uint      `json:"vehicle_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"` // GPS accuracy in meters
	Speed     float64   `json:"speed"`    // Speed in m/s
	Bearing   float64   `json:"bearing"`  // Direction in degrees
	Timestamp time.Time `json:"timestamp"`
}

// UnmarshalJSON tolerates timestamps without a timezone suffix by assuming
// UTC, since some devices emit bare RFC3339 local strings.
func (pd *PositionData) UnmarshalJSON(data []byte) error {
	type alias PositionData
	aux := &struct {
		Timestamp string `json:"timestamp"`
		*alias
	}{alias: (*alias)(pd)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	ts := aux.Timestamp
	if len(ts) >= 6 && !(strings.HasSuffix(ts, "Z") || strings.ContainsAny(ts[len(ts)-6:], "+-")) {
		ts += "Z"
	}

	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", aux.Timestamp, err)
	}
	pd.Timestamp = t
	return nil
}

// PositionHub fans vehicle position updates out to connected dashboard
// watchers. Construct with NewPositionHub; the hub owns its broadcast loop.
type PositionHub struct {
	watchers  map[*websocket.Conn]bool
	broadcast chan map[string]interface{}
	mu        sync.Mutex
}

func NewPositionHub() *PositionHub {
	hub := &PositionHub{
		watchers:  make(map[*websocket.Conn]bool),
		broadcast: make(chan map[string]interface{}, 100),
	}
	go hub.run()
	return hub
}

func (h *PositionHub) run() {
	for msg := range h.broadcast {
		h.mu.Lock()
		for conn := range h.watchers {
			if err := conn.WriteJSON(msg); err != nil {
				if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
					delete(h.watchers, conn)
				} else {
					logrus.WithError(err).Warn("Failed to send broadcast message to watcher.")
				}
			}
		}
		h.mu.Unlock()
	}
}

func (h *PositionHub) RegisterWatcher(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.watchers[conn] = true
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("Dashboard watcher registered with PositionHub.")
}

func (h *PositionHub) UnregisterWatcher(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.watchers, conn)
	logrus.WithField("conn_ptr", fmt.Sprintf("%p", conn)).Info("Dashboard watcher unregistered from PositionHub.")
}

func (h *PositionHub) Publish(data map[string]interface{}) {
	select {
	case h.broadcast <- data:
	default:
		logrus.Warn("Position broadcast channel full, dropping message.")
	}
}

// HandlePositionWebSocket is the gin handler for all position websockets.
// Drivers push updates for their assigned vehicle; dispatchers and admins
// receive the broadcast stream.
func HandlePositionWebSocket(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication token"})
		return
	}

	claims, err := middleware.ValidateToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token: " + err.Error()})
		return
	}

	switch claims.Role {
	case "driver":
		var driver models.Driver
		if err := config.DB.Where("user_id = ?", claims.UserID).First(&driver).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "driver profile not found"})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
			return
		}
		defer conn.Close()
		handleDriverSocket(conn, driver)
	case "dispatcher", "admin":
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
			return
		}
		defer conn.Close()
		handleWatcherSocket(conn)
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized role for WebSocket connection"})
	}
}

func handleWatcherSocket(conn *websocket.Conn) {
	positionHub.RegisterWatcher(conn)
	defer positionHub.UnregisterWatcher(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).Error("Error reading WebSocket message from watcher")
			}
			return
		}
	}
}

func handleDriverSocket(conn *websocket.Conn, driver models.Driver) {
	logrus.WithFields(logrus.Fields{
		"driver_id":  driver.ID,
		"vehicle_id": driver.VehicleID,
	}).Info("Driver WebSocket connection established.")

	for {
		messageType, p, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).Errorf("Error reading WebSocket message from Driver ID %d", driver.ID)
			}
			return
		}
		if messageType == websocket.TextMessage {
			processDriverPosition(conn, p, driver)
		}
	}
}

func processDriverPosition(conn *websocket.Conn, p []byte, driver models.Driver) {
	var pos PositionData
	if err := json.Unmarshal(p, &pos); err != nil {
		logrus.WithError(err).WithField("driver_id", driver.ID).Error("Error unmarshaling position data from driver.")
		conn.WriteJSON(gin.H{"error": "Invalid position data format. Check timestamp format."})
		return
	}

	// A driver may only report for the vehicle they are assigned to.
	if pos.VehicleID != driver.VehicleID {
		logrus.WithFields(logrus.Fields{
			"driver_id":          driver.ID,
			"assigned_vehicle":   driver.VehicleID,
			"payload_vehicle_id": pos.VehicleID,
		}).Warn("Driver attempted to report position for a different vehicle. Denying.")
		conn.WriteJSON(gin.H{"error": "Unauthorized position update."})
		return
	}

	var last models.VehiclePosition
	err := config.DB.Where("vehicle_id = ?", pos.VehicleID).Order("created_at desc").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		savePositionAndBroadcast(conn, pos, 0, 0, true, "initial")
		return
	} else if err != nil {
		logrus.WithError(err).Errorf("Database error fetching last position for Vehicle ID %d", pos.VehicleID)
		conn.WriteJSON(gin.H{"error": "Database error fetching last position."})
		return
	}

	distance := geo.DistanceKm(last.Latitude, last.Longitude, pos.Latitude, pos.Longitude) * 1000
	timeDiff := pos.Timestamp.Sub(last.Timestamp).Seconds()
	speed := math.Max(pos.Speed, 0)
	bearing := calculateBearing(last.Latitude, last.Longitude, pos.Latitude, pos.Longitude)

	significant, eventType := shouldSavePosition(distance, speed, timeDiff, last)
	if !significant {
		conn.WriteMessage(websocket.TextMessage, []byte("Position received - no significant change"))
		return
	}

	savePositionAndBroadcast(conn, pos, distance, bearing, speed > 0.5, eventType)
}

func savePositionAndBroadcast(conn *websocket.Conn, pos PositionData, distance, bearing float64, isMoving bool, eventType string) {
	record := models.VehiclePosition{
		VehicleID:        pos.VehicleID,
		Latitude:         pos.Latitude,
		Longitude:        pos.Longitude,
		Accuracy:         pos.Accuracy,
		Speed:            pos.Speed,
		Bearing:          bearing,
		IsMoving:         isMoving,
		DistanceFromLast: distance,
		Timestamp:        pos.Timestamp,
		EventType:        eventType,
	}

	if err := config.DB.Create(&record).Error; err != nil {
		logrus.WithError(err).Errorf("Failed to save position for Vehicle ID %d", pos.VehicleID)
		conn.WriteJSON(gin.H{"error": "Failed to save position."})
		return
	}

	conn.WriteJSON(map[string]interface{}{
		"status":      "saved",
		"event_type":  eventType,
		"distance":    distance,
		"is_moving":   isMoving,
		"timestamp":   pos.Timestamp.Format(time.RFC3339Nano),
		"sequence_id": record.ID,
	})

	positionHub.Publish(map[string]interface{}{
		"vehicle_id":  pos.VehicleID,
		"latitude":    pos.Latitude,
		"longitude":   pos.Longitude,
		"accuracy":    pos.Accuracy,
		"speed":       pos.Speed,
		"bearing":     bearing,
		"timestamp":   pos.Timestamp.Format(time.RFC3339Nano),
		"event_type":  eventType,
		"is_moving":   isMoving,
		"sequence_id": record.ID,
	})
}

// shouldSavePosition decides if an update is significant enough to persist.
func shouldSavePosition(distance, speed, timeDiff float64, last models.VehiclePosition) (bool, string) {
	const minDistanceForSave = 5.0
	const minTimeDiffForSave = 10.0
	const minSpeedForMoving = 0.5
	const maxSpeedForStopped = 1.0

	if last.ID == 0 {
		return true, "initial"
	}

	if distance >= minDistanceForSave {
		return true, "move"
	}

	if last.IsMoving && speed < maxSpeedForStopped && timeDiff >= minTimeDiffForSave {
		return true, "stopped"
	}

	if !last.IsMoving && speed >= minSpeedForMoving && timeDiff >= minTimeDiffForSave {
		return true, "started"
	}

	const periodicSaveInterval = 60 * time.Second
	if time.Since(last.Timestamp) >= periodicSaveInterval {
		return true, "periodic"
	}

	return false, "insignificant"
}

// calculateBearing calculates the initial bearing (direction) in degrees.
func calculateBearing(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	deltaLon := lon2Rad - lon1Rad

	y := math.Sin(deltaLon) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) -
		math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(deltaLon)
	bearingDeg := math.Atan2(y, x) * 180 / math.Pi

	return math.Mod(bearingDeg+360, 360)
}
