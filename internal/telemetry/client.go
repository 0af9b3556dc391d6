// Package telemetry proxies the external vehicle-telemetry provider. The
// provider is a black box polled over HTTP with a bounded timeout; when it is
// unreachable the dashboard still needs markers, so a synthetic list is
// derived from the vehicles table with clearly randomized telemetry fields.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"routeboard/internal/models"
)

const (
	SourceLive     = "live"
	SourceFallback = "fallback"
)

// Snapshot is one vehicle's last reported position as served to the UI.
type Snapshot struct {
	VehicleNo    string    `json:"vehicle_no"`
	Registration string    `json:"registration"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Speed        float64   `json:"speed"`
	Bearing      float64   `json:"bearing"`
	Timestamp    time.Time `json:"timestamp"`
	Synthetic    bool      `json:"synthetic"`
}

// Client polls the provider and holds a short-lived snapshot cache so the
// dashboard's refresh loop does not hammer the upstream. The cache here is
// TTL-based, unlike the customer page cache which only invalidates on demand.
type Client struct {
	endpoint string
	http     *http.Client
	db       *gorm.DB
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	cached   []Snapshot
	source   string
	cachedAt time.Time
}

// NewClient builds a telemetry client. timeout bounds each upstream request;
// ttl bounds how long a fetched snapshot list is reused. A nil clock means
// time.Now.
func NewClient(endpoint string, timeout, ttl time.Duration, db *gorm.DB, now func() time.Time) *Client {
	if now == nil {
		now = time.Now
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		db:       db,
		ttl:      ttl,
		now:      now,
	}
}

// Fleet returns the current vehicle snapshots and which source produced them.
// Upstream failure is not an error to the caller: the synthetic fallback list
// is served instead and the source reports "fallback".
func (c *Client) Fleet(ctx context.Context) ([]Snapshot, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && c.now().Sub(c.cachedAt) < c.ttl {
		return c.cached, c.source
	}

	snaps, err := c.fetchLive(ctx)
	source := SourceLive
	if err != nil {
		logrus.WithError(err).Warn("telemetry provider unavailable, serving synthetic fallback")
		snaps = c.syntheticFleet(ctx)
		source = SourceFallback
	}

	c.cached = snaps
	c.source = source
	c.cachedAt = c.now()
	return snaps, source
}

func (c *Client) fetchLive(ctx context.Context) ([]Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build telemetry request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll telemetry provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telemetry provider returned status %d", resp.StatusCode)
	}

	var snaps []Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snaps); err != nil {
		return nil, fmt.Errorf("decode telemetry response: %w", err)
	}
	return snaps, nil
}

// syntheticFleet derives placeholder snapshots from the vehicles table. The
// telemetry fields are random noise around Johannesburg and are flagged
// Synthetic so the UI can grey them out.
func (c *Client) syntheticFleet(ctx context.Context) []Snapshot {
	var vehicles []models.Vehicle
	if c.db != nil {
		if err := c.db.WithContext(ctx).Where("in_service = ?", true).Find(&vehicles).Error; err != nil {
			logrus.WithError(err).Error("fallback vehicle query failed")
			return []Snapshot{}
		}
	}

	snaps := make([]Snapshot, 0, len(vehicles))
	for _, v := range vehicles {
		snaps = append(snaps, Snapshot{
			VehicleNo:    v.VehicleNo,
			Registration: v.VehicleRegistration,
			Latitude:     -26.2 + rand.Float64()*0.2,
			Longitude:    28.0 + rand.Float64()*0.2,
			Speed:        rand.Float64() * 60,
			Bearing:      rand.Float64() * 360,
			Timestamp:    c.now(),
			Synthetic:    true,
		})
	}
	return snaps
}
