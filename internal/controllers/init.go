package controllers

import (
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"routeboard/internal/customers"
	"routeboard/internal/telemetry"
	"routeboard/internal/today"
)

// Shared collaborators used by the dashboard handlers. They are constructed
// once at startup from the live DB handle; tests build their own instances
// against fake fetchers instead of going through this wiring.
var (
	durationPager   *customers.Pager
	todayAggregator *today.Aggregator
	fleetTelemetry  *telemetry.Client
	positionHub     *PositionHub
)

// Init wires the handler collaborators. Must be called after config.InitDB.
func Init(db *gorm.DB) {
	durationPager = customers.NewPager(customers.NewGormFetcher(db), nil)
	todayAggregator = today.NewAggregator(today.NewGormStopSource(db), nil)
	positionHub = NewPositionHub()

	endpoint := os.Getenv("TELEMETRY_URL")
	if endpoint == "" {
		endpoint = "http://localhost:9090/fleet/positions"
	}
	timeout := envDuration("TELEMETRY_TIMEOUT_MS", 3000)
	ttl := envDuration("TELEMETRY_CACHE_MS", 10000)
	fleetTelemetry = telemetry.NewClient(endpoint, timeout, ttl, db, nil)
}

func envDuration(key string, defaultMs int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return time.Duration(defaultMs) * time.Millisecond
}
