// Package today builds the day-start dashboard summary: routes grouped by
// their raw location code with the customer stops recorded for that code.
//
// Grouping here is exact string match on the code, not geography — two routes
// sharing a code belong together even when no coordinates exist for it.
package today

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"routeboard/internal/models"
	"routeboard/internal/servicedays"
)

// UnknownCode is the bucket for routes with a null or empty location code.
const UnknownCode = "Unknown"

// StopSource supplies the customer stops recorded for one location code.
type StopSource interface {
	StopsByCode(ctx context.Context, code string) ([]models.CustomerStop, error)
}

// GroupSummary is one location's slice of the daily summary.
type GroupSummary struct {
	LocationCode  string                `json:"location_code"`
	Routes        []models.Route        `json:"routes"`
	Customers     []models.CustomerStop `json:"customers"`
	CustomerCount int                   `json:"customer_count"`
}

// Summary is the aggregated daily view.
type Summary struct {
	Groups         []GroupSummary `json:"groups"`
	TotalRoutes    int            `json:"total_routes"`
	TotalCustomers int            `json:"total_customers"`
	Day            string         `json:"day"`
	Date           string         `json:"date"`
}

// Aggregator resolves "today" through an injectable clock and fetches stops
// through an injectable source, so tests run without a database.
type Aggregator struct {
	stops StopSource
	now   func() time.Time
}

func NewAggregator(stops StopSource, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{stops: stops, now: now}
}

// ForToday groups routes by exact location code and attaches each group's
// recorded customer stops.
//
// Stop lookups for all groups run concurrently, each writing to its own slot.
// A failed lookup is logged and leaves that group with zero customers; it
// never aborts the sibling groups or the aggregation itself. Attached stops
// are NOT filtered by service-day membership — any day-based filtering is the
// consumer's concern.
func (a *Aggregator) ForToday(ctx context.Context, routes []models.Route) Summary {
	now := a.now()
	summary := Summary{
		Day:  servicedays.Today(now),
		Date: now.Format("2006-01-02"),
	}

	byCode := make(map[string][]models.Route)
	var order []string
	for _, r := range routes {
		code := r.LocationCode
		if code == "" {
			code = UnknownCode
		}
		if _, seen := byCode[code]; !seen {
			order = append(order, code)
		}
		byCode[code] = append(byCode[code], r)
	}

	groups := make([]GroupSummary, len(order))
	var wg sync.WaitGroup
	for i, code := range order {
		groups[i] = GroupSummary{LocationCode: code, Routes: byCode[code]}

		wg.Add(1)
		go func(slot int, code string) {
			defer wg.Done()
			stops, err := a.stops.StopsByCode(ctx, code)
			if err != nil {
				logrus.WithError(err).WithField("code", code).Warn("stop lookup failed for group, reporting zero customers")
				return
			}
			sort.Slice(stops, func(x, y int) bool {
				return stops[x].CustomerName < stops[y].CustomerName
			})
			groups[slot].Customers = stops
			groups[slot].CustomerCount = len(stops)
		}(i, code)
	}
	wg.Wait()

	summary.Groups = groups
	for _, g := range groups {
		summary.TotalRoutes += len(g.Routes)
		summary.TotalCustomers += g.CustomerCount
	}
	return summary
}
