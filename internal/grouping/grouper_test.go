package grouping

import (
	"strconv"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routeboard/internal/models"
)

func route(name, code string) models.Route {
	return models.Route{RouteName: name, LocationCode: code}
}

func location(code, lat, lon string) models.CustomerLocation {
	return models.CustomerLocation{
		Code: code,
		Lat:  pq.StringArray{lat},
		Lon:  pq.StringArray{lon},
	}
}

func TestByProximityClusterScenario(t *testing.T) {
	routes := []models.Route{
		route("R1", "A"),
		route("R2", "B"),
		route("R3", "C"),
	}
	locations := []models.CustomerLocation{
		location("A", "-26.20", "28.04"),
		location("B", "-26.21", "28.05"),
		location("C", "-25.00", "29.00"),
	}

	groups := ByProximity(routes, locations, 5)
	require.Len(t, groups, 2)

	assert.Equal(t, 1, groups[0].ID)
	require.Len(t, groups[0].Routes, 2)
	assert.Equal(t, "R1", groups[0].Routes[0].RouteName)
	assert.Equal(t, "R2", groups[0].Routes[1].RouteName)

	assert.Equal(t, 2, groups[1].ID)
	require.Len(t, groups[1].Routes, 1)
	assert.Equal(t, "R3", groups[1].Routes[0].RouteName)

	// Centroid of the first cluster is the mean of its member coordinates.
	assert.InDelta(t, -26.205, groups[0].CenterLat, 1e-9)
	assert.InDelta(t, 28.045, groups[0].CenterLon, 1e-9)
	assert.Equal(t, Bounds{MinLat: -26.21, MaxLat: -26.20, MinLon: 28.04, MaxLon: 28.05}, groups[0].Bounds)
}

func TestByProximityTotality(t *testing.T) {
	routes := []models.Route{
		route("R1", "A"),
		route("R2", "B"),
		route("R3", "missing"),
		route("R4", ""),
		route("R5", "C"),
	}
	locations := []models.CustomerLocation{
		location("A", "-26.20", "28.04"),
		location("B", "-26.21", "28.05"),
		location("C", "-25.00", "29.00"),
	}

	groups := ByProximity(routes, locations, 5)

	total := 0
	seen := map[string]int{}
	for _, g := range groups {
		total += len(g.Routes)
		for _, r := range g.Routes {
			seen[r.RouteName]++
		}
	}
	assert.Equal(t, len(routes), total, "every route appears in exactly one group")
	for name, n := range seen {
		assert.Equal(t, 1, n, "route %s duplicated", name)
	}
}

func TestByProximityDeterminism(t *testing.T) {
	routes := []models.Route{
		route("R1", "A"), route("R2", "B"), route("R3", "C"), route("R4", "D"),
	}
	locations := []models.CustomerLocation{
		location("A", "-26.20", "28.04"),
		location("B", "-26.21", "28.05"),
		location("C", "-25.00", "29.00"),
		location("D", "-25.01", "29.01"),
	}

	first := ByProximity(routes, locations, 5)
	second := ByProximity(routes, locations, 5)
	assert.Equal(t, first, second)
}

func TestByProximityNoLocationFallback(t *testing.T) {
	routes := []models.Route{
		route("R1", "nowhere"),
		route("R2", ""),
	}

	groups := ByProximity(routes, nil, 5)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Routes, 2)
	assert.Equal(t, 0.0, groups[0].CenterLat)
	assert.Equal(t, 0.0, groups[0].CenterLon)
	assert.Equal(t, Bounds{}, groups[0].Bounds)
}

func TestByProximityUnlocatableTrailingGroup(t *testing.T) {
	routes := []models.Route{
		route("R1", "A"),
		route("R2", "missing"),
	}
	locations := []models.CustomerLocation{location("A", "-26.20", "28.04")}

	groups := ByProximity(routes, locations, 5)
	require.Len(t, groups, 2)
	last := groups[len(groups)-1]
	require.Len(t, last.Routes, 1)
	assert.Equal(t, "R2", last.Routes[0].RouteName)
	assert.Equal(t, 0.0, last.CenterLat)
	assert.Equal(t, 0.0, last.CenterLon)
}

func TestByProximityZeroCoordinatesAreLocated(t *testing.T) {
	routes := []models.Route{route("R1", "ORIGIN")}
	locations := []models.CustomerLocation{location("ORIGIN", "0", "0")}

	groups := ByProximity(routes, locations, 5)
	require.Len(t, groups, 1)
	// A stored (0,0) is a real coordinate, so this is NOT the fallback group:
	// bounds collapse onto the point itself.
	assert.Equal(t, Bounds{MinLat: 0, MaxLat: 0, MinLon: 0, MaxLon: 0}, groups[0].Bounds)
	assert.Len(t, groups[0].Routes, 1)
}

func TestByProximitySkipsUnparseableCoordinates(t *testing.T) {
	routes := []models.Route{route("R1", "BAD")}
	locations := []models.CustomerLocation{location("BAD", "not-a-number", "28.04")}

	groups := ByProximity(routes, locations, 5)
	require.Len(t, groups, 1)
	// Unparseable coordinates exclude the code from the lookup entirely,
	// so the single route lands in the no-location fallback group.
	assert.Equal(t, 0.0, groups[0].CenterLat)
	assert.Len(t, groups[0].Routes, 1)
}

func TestByProximityColorsCycleDeterministically(t *testing.T) {
	var routes []models.Route
	var locations []models.CustomerLocation
	// 14 isolated locations, far enough apart that each seeds its own group.
	for i := 0; i < 14; i++ {
		name := string(rune('A' + i))
		routes = append(routes, route("Route-"+name, name))
		locations = append(locations, location(name,
			floatString(-20.0-float64(i)), floatString(25.0+float64(i))))
	}

	groups := ByProximity(routes, locations, 5)
	require.Len(t, groups, 14)
	for i, g := range groups {
		assert.Equal(t, i+1, g.ID)
		assert.Equal(t, palette[i%len(palette)], g.Color)
	}
	// The 13th group wraps around to the first palette entry.
	assert.Equal(t, groups[0].Color, groups[12].Color)
}

func floatString(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
