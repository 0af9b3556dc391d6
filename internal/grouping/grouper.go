// Package grouping clusters routes into geographic proximity groups for the
// dashboard map. Clustering is greedy and seed-based: groups form in input
// order and membership is judged against the seed route's coordinates only.
package grouping

import (
	"strconv"

	"routeboard/internal/geo"
	"routeboard/internal/models"
)

// DefaultRadiusKm is the clustering radius used when the caller does not
// supply one.
const DefaultRadiusKm = 5

// palette supplies deterministic display colors, cycled by group index.
var palette = [12]string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8",
	"#f58231", "#911eb4", "#46f0f0", "#f032e6",
	"#bcf60c", "#fabebe", "#008080", "#e6beff",
}

// Bounds is the axis-aligned bounding box of a group's member coordinates.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Group is a cluster of routes judged geographically close. Groups are
// recomputed on every call and never persisted; IDs reflect assignment order.
type Group struct {
	ID        int            `json:"id"`
	CenterLat float64        `json:"center_lat"`
	CenterLon float64        `json:"center_lon"`
	Routes    []models.Route `json:"routes"`
	Color     string         `json:"color"`
	Bounds    Bounds         `json:"bounds"`
}

type coord struct {
	lat, lon float64
}

// locationIndex maps a location code to its first parseable coordinate pair.
// Codes whose arrays are empty or non-numeric are left out entirely; a stored
// (0,0) is a real coordinate and stays in.
func locationIndex(locations []models.CustomerLocation) map[string]coord {
	idx := make(map[string]coord, len(locations))
	for _, loc := range locations {
		if loc.Code == "" || len(loc.Lat) == 0 || len(loc.Lon) == 0 {
			continue
		}
		lat, errLat := strconv.ParseFloat(loc.Lat[0], 64)
		lon, errLon := strconv.ParseFloat(loc.Lon[0], 64)
		if errLat != nil || errLon != nil {
			continue
		}
		if _, exists := idx[loc.Code]; exists {
			continue
		}
		idx[loc.Code] = coord{lat: lat, lon: lon}
	}
	return idx
}

// ByProximity partitions routes into disjoint proximity groups.
//
// Every input route lands in exactly one group: routes whose location code
// resolves to coordinates are clustered greedily within maxDistanceKm of each
// cluster's seed route, and the rest are collected into one trailing
// no-location group with centroid (0,0). When no route resolves at all, a
// single group holding every input route is returned.
//
// A route joins the first compatible seed it is scanned against and is never
// re-evaluated against later groups, so results depend on input order but are
// deterministic for identical input. Route names are the dedup key and must
// be unique within one call.
func ByProximity(routes []models.Route, locations []models.CustomerLocation, maxDistanceKm float64) []Group {
	if maxDistanceKm <= 0 {
		maxDistanceKm = DefaultRadiusKm
	}
	idx := locationIndex(locations)

	var locatable, unlocatable []models.Route
	for _, r := range routes {
		if _, ok := idx[r.LocationCode]; ok {
			locatable = append(locatable, r)
		} else {
			unlocatable = append(unlocatable, r)
		}
	}

	if len(locatable) == 0 {
		// Nothing resolves: one catch-all group so the UI still lists routes.
		g := Group{ID: 1, Routes: append([]models.Route{}, routes...), Color: palette[0]}
		return []Group{g}
	}

	assigned := make(map[string]bool, len(locatable))
	var groups []Group

	for _, seed := range locatable {
		if assigned[seed.RouteName] {
			continue
		}
		assigned[seed.RouteName] = true
		seedPos := idx[seed.LocationCode]
		members := []models.Route{seed}

		// Membership is measured against the seed, not the evolving
		// centroid. Kept as-is for compatibility with existing groupings.
		for _, other := range locatable {
			if assigned[other.RouteName] {
				continue
			}
			pos := idx[other.LocationCode]
			if geo.DistanceKm(seedPos.lat, seedPos.lon, pos.lat, pos.lon) <= maxDistanceKm {
				assigned[other.RouteName] = true
				members = append(members, other)
			}
		}

		g := Group{ID: len(groups) + 1, Routes: members}
		g.CenterLat, g.CenterLon, g.Bounds = summarize(members, idx)
		g.Color = palette[len(groups)%len(palette)]
		groups = append(groups, g)
	}

	if len(unlocatable) > 0 {
		g := Group{
			ID:     len(groups) + 1,
			Routes: unlocatable,
			Color:  palette[len(groups)%len(palette)],
		}
		groups = append(groups, g)
	}

	return groups
}

// summarize computes the centroid and bounding box of a group's members.
func summarize(members []models.Route, idx map[string]coord) (lat, lon float64, b Bounds) {
	first := idx[members[0].LocationCode]
	b = Bounds{MinLat: first.lat, MaxLat: first.lat, MinLon: first.lon, MaxLon: first.lon}

	var sumLat, sumLon float64
	for _, m := range members {
		pos := idx[m.LocationCode]
		sumLat += pos.lat
		sumLon += pos.lon
		if pos.lat < b.MinLat {
			b.MinLat = pos.lat
		}
		if pos.lat > b.MaxLat {
			b.MaxLat = pos.lat
		}
		if pos.lon < b.MinLon {
			b.MinLon = pos.lon
		}
		if pos.lon > b.MaxLon {
			b.MaxLon = pos.lon
		}
	}
	n := float64(len(members))
	return sumLat / n, sumLon / n, b
}
