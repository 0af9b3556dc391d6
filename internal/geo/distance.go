// Package geo holds the small amount of spherical geometry the dashboard
// needs: great-circle distance between coordinate pairs.
package geo

import "math"

const earthRadiusKm = 6371

// DistanceKm computes the haversine great-circle distance in kilometers
// between two lat/lon points given in degrees. Callers are responsible for
// guarding against non-numeric input; NaN in gives NaN out.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// toRadians converts an angle from degrees to radians.
func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
