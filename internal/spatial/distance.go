package spatial

import (
	"github.com/golang/geo/s2"
)

// Earth radius constants
const (
	EarthRadiusMeters = 6371000.0
)

// HaversineDistance calculates the great-circle distance between two points
// in meters. Used for trajectory length and reporting; fence containment
// deliberately uses the flat-earth approximation in containment.go instead.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}
