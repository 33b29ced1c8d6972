package spatial

import "math"

// FeetPerDegree is the flat-earth conversion factor used for fence
// containment: roughly 364,000 feet per degree of latitude. Longitude
// deltas are additionally scaled by cos(latitude) to correct for meridian
// convergence. This local approximation holds for fence radii up to a few
// miles; it is not a geodesic calculation and must not be used for fences
// spanning large areas.
const FeetPerDegree = 364000.0

// IsInsideCircle reports whether point lies within radiusFeet of center.
// A point exactly on the boundary counts as inside. A non-positive radius
// is a malformed fence and always classifies as outside.
func IsInsideCircle(point, center Point, radiusFeet float64) bool {
	if radiusFeet <= 0 {
		return false
	}
	dLat := (point.Lat - center.Lat) * FeetPerDegree
	dLon := (point.Lon - center.Lon) * FeetPerDegree * math.Cos(center.Lat*math.Pi/180)
	return math.Hypot(dLat, dLon) <= radiusFeet
}

// IsInsidePolygon checks containment with the even-odd ray casting rule.
// The vertex ring is implicitly closed; points exactly on an edge get
// whatever membership the crossing test naturally produces. Fewer than
// three vertices is a malformed fence and always classifies as outside.
func IsInsidePolygon(point Point, vertices []Point) bool {
	if len(vertices) < 3 {
		return false
	}

	inside := false
	j := len(vertices) - 1

	for i := 0; i < len(vertices); i++ {
		if ((vertices[i].Lat > point.Lat) != (vertices[j].Lat > point.Lat)) &&
			(point.Lon < (vertices[j].Lon-vertices[i].Lon)*(point.Lat-vertices[i].Lat)/(vertices[j].Lat-vertices[i].Lat)+vertices[i].Lon) {
			inside = !inside
		}
		j = i
	}

	return inside
}
