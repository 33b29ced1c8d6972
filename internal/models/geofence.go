package models

// Geofence shapes
const (
	ShapeCircular  = "circular"
	ShapePolygonal = "polygonal"
)

// Geofence kinds
const (
	KindAuthorized = "authorized"
	KindRestricted = "restricted"
)

// Geofence is a named compliance boundary. Circular fences carry Center and
// RadiusFeet; polygonal fences carry Vertices (>= 3, implicitly closed —
// the last vertex connects back to the first).
type Geofence struct {
	ID               string     `json:"id" db:"id"`
	Name             string     `json:"name" db:"name"`
	Shape            string     `json:"shape" db:"shape"`
	Kind             string     `json:"kind" db:"kind"`
	Center           *GeoPoint  `json:"center,omitempty"`
	RadiusFeet       float64    `json:"radiusFeet,omitempty" db:"radius_feet"`
	Vertices         []GeoPoint `json:"vertices,omitempty"`
	ExpectedAssetIDs []string   `json:"expectedAssetIds"`
}

// ComplianceResult is derived per fence, never stored. ExpectedCount counts
// only expected assets that resolved to a known position; an asset that was
// deleted or never reported is excluded from both tallies and the
// denominator.
type ComplianceResult struct {
	GeofenceID            string `json:"geofenceId"`
	ExpectedCount         int    `json:"expectedCount"`
	InsideCount           int    `json:"insideCount"`
	OutsideCount          int    `json:"outsideCount"`
	ComplianceRatePercent int    `json:"complianceRatePercent"`
}

// FenceCompliance pairs a fence with its result and current violators for
// the fleet-wide report.
type FenceCompliance struct {
	GeofenceID   string           `json:"geofenceId"`
	GeofenceName string           `json:"geofenceName"`
	Kind         string           `json:"kind"`
	Result       ComplianceResult `json:"result"`
	Violating    []string         `json:"violatingAssetIds"`
}

// FleetCompliance aggregates every fence in the store.
type FleetCompliance struct {
	Fences             []FenceCompliance `json:"fences"`
	OverallRatePercent int               `json:"overallRatePercent"`
}
