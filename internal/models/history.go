package models

// TrackingPoint is one sample in an asset's trajectory. Timestamps are
// normally non-decreasing within a trajectory but consumers must not rely
// on pre-sorted input.
type TrackingPoint struct {
	TimestampMillis int64    `json:"timestampMillis" db:"timestamp_millis"`
	Position        GeoPoint `json:"position"`
	Event           string   `json:"event" db:"event"`
	Speed           *float64 `json:"speed,omitempty" db:"speed"`
	BatteryPercent  *float64 `json:"batteryPercent,omitempty" db:"battery_percent"`
}

// AssetLocationHistory holds one asset's trajectory for a bounded period.
// It is constructed wholesale by the data layer and treated as immutable
// once handed to a playback session; date-range changes produce fresh
// re-sliced copies.
type AssetLocationHistory struct {
	AssetID        string          `json:"assetId"`
	AssetName      string          `json:"assetName"`
	AssetType      string          `json:"assetType"`
	DisplayColor   string          `json:"displayColor"`
	TrackingPoints []TrackingPoint `json:"trackingPoints"`
}

// HistorySummary aggregates one trajectory for reporting.
type HistorySummary struct {
	AssetID        string   `json:"assetId"`
	PointCount     int      `json:"pointCount"`
	DistanceMeters float64  `json:"distanceMeters"`
	DurationMillis int64    `json:"durationMillis"`
	AvgSpeed       float64  `json:"avgSpeed"`
	MaxSpeed       float64  `json:"maxSpeed"`
	SpeedStdDev    float64  `json:"speedStdDev"`
	MinLat         float64  `json:"minLat"`
	MinLng         float64  `json:"minLng"`
	MaxLat         float64  `json:"maxLat"`
	MaxLng         float64  `json:"maxLng"`
}
