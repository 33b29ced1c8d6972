package models

// HistoryFilter represents query parameters for fetching location histories
type HistoryFilter struct {
	AssetIDs []string `form:"assetIds"`
	From     int64    `form:"from"` // Millisecond timestamp, 0 = unbounded
	To       int64    `form:"to"`   // Millisecond timestamp, 0 = unbounded
}

// AssetFilter represents query parameters for listing assets
type AssetFilter struct {
	Type   string `form:"type"`
	Status string `form:"status"`
}

// GeofenceFilter represents query parameters for listing geofences
type GeofenceFilter struct {
	Kind  string `form:"kind"`  // authorized, restricted
	Shape string `form:"shape"` // circular, polygonal
}
