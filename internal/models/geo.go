package models

// GeoPoint is a WGS84 coordinate pair in decimal degrees. No altitude.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DateRange is a closed window over millisecond timestamps.
type DateRange struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}
