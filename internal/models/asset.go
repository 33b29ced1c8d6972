package models

// TrackedAsset is an asset as the containment engine consumes it:
// CurrentPosition is nil when the asset has never reported.
type TrackedAsset struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Type            string    `json:"type" db:"type"`
	Status          string    `json:"status" db:"status"`
	DisplayColor    string    `json:"displayColor" db:"display_color"`
	CurrentPosition *GeoPoint `json:"currentPosition,omitempty"`
	LastReportedAt  *int64    `json:"lastReportedAt,omitempty" db:"last_reported_at"`
}
