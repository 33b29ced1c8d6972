package events

import "fmt"

// NATS subject patterns
const (
	SubjectPrefix = "fleet"

	SubjectGeofenceAlerts    = "fleet.alerts.geofence"
	SubjectGeofenceAlertsAll = "fleet.alerts.geofence.>"
)

// GeofenceAlertSubject returns the per-fence alert subject.
func GeofenceAlertSubject(fenceID string) string {
	return fmt.Sprintf("%s.%s", SubjectGeofenceAlerts, fenceID)
}
