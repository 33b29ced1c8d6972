package events

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/fleetops/tracking-backend-go/internal/models"
)

// GeofenceAlert is published when a compliance evaluation finds an expected
// asset outside its fence.
type GeofenceAlert struct {
	GeofenceID   string           `json:"geofenceId"`
	GeofenceName string           `json:"geofenceName"`
	Kind         string           `json:"kind"`
	AssetID      string           `json:"assetId"`
	Position     *models.GeoPoint `json:"position,omitempty"`
	Timestamp    int64            `json:"timestamp"`
}

// AlertPublisher publishes geofence alerts. Implementations must be safe
// for concurrent use.
type AlertPublisher interface {
	PublishGeofenceAlert(alert GeofenceAlert) error
}

// NATSPublisher publishes alerts on the fleet.alerts.geofence.<id> subject.
type NATSPublisher struct {
	nc *nats.Conn
}

// NewNATSPublisher wraps an established connection.
func NewNATSPublisher(nc *nats.Conn) *NATSPublisher {
	return &NATSPublisher{nc: nc}
}

func (p *NATSPublisher) PublishGeofenceAlert(alert GeofenceAlert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to encode geofence alert: %w", err)
	}
	if err := p.nc.Publish(GeofenceAlertSubject(alert.GeofenceID), data); err != nil {
		return fmt.Errorf("failed to publish geofence alert: %w", err)
	}
	return nil
}

// NoopPublisher discards alerts; used when eventing is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishGeofenceAlert(GeofenceAlert) error { return nil }
