package service

import (
	"fmt"

	"github.com/fleetops/tracking-backend-go/internal/models"
	"github.com/fleetops/tracking-backend-go/internal/repository"
)

// GeofenceService handles business logic for geofences
type GeofenceService struct {
	geofenceRepo *repository.GeofenceRepository
}

// NewGeofenceService creates a new geofence service
func NewGeofenceService(geofenceRepo *repository.GeofenceRepository) *GeofenceService {
	return &GeofenceService{geofenceRepo: geofenceRepo}
}

// GetGeofences retrieves geofences with filtering
func (s *GeofenceService) GetGeofences(filter models.GeofenceFilter) ([]models.Geofence, error) {
	fences, err := s.geofenceRepo.GetGeofences(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get geofences: %w", err)
	}
	return fences, nil
}

// GetGeofenceByID retrieves a single geofence
func (s *GeofenceService) GetGeofenceByID(id string) (*models.Geofence, error) {
	fence, err := s.geofenceRepo.GetGeofenceByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get geofence: %w", err)
	}
	if fence == nil {
		return nil, fmt.Errorf("geofence not found")
	}
	return fence, nil
}
