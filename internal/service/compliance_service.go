package service

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/fleetops/tracking-backend-go/internal/events"
	"github.com/fleetops/tracking-backend-go/internal/geofence"
	"github.com/fleetops/tracking-backend-go/internal/models"
	"github.com/fleetops/tracking-backend-go/internal/repository"
)

// ComplianceService evaluates geofence compliance against current asset
// positions and publishes violation alerts. The containment math itself
// lives in the geofence package and stays pure; this layer assembles the
// asset snapshots and handles side effects.
type ComplianceService struct {
	geofenceRepo *repository.GeofenceRepository
	assetRepo    *repository.AssetRepository
	publisher    events.AlertPublisher
}

// NewComplianceService creates a new compliance service
func NewComplianceService(geofenceRepo *repository.GeofenceRepository, assetRepo *repository.AssetRepository, publisher events.AlertPublisher) *ComplianceService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &ComplianceService{
		geofenceRepo: geofenceRepo,
		assetRepo:    assetRepo,
		publisher:    publisher,
	}
}

// EvaluateFence computes the compliance result for one fence.
func (s *ComplianceService) EvaluateFence(fenceID string) (*models.ComplianceResult, error) {
	fence, assetsByID, err := s.resolve(fenceID)
	if err != nil {
		return nil, err
	}
	result := geofence.ComputeCompliance(*fence, assetsByID)
	return &result, nil
}

// Violations lists the expected assets currently outside the fence, in
// expected-id order, and publishes an alert per violator.
func (s *ComplianceService) Violations(fenceID string) ([]string, error) {
	fence, assetsByID, err := s.resolve(fenceID)
	if err != nil {
		return nil, err
	}

	violating := geofence.ViolatingAssets(*fence, assetsByID)
	s.publishAlerts(*fence, assetsByID, violating)
	return violating, nil
}

// EvaluateFleet evaluates every fence in the store. The overall rate pools
// the resolved expectations across fences; a fleet with nothing resolvable
// is vacuously compliant.
func (s *ComplianceService) EvaluateFleet() (*models.FleetCompliance, error) {
	fences, err := s.geofenceRepo.GetGeofences(models.GeofenceFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to get geofences: %w", err)
	}

	fleet := &models.FleetCompliance{Fences: []models.FenceCompliance{}}
	totalExpected, totalInside := 0, 0

	for _, fence := range fences {
		assetsByID, err := s.assetRepo.GetAssetsByID(fence.ExpectedAssetIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to get assets for fence %s: %w", fence.ID, err)
		}

		result := geofence.ComputeCompliance(fence, assetsByID)
		violating := geofence.ViolatingAssets(fence, assetsByID)
		s.publishAlerts(fence, assetsByID, violating)

		fleet.Fences = append(fleet.Fences, models.FenceCompliance{
			GeofenceID:   fence.ID,
			GeofenceName: fence.Name,
			Kind:         fence.Kind,
			Result:       result,
			Violating:    violating,
		})
		totalExpected += result.ExpectedCount
		totalInside += result.InsideCount
	}

	if totalExpected == 0 {
		fleet.OverallRatePercent = 100
	} else {
		fleet.OverallRatePercent = int(math.Round(float64(totalInside) / float64(totalExpected) * 100))
	}
	return fleet, nil
}

func (s *ComplianceService) resolve(fenceID string) (*models.Geofence, map[string]models.TrackedAsset, error) {
	fence, err := s.geofenceRepo.GetGeofenceByID(fenceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get geofence: %w", err)
	}
	if fence == nil {
		return nil, nil, fmt.Errorf("geofence not found")
	}

	assetsByID, err := s.assetRepo.GetAssetsByID(fence.ExpectedAssetIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get assets for fence %s: %w", fenceID, err)
	}
	return fence, assetsByID, nil
}

// publishAlerts is best effort: a broken event bus must not fail a
// compliance read.
func (s *ComplianceService) publishAlerts(fence models.Geofence, assetsByID map[string]models.TrackedAsset, violating []string) {
	now := time.Now().UnixMilli()
	for _, id := range violating {
		asset := assetsByID[id]
		alert := events.GeofenceAlert{
			GeofenceID:   fence.ID,
			GeofenceName: fence.Name,
			Kind:         fence.Kind,
			AssetID:      id,
			Position:     asset.CurrentPosition,
			Timestamp:    now,
		}
		if err := s.publisher.PublishGeofenceAlert(alert); err != nil {
			log.Printf("Failed to publish geofence alert for %s/%s: %v", fence.ID, id, err)
		}
	}
}
