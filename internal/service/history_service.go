package service

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/fleetops/tracking-backend-go/internal/models"
	"github.com/fleetops/tracking-backend-go/internal/repository"
	"github.com/fleetops/tracking-backend-go/internal/spatial"
)

// HistoryService handles business logic for location histories
type HistoryService struct {
	historyRepo *repository.HistoryRepository
}

// NewHistoryService creates a new history service
func NewHistoryService(historyRepo *repository.HistoryRepository) *HistoryService {
	return &HistoryService{historyRepo: historyRepo}
}

// GetHistories retrieves location histories for the filter window
func (s *HistoryService) GetHistories(filter models.HistoryFilter) ([]models.AssetLocationHistory, error) {
	histories, err := s.historyRepo.GetLocationHistories(filter.AssetIDs, filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("failed to get location histories: %w", err)
	}
	return histories, nil
}

// Summarize aggregates one asset's trajectory over the window: great-circle
// path length, duration, bounding box, and speed statistics over the
// samples that carry a speed reading.
func (s *HistoryService) Summarize(assetID string, fromMillis, toMillis int64) (*models.HistorySummary, error) {
	histories, err := s.historyRepo.GetLocationHistories([]string{assetID}, fromMillis, toMillis)
	if err != nil {
		return nil, fmt.Errorf("failed to get location history: %w", err)
	}
	if len(histories) == 0 {
		return nil, fmt.Errorf("no tracking points for asset")
	}

	points := histories[0].TrackingPoints
	summary := &models.HistorySummary{
		AssetID:    assetID,
		PointCount: len(points),
	}

	path := make([]spatial.Point, len(points))
	var speeds []float64
	minTS, maxTS := points[0].TimestampMillis, points[0].TimestampMillis
	for i, p := range points {
		path[i] = spatial.Point{Lat: p.Position.Latitude, Lon: p.Position.Longitude}
		if p.Speed != nil {
			speeds = append(speeds, *p.Speed)
		}
		if p.TimestampMillis < minTS {
			minTS = p.TimestampMillis
		}
		if p.TimestampMillis > maxTS {
			maxTS = p.TimestampMillis
		}
	}

	summary.DistanceMeters = spatial.PathLength(path)
	summary.DurationMillis = maxTS - minTS
	summary.MinLat, summary.MinLng, summary.MaxLat, summary.MaxLng = spatial.BoundingBox(path)

	if len(speeds) > 0 {
		summary.AvgSpeed = stat.Mean(speeds, nil)
		summary.MaxSpeed = speeds[0]
		for _, v := range speeds[1:] {
			summary.MaxSpeed = math.Max(summary.MaxSpeed, v)
		}
	}
	if len(speeds) > 1 {
		summary.SpeedStdDev = stat.StdDev(speeds, nil)
	}

	return summary, nil
}
