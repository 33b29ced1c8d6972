// Package geofence implements the containment engine: pure, total functions
// that classify tracked assets against circular and polygonal fences and
// aggregate fleet compliance. Nothing here holds state or performs I/O;
// callers pass in fresh asset and fence snapshots.
package geofence

import (
	"math"

	"github.com/fleetops/tracking-backend-go/internal/models"
	"github.com/fleetops/tracking-backend-go/internal/spatial"
)

// Classification of an asset relative to a fence.
type Classification string

const (
	Inside  Classification = "inside"
	Outside Classification = "outside"
	// Unknown means the asset has never reported a position. Unknown assets
	// are excluded from compliance tallies and from the denominator.
	Unknown Classification = "unknown"
)

// Contains reports whether a position lies inside the fence geometry.
// Malformed geometry (non-positive radius, fewer than three vertices) is a
// construction-time caller error; it classifies deterministically as
// outside rather than failing.
func Contains(fence models.Geofence, pos models.GeoPoint) bool {
	switch fence.Shape {
	case models.ShapeCircular:
		if fence.Center == nil {
			return false
		}
		return spatial.IsInsideCircle(toPoint(pos), toPoint(*fence.Center), fence.RadiusFeet)
	case models.ShapePolygonal:
		ring := make([]spatial.Point, len(fence.Vertices))
		for i, v := range fence.Vertices {
			ring[i] = toPoint(v)
		}
		return spatial.IsInsidePolygon(toPoint(pos), ring)
	default:
		return false
	}
}

// Classify dispatches on the fence shape, returning Unknown for assets with
// no reported position.
func Classify(asset models.TrackedAsset, fence models.Geofence) Classification {
	if asset.CurrentPosition == nil {
		return Unknown
	}
	if Contains(fence, *asset.CurrentPosition) {
		return Inside
	}
	return Outside
}

// ComputeCompliance tallies the fence's expected assets. Expected IDs that
// resolve to no asset, or to an asset with no position, are skipped
// silently: ExpectedCount is the resolved count, so a stale expectation
// never reads as a violation. A fence with nothing resolvable is vacuously
// 100% compliant.
func ComputeCompliance(fence models.Geofence, assetsByID map[string]models.TrackedAsset) models.ComplianceResult {
	result := models.ComplianceResult{GeofenceID: fence.ID}

	for _, id := range fence.ExpectedAssetIDs {
		asset, ok := assetsByID[id]
		if !ok {
			continue
		}
		switch Classify(asset, fence) {
		case Inside:
			result.InsideCount++
		case Outside:
			result.OutsideCount++
		}
	}

	result.ExpectedCount = result.InsideCount + result.OutsideCount
	if result.ExpectedCount == 0 {
		result.ComplianceRatePercent = 100
	} else {
		result.ComplianceRatePercent = int(math.Round(float64(result.InsideCount) / float64(result.ExpectedCount) * 100))
	}
	return result
}

// ViolatingAssets returns the expected-and-resolved assets classified
// outside the fence, in ExpectedAssetIDs order. Callers rely on that order
// for stable violation lists.
func ViolatingAssets(fence models.Geofence, assetsByID map[string]models.TrackedAsset) []string {
	var violating []string
	for _, id := range fence.ExpectedAssetIDs {
		asset, ok := assetsByID[id]
		if !ok {
			continue
		}
		if Classify(asset, fence) == Outside {
			violating = append(violating, id)
		}
	}
	return violating
}

func toPoint(p models.GeoPoint) spatial.Point {
	return spatial.Point{Lat: p.Latitude, Lon: p.Longitude}
}
