package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fleetops/tracking-backend-go/internal/models"
)

// GeofenceRepository handles database operations for geofences
type GeofenceRepository struct {
	db *sql.DB
}

// NewGeofenceRepository creates a new geofence repository
func NewGeofenceRepository(db *sql.DB) *GeofenceRepository {
	return &GeofenceRepository{db: db}
}

const geofenceColumns = `id, name, shape, kind, center_latitude, center_longitude, radius_feet, vertices, expected_asset_ids`

// GetGeofences retrieves geofences with optional filtering
func (r *GeofenceRepository) GetGeofences(filter models.GeofenceFilter) ([]models.Geofence, error) {
	query := "SELECT " + geofenceColumns + " FROM geofences"

	var conditions []string
	var args []interface{}

	if filter.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.Shape != "" {
		conditions = append(conditions, "shape = ?")
		args = append(args, filter.Shape)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query geofences: %w", err)
	}
	defer rows.Close()

	var fences []models.Geofence
	for rows.Next() {
		fence, err := scanGeofence(rows)
		if err != nil {
			return nil, err
		}
		fences = append(fences, fence)
	}

	return fences, rows.Err()
}

// GetGeofenceByID retrieves a single geofence, or nil if it does not exist
func (r *GeofenceRepository) GetGeofenceByID(id string) (*models.Geofence, error) {
	row := r.db.QueryRow("SELECT "+geofenceColumns+" FROM geofences WHERE id = ?", id)
	fence, err := scanGeofence(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fence, nil
}

// CreateGeofence inserts a geofence. Geometry validity (positive radius,
// >= 3 vertices) is enforced here, at construction time, so the containment
// engine never sees malformed fences from this store.
func (r *GeofenceRepository) CreateGeofence(fence models.Geofence) error {
	switch fence.Shape {
	case models.ShapeCircular:
		if fence.Center == nil || fence.RadiusFeet <= 0 {
			return fmt.Errorf("circular geofence %s requires a center and positive radius", fence.ID)
		}
	case models.ShapePolygonal:
		if len(fence.Vertices) < 3 {
			return fmt.Errorf("polygonal geofence %s requires at least 3 vertices", fence.ID)
		}
	default:
		return fmt.Errorf("unknown geofence shape %q", fence.Shape)
	}

	vertices, err := json.Marshal(fence.Vertices)
	if err != nil {
		return fmt.Errorf("failed to encode vertices: %w", err)
	}
	expected, err := json.Marshal(fence.ExpectedAssetIDs)
	if err != nil {
		return fmt.Errorf("failed to encode expected asset ids: %w", err)
	}

	var centerLat, centerLng interface{}
	if fence.Center != nil {
		centerLat, centerLng = fence.Center.Latitude, fence.Center.Longitude
	}

	_, err = r.db.Exec(`
		INSERT INTO geofences (id, name, shape, kind, center_latitude, center_longitude, radius_feet, vertices, expected_asset_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fence.ID, fence.Name, fence.Shape, fence.Kind, centerLat, centerLng, fence.RadiusFeet, string(vertices), string(expected),
	)
	if err != nil {
		return fmt.Errorf("failed to insert geofence: %w", err)
	}
	return nil
}

func scanGeofence(row rowScanner) (models.Geofence, error) {
	var f models.Geofence
	var centerLat, centerLng sql.NullFloat64
	var verticesJSON, expectedJSON string

	err := row.Scan(&f.ID, &f.Name, &f.Shape, &f.Kind, &centerLat, &centerLng, &f.RadiusFeet, &verticesJSON, &expectedJSON)
	if err == sql.ErrNoRows {
		return f, err
	}
	if err != nil {
		return f, fmt.Errorf("failed to scan geofence: %w", err)
	}

	if centerLat.Valid && centerLng.Valid {
		f.Center = &models.GeoPoint{Latitude: centerLat.Float64, Longitude: centerLng.Float64}
	}
	if err := json.Unmarshal([]byte(verticesJSON), &f.Vertices); err != nil {
		return f, fmt.Errorf("failed to decode vertices for %s: %w", f.ID, err)
	}
	if err := json.Unmarshal([]byte(expectedJSON), &f.ExpectedAssetIDs); err != nil {
		return f, fmt.Errorf("failed to decode expected asset ids for %s: %w", f.ID, err)
	}
	return f, nil
}
