package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/fleetops/tracking-backend-go/internal/models"
)

// AssetRepository handles database operations for tracked assets
type AssetRepository struct {
	db *sql.DB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

const assetColumns = `id, name, type, status, display_color, last_latitude, last_longitude, last_reported_at`

// GetAssets retrieves assets with optional filtering
func (r *AssetRepository) GetAssets(filter models.AssetFilter) ([]models.TrackedAsset, error) {
	query := "SELECT " + assetColumns + " FROM assets"

	var conditions []string
	var args []interface{}

	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, filter.Type)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []models.TrackedAsset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	return assets, rows.Err()
}

// GetAssetByID retrieves a single asset, or nil if it does not exist
func (r *AssetRepository) GetAssetByID(id string) (*models.TrackedAsset, error) {
	row := r.db.QueryRow("SELECT "+assetColumns+" FROM assets WHERE id = ?", id)
	asset, err := scanAsset(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// GetAssetsByID builds the id->asset map the containment engine consumes.
// IDs with no matching row are simply absent from the map.
func (r *AssetRepository) GetAssetsByID(ids []string) (map[string]models.TrackedAsset, error) {
	assetsByID := make(map[string]models.TrackedAsset, len(ids))
	if len(ids) == 0 {
		return assetsByID, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.Query("SELECT "+assetColumns+" FROM assets WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets by id: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assetsByID[asset.ID] = asset
	}

	return assetsByID, rows.Err()
}

// UpdatePosition records a newly reported position for an asset.
func (r *AssetRepository) UpdatePosition(id string, pos models.GeoPoint, reportedAtMillis int64) error {
	query := `UPDATE assets
		SET last_latitude = ?, last_longitude = ?, last_reported_at = ?, updated_at = datetime('now')
		WHERE id = ?`
	if _, err := r.db.Exec(query, pos.Latitude, pos.Longitude, reportedAtMillis, id); err != nil {
		return fmt.Errorf("failed to update asset position: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAsset(row rowScanner) (models.TrackedAsset, error) {
	var a models.TrackedAsset
	var lat, lng sql.NullFloat64
	var reported sql.NullInt64

	err := row.Scan(&a.ID, &a.Name, &a.Type, &a.Status, &a.DisplayColor, &lat, &lng, &reported)
	if err == sql.ErrNoRows {
		return a, err
	}
	if err != nil {
		return a, fmt.Errorf("failed to scan asset: %w", err)
	}

	if lat.Valid && lng.Valid {
		a.CurrentPosition = &models.GeoPoint{Latitude: lat.Float64, Longitude: lng.Float64}
	}
	if reported.Valid {
		a.LastReportedAt = &reported.Int64
	}
	return a, nil
}
