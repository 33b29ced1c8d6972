package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/fleetops/tracking-backend-go/internal/models"
)

// HistoryRepository handles database operations for location histories
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// GetLocationHistories builds one AssetLocationHistory per requested asset
// that has at least one tracking point in the window. From/To of zero mean
// unbounded. Points come back in chronological order; assets with no points
// are omitted rather than returned empty.
func (r *HistoryRepository) GetLocationHistories(assetIDs []string, fromMillis, toMillis int64) ([]models.AssetLocationHistory, error) {
	if len(assetIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(assetIDs)), ",")
	args := make([]interface{}, 0, len(assetIDs)+2)
	for _, id := range assetIDs {
		args = append(args, id)
	}

	query := `
		SELECT p.asset_id, a.name, a.type, a.display_color,
		       p.timestamp_millis, p.latitude, p.longitude, p.event, p.speed, p.battery_percent
		FROM tracking_points p
		JOIN assets a ON a.id = p.asset_id
		WHERE p.asset_id IN (` + placeholders + `)`

	if fromMillis > 0 {
		query += " AND p.timestamp_millis >= ?"
		args = append(args, fromMillis)
	}
	if toMillis > 0 {
		query += " AND p.timestamp_millis <= ?"
		args = append(args, toMillis)
	}
	query += " ORDER BY p.asset_id, p.timestamp_millis"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracking points: %w", err)
	}
	defer rows.Close()

	byAsset := make(map[string]*models.AssetLocationHistory)
	for rows.Next() {
		var assetID, assetName, assetType, color string
		var p models.TrackingPoint
		var speed, battery sql.NullFloat64

		err := rows.Scan(&assetID, &assetName, &assetType, &color,
			&p.TimestampMillis, &p.Position.Latitude, &p.Position.Longitude, &p.Event, &speed, &battery)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tracking point: %w", err)
		}
		if speed.Valid {
			p.Speed = &speed.Float64
		}
		if battery.Valid {
			p.BatteryPercent = &battery.Float64
		}

		h, ok := byAsset[assetID]
		if !ok {
			h = &models.AssetLocationHistory{
				AssetID:      assetID,
				AssetName:    assetName,
				AssetType:    assetType,
				DisplayColor: color,
			}
			byAsset[assetID] = h
		}
		h.TrackingPoints = append(h.TrackingPoints, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracking points: %w", err)
	}

	// Preserve the caller's asset order.
	var histories []models.AssetLocationHistory
	for _, id := range assetIDs {
		if h, ok := byAsset[id]; ok {
			histories = append(histories, *h)
		}
	}
	return histories, nil
}

// InsertTrackingPoints appends samples to an asset's trajectory.
func (r *HistoryRepository) InsertTrackingPoints(assetID string, points []models.TrackingPoint) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO tracking_points (asset_id, timestamp_millis, latitude, longitude, event, speed, battery_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		var speed, battery interface{}
		if p.Speed != nil {
			speed = *p.Speed
		}
		if p.BatteryPercent != nil {
			battery = *p.BatteryPercent
		}
		if _, err := stmt.Exec(assetID, p.TimestampMillis, p.Position.Latitude, p.Position.Longitude, p.Event, speed, battery); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert tracking point for %s: %w", assetID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tracking points: %w", err)
	}
	return nil
}
