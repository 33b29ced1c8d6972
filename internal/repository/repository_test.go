package repository

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/tracking-backend-go/internal/database"
	"github.com/fleetops/tracking-backend-go/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func insertAsset(t *testing.T, db *sql.DB, id, name, assetType, status string) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO assets (id, name, type, status, display_color) VALUES (?, ?, ?, ?, ?)",
		id, name, assetType, status, "#1f77b4",
	)
	require.NoError(t, err)
}

func TestGeofenceRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewGeofenceRepository(db)

	circle := models.Geofence{
		ID:               "GF-001",
		Name:             "North Yard",
		Shape:            models.ShapeCircular,
		Kind:             models.KindAuthorized,
		Center:           &models.GeoPoint{Latitude: 37.7549, Longitude: -122.4394},
		RadiusFeet:       125,
		ExpectedAssetIDs: []string{"AST-0002", "AST-0001"},
	}
	require.NoError(t, repo.CreateGeofence(circle))

	polygon := models.Geofence{
		ID:    "GF-002",
		Name:  "Staging Area",
		Shape: models.ShapePolygonal,
		Kind:  models.KindRestricted,
		Vertices: []models.GeoPoint{
			{Latitude: 37.75, Longitude: -122.44},
			{Latitude: 37.76, Longitude: -122.44},
			{Latitude: 37.76, Longitude: -122.43},
		},
	}
	require.NoError(t, repo.CreateGeofence(polygon))

	got, err := repo.GetGeofenceByID("GF-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	// Expected ids must survive in their stored order; compliance reporting
	// depends on it.
	assert.Empty(t, cmp.Diff(circle, *got))

	got, err = repo.GetGeofenceByID("GF-002")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, cmp.Diff(polygon.Vertices, got.Vertices))
	assert.Nil(t, got.Center)
}

func TestGeofenceFiltering(t *testing.T) {
	db := newTestDB(t)
	repo := NewGeofenceRepository(db)

	fences := []models.Geofence{
		{ID: "GF-001", Name: "a", Shape: models.ShapeCircular, Kind: models.KindAuthorized,
			Center: &models.GeoPoint{Latitude: 1, Longitude: 1}, RadiusFeet: 10},
		{ID: "GF-002", Name: "b", Shape: models.ShapeCircular, Kind: models.KindRestricted,
			Center: &models.GeoPoint{Latitude: 2, Longitude: 2}, RadiusFeet: 20},
		{ID: "GF-003", Name: "c", Shape: models.ShapePolygonal, Kind: models.KindAuthorized,
			Vertices: []models.GeoPoint{{Latitude: 0, Longitude: 0}, {Latitude: 1, Longitude: 0}, {Latitude: 0, Longitude: 1}}},
	}
	for _, f := range fences {
		require.NoError(t, repo.CreateGeofence(f))
	}

	all, err := repo.GetGeofences(models.GeofenceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	restricted, err := repo.GetGeofences(models.GeofenceFilter{Kind: models.KindRestricted})
	require.NoError(t, err)
	require.Len(t, restricted, 1)
	assert.Equal(t, "GF-002", restricted[0].ID)

	authCircles, err := repo.GetGeofences(models.GeofenceFilter{
		Kind:  models.KindAuthorized,
		Shape: models.ShapeCircular,
	})
	require.NoError(t, err)
	require.Len(t, authCircles, 1)
	assert.Equal(t, "GF-001", authCircles[0].ID)
}

func TestCreateGeofenceRejectsInvalidGeometry(t *testing.T) {
	db := newTestDB(t)
	repo := NewGeofenceRepository(db)

	tests := []struct {
		name  string
		fence models.Geofence
	}{
		{"circle without center", models.Geofence{ID: "x", Shape: models.ShapeCircular, RadiusFeet: 10}},
		{"circle with zero radius", models.Geofence{ID: "x", Shape: models.ShapeCircular,
			Center: &models.GeoPoint{Latitude: 1, Longitude: 1}}},
		{"polygon with two vertices", models.Geofence{ID: "x", Shape: models.ShapePolygonal,
			Vertices: []models.GeoPoint{{Latitude: 0, Longitude: 0}, {Latitude: 1, Longitude: 1}}}},
		{"unknown shape", models.Geofence{ID: "x", Shape: "blob"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, repo.CreateGeofence(tt.fence))
		})
	}
}

func TestGetGeofenceByIDMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewGeofenceRepository(db)

	got, err := repo.GetGeofenceByID("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetLocationHistories(t *testing.T) {
	db := newTestDB(t)
	insertAsset(t, db, "AST-0001", "Excavator 1", "excavator", "active")
	insertAsset(t, db, "AST-0002", "Loader 1", "loader", "active")
	insertAsset(t, db, "AST-0003", "Crane 1", "crane", "idle")

	repo := NewHistoryRepository(db)
	speed := 12.5
	require.NoError(t, repo.InsertTrackingPoints("AST-0001", []models.TrackingPoint{
		{TimestampMillis: 3_000, Position: models.GeoPoint{Latitude: 37.76, Longitude: -122.44}, Event: "moving"},
		{TimestampMillis: 1_000, Position: models.GeoPoint{Latitude: 37.75, Longitude: -122.44}, Event: "moving", Speed: &speed},
		{TimestampMillis: 2_000, Position: models.GeoPoint{Latitude: 37.755, Longitude: -122.44}, Event: "stopped"},
	}))
	require.NoError(t, repo.InsertTrackingPoints("AST-0002", []models.TrackingPoint{
		{TimestampMillis: 5_000, Position: models.GeoPoint{Latitude: 37.70, Longitude: -122.40}, Event: "moving"},
	}))

	t.Run("chronological order and caller-supplied asset order", func(t *testing.T) {
		// AST-0002 requested first must come back first even though insert
		// order and id order disagree. AST-0003 has no points and is omitted.
		histories, err := repo.GetLocationHistories([]string{"AST-0002", "AST-0001", "AST-0003"}, 0, 0)
		require.NoError(t, err)
		require.Len(t, histories, 2)

		assert.Equal(t, "AST-0002", histories[0].AssetID)
		assert.Equal(t, "AST-0001", histories[1].AssetID)
		assert.Equal(t, "Excavator 1", histories[1].AssetName)
		assert.Equal(t, "excavator", histories[1].AssetType)

		var timestamps []int64
		for _, p := range histories[1].TrackingPoints {
			timestamps = append(timestamps, p.TimestampMillis)
		}
		assert.Equal(t, []int64{1_000, 2_000, 3_000}, timestamps)
		require.NotNil(t, histories[1].TrackingPoints[0].Speed)
		assert.Equal(t, 12.5, *histories[1].TrackingPoints[0].Speed)
		assert.Nil(t, histories[1].TrackingPoints[1].Speed)
	})

	t.Run("time window", func(t *testing.T) {
		histories, err := repo.GetLocationHistories([]string{"AST-0001", "AST-0002"}, 2_000, 3_000)
		require.NoError(t, err)
		require.Len(t, histories, 1)
		assert.Equal(t, "AST-0001", histories[0].AssetID)
		assert.Len(t, histories[0].TrackingPoints, 2)
	})

	t.Run("no asset ids", func(t *testing.T) {
		histories, err := repo.GetLocationHistories(nil, 0, 0)
		require.NoError(t, err)
		assert.Nil(t, histories)
	})
}

func TestAssetQueries(t *testing.T) {
	db := newTestDB(t)
	insertAsset(t, db, "AST-0001", "Excavator 1", "excavator", "active")
	insertAsset(t, db, "AST-0002", "Loader 1", "loader", "active")
	insertAsset(t, db, "AST-0003", "Crane 1", "crane", "maintenance")

	repo := NewAssetRepository(db)

	t.Run("filter by status", func(t *testing.T) {
		active, err := repo.GetAssets(models.AssetFilter{Status: "active"})
		require.NoError(t, err)
		assert.Len(t, active, 2)
	})

	t.Run("filter by type", func(t *testing.T) {
		cranes, err := repo.GetAssets(models.AssetFilter{Type: "crane"})
		require.NoError(t, err)
		require.Len(t, cranes, 1)
		assert.Equal(t, "AST-0003", cranes[0].ID)
	})

	t.Run("missing asset is nil without error", func(t *testing.T) {
		got, err := repo.GetAssetByID("nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("map by id skips unknown ids", func(t *testing.T) {
		byID, err := repo.GetAssetsByID([]string{"AST-0001", "ghost", "AST-0003"})
		require.NoError(t, err)
		assert.Len(t, byID, 2)
		assert.Contains(t, byID, "AST-0001")
		assert.Contains(t, byID, "AST-0003")
		assert.NotContains(t, byID, "ghost")
	})

	t.Run("update position", func(t *testing.T) {
		pos := models.GeoPoint{Latitude: 37.7549, Longitude: -122.4394}
		require.NoError(t, repo.UpdatePosition("AST-0001", pos, 1_700_000_000_000))

		got, err := repo.GetAssetByID("AST-0001")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.NotNil(t, got.CurrentPosition)
		assert.Equal(t, pos, *got.CurrentPosition)
		require.NotNil(t, got.LastReportedAt)
		assert.Equal(t, int64(1_700_000_000_000), *got.LastReportedAt)
	})
}
