package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type seedAsset struct {
	id, name, typ, color string
	lat, lng             float64
}

type seedFence struct {
	id, name, shape, kind string
	centerLat, centerLng  float64
	radiusFeet            float64
	vertices              [][2]float64 // lat, lng
	expected              []string
}

// SeedDemoData populates an empty database with a small demo fleet: assets
// with last-known positions, the standard worksite geofences, and 48 hours
// of tracking points per asset. Idempotent: a non-empty assets table leaves
// everything untouched.
func SeedDemoData(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM assets").Scan(&count); err != nil {
		return fmt.Errorf("failed to check assets: %w", err)
	}
	if count > 0 {
		return nil
	}

	assets := []seedAsset{
		{"AST-0001", "Excavator 12", "excavator", "#e6550d", 37.75495, -122.43945},
		{"AST-0002", "Loader 3", "loader", "#3182bd", 37.75490, -122.43930},
		{"AST-0003", "Generator 7", "generator", "#31a354", 37.74500, -122.45000},
		{"AST-0004", "Compressor 2", "compressor", "#756bb1", 37.75620, -122.44110},
	}

	fences := []seedFence{
		{
			id: "GEO-004", name: "Equipment Staging", shape: "circular", kind: "authorized",
			centerLat: 37.7549, centerLng: -122.4394, radiusFeet: 125,
			expected: []string{"AST-0001", "AST-0002", "AST-0003"},
		},
		{
			id: "GEO-001", name: "Mission Yard Boundary", shape: "polygonal", kind: "authorized",
			vertices: [][2]float64{
				{37.7530, -122.4420},
				{37.7570, -122.4420},
				{37.7570, -122.4370},
				{37.7530, -122.4370},
			},
			expected: []string{"AST-0001", "AST-0002", "AST-0004"},
		},
		{
			id: "GEO-002", name: "Fuel Depot Exclusion", shape: "circular", kind: "restricted",
			centerLat: 37.7560, centerLng: -122.4410, radiusFeet: 60,
		},
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}

	now := time.Now().UnixMilli()
	for _, a := range assets {
		_, err := tx.Exec(`
			INSERT INTO assets (id, name, type, status, display_color, last_latitude, last_longitude, last_reported_at)
			VALUES (?, ?, ?, 'active', ?, ?, ?, ?)`,
			a.id, a.name, a.typ, a.color, a.lat, a.lng, now,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to seed asset %s: %w", a.id, err)
		}
	}

	for _, f := range fences {
		verts, _ := json.Marshal(pointsJSON(f.vertices))
		expected, _ := json.Marshal(orEmpty(f.expected))
		var centerLat, centerLng interface{}
		if f.shape == "circular" {
			centerLat, centerLng = f.centerLat, f.centerLng
		}
		_, err := tx.Exec(`
			INSERT INTO geofences (id, name, shape, kind, center_latitude, center_longitude, radius_feet, vertices, expected_asset_ids)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.id, f.name, f.shape, f.kind, centerLat, centerLng, f.radiusFeet, string(verts), string(expected),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to seed geofence %s: %w", f.id, err)
		}
	}

	// 48 hours of samples per asset, one every 10 minutes, drifting in a
	// small deterministic loop around the last-known position.
	start := now - 48*int64(time.Hour/time.Millisecond)
	for ai, a := range assets {
		for i := 0; i < 48*6; i++ {
			ts := start + int64(i)*10*int64(time.Minute/time.Millisecond)
			phase := float64(i)/20 + float64(ai)
			lat := a.lat + 0.0004*sawtooth(phase)
			lng := a.lng + 0.0004*sawtooth(phase+0.5)
			event := "moving"
			if i%18 == 0 {
				event = "arrival"
			} else if i%18 == 9 {
				event = "departure"
			}
			speed := 4.0 + 2.0*sawtooth(phase)
			battery := 100 - float64(i)*0.2
			_, err := tx.Exec(`
				INSERT INTO tracking_points (asset_id, timestamp_millis, latitude, longitude, event, speed, battery_percent)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				a.id, ts, lat, lng, event, speed, battery,
			)
			if err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to seed tracking points for %s: %w", a.id, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	log.Printf("Seeded demo data: %d assets, %d geofences", len(assets), len(fences))
	return nil
}

// sawtooth maps a phase onto [-1, 1] without pulling in math/rand, keeping
// the seed deterministic.
func sawtooth(phase float64) float64 {
	frac := phase - float64(int64(phase))
	return 2*frac - 1
}

type pointJSON struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func pointsJSON(pairs [][2]float64) []pointJSON {
	pts := make([]pointJSON, 0, len(pairs))
	for _, p := range pairs {
		pts = append(pts, pointJSON{Latitude: p[0], Longitude: p[1]})
	}
	return pts
}

func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
