package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations are applied in version order and tracked in the migrations
// table. Never edit an applied migration; append a new one.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_assets",
		SQL: `
			CREATE TABLE IF NOT EXISTS assets (
				id               TEXT PRIMARY KEY,
				name             TEXT NOT NULL,
				type             TEXT NOT NULL,
				status           TEXT NOT NULL DEFAULT 'active',
				display_color    TEXT NOT NULL DEFAULT '#1f77b4',
				last_latitude    REAL,
				last_longitude   REAL,
				last_reported_at INTEGER,
				created_at       TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at       TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`,
	},
	{
		Version: 2,
		Name:    "create_geofences",
		SQL: `
			CREATE TABLE IF NOT EXISTS geofences (
				id                 TEXT PRIMARY KEY,
				name               TEXT NOT NULL,
				shape              TEXT NOT NULL,
				kind               TEXT NOT NULL DEFAULT 'authorized',
				center_latitude    REAL,
				center_longitude   REAL,
				radius_feet        REAL NOT NULL DEFAULT 0,
				vertices           TEXT NOT NULL DEFAULT '[]',
				expected_asset_ids TEXT NOT NULL DEFAULT '[]',
				created_at         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`,
	},
	{
		Version: 3,
		Name:    "create_tracking_points",
		SQL: `
			CREATE TABLE IF NOT EXISTS tracking_points (
				id               INTEGER PRIMARY KEY AUTOINCREMENT,
				asset_id         TEXT NOT NULL REFERENCES assets(id),
				timestamp_millis INTEGER NOT NULL,
				latitude         REAL NOT NULL,
				longitude        REAL NOT NULL,
				event            TEXT NOT NULL DEFAULT 'moving',
				speed            REAL,
				battery_percent  REAL
			);
			CREATE INDEX IF NOT EXISTS idx_tracking_points_asset_time
				ON tracking_points(asset_id, timestamp_millis)
		`,
	},
}

// Migrate applies all pending migrations to the given database.
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		log.Printf("Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}

func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedVersions(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func applyMigration(db *sql.DB, m Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(m.SQL); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
