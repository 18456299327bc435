package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Migration represents a database migration.
type Migration struct {
	Version int
	Name    string
	Up      string
}

// migrations holds all database migrations in order.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Up: `
			-- Transformers table. object_id is the external ArcGIS key and
			-- the sole upsert matching key; rows are never deleted by sync.
			CREATE TABLE IF NOT EXISTS transformers (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				object_id INTEGER NOT NULL UNIQUE,
				global_id TEXT,
				transformer_id TEXT,
				latitude REAL,
				longitude REAL,
				location TEXT,
				address TEXT,
				type TEXT,
				capacity TEXT,
				manufacturer TEXT,
				physical_condition TEXT,
				oil_leakage INTEGER NOT NULL DEFAULT 0,
				rust_corrosion INTEGER NOT NULL DEFAULT 0,
				external_damage INTEGER NOT NULL DEFAULT 0,
				overheating_signs INTEGER NOT NULL DEFAULT 0,
				bushings_condition TEXT,
				insulators_condition TEXT,
				cooling_fins_present INTEGER NOT NULL DEFAULT 0,
				cooling_fins_state TEXT,
				support_structure_type TEXT,
				support_structure_condition TEXT,
				safety_signage_present INTEGER NOT NULL DEFAULT 0,
				clearance_from_buildings TEXT,
				accessibility_issues INTEGER NOT NULL DEFAULT 0,
				unauthorized_connections INTEGER NOT NULL DEFAULT 0,
				creation_date DATETIME,
				last_update_date DATETIME,
				assessment_date DATETIME
			);

			-- Alerts table
			CREATE TABLE IF NOT EXISTS alerts (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				transformer_id INTEGER NOT NULL,
				type TEXT NOT NULL,
				severity TEXT NOT NULL,
				message TEXT NOT NULL,
				resolved INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL,
				resolved_at DATETIME,
				FOREIGN KEY (transformer_id) REFERENCES transformers(id) ON DELETE CASCADE
			);

			-- API users table
			CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				username TEXT UNIQUE NOT NULL,
				password_hash TEXT NOT NULL,
				role TEXT NOT NULL DEFAULT 'operator',
				created_at DATETIME NOT NULL
			);

			-- Indexes
			CREATE INDEX IF NOT EXISTS idx_transformers_object_id ON transformers(object_id);
			CREATE INDEX IF NOT EXISTS idx_alerts_transformer ON alerts(transformer_id);
			CREATE INDEX IF NOT EXISTS idx_alerts_resolved ON alerts(resolved);
			CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
		`,
	},
}

// runMigrations applies all pending migrations.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("get current version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Name, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Name, time.Now(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}
