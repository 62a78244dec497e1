package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Raw events and location master",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS raw_events (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					hash TEXT UNIQUE NOT NULL,
					employee_id TEXT NOT NULL,
					timestamp DATETIME NOT NULL,
					end_time DATETIME,
					device_id TEXT,
					location TEXT,
					direction TEXT,
					source TEXT NOT NULL,
					payload TEXT,
					meal_kind TEXT,
					takeout INTEGER DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_raw_events_employee_time ON raw_events(employee_id, timestamp)`,
				`CREATE INDEX idx_raw_events_hash ON raw_events(hash)`,

				`CREATE TABLE IF NOT EXISTS location_master (
					device_id TEXT NOT NULL,
					direction TEXT NOT NULL DEFAULT '',
					display_name TEXT,
					gate_name TEXT,
					zone_code TEXT NOT NULL,
					allowed_activities TEXT,
					PRIMARY KEY (device_id, direction)
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Attendance claims",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS claims (
					employee_id TEXT NOT NULL,
					work_date TEXT NOT NULL,
					claimed_hours REAL NOT NULL,
					schedule_type TEXT NOT NULL DEFAULT 'standard',
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (employee_id, work_date)
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Analysis results",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS work_summaries (
					employee_id TEXT NOT NULL,
					work_date TEXT NOT NULL,
					run_id TEXT,
					actual_work_hours REAL NOT NULL,
					claimed_hours REAL NOT NULL,
					efficiency_ratio REAL NOT NULL,
					confidence_score INTEGER NOT NULL,
					per_activity_minutes TEXT,
					per_code_minutes TEXT,
					event_counts TEXT,
					unresolved_share REAL DEFAULT 0,
					unverified INTEGER DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (employee_id, work_date)
				)`,

				`CREATE TABLE IF NOT EXISTS activity_segments (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					employee_id TEXT NOT NULL,
					work_date TEXT NOT NULL,
					start_time DATETIME NOT NULL,
					end_time DATETIME NOT NULL,
					activity TEXT NOT NULL,
					location TEXT,
					duration_minutes REAL NOT NULL,
					confidence INTEGER NOT NULL,
					is_takeout INTEGER DEFAULT 0
				)`,
				`CREATE INDEX idx_segments_employee_date ON activity_segments(employee_id, work_date)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies any pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		slog.Info("Applying migration", "version", m.Version, "description", m.Description)
		err := s.withTx(ctx, func(tx *sql.Tx) error {
			if err := m.Up(tx); err != nil {
				return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
			}
			_, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version))
			return err
		})
		if err != nil {
			return err
		}
	}

	final, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if final != ExpectedSchemaVersion {
		return fmt.Errorf("schema version %d after migration, expected %d", final, ExpectedSchemaVersion)
	}
	return nil
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
