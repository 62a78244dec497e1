package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shiftsense/shiftsense/internal/model"
)

// ReplaceLocationMaster wipes and reloads the location master table.
// The master is static reference data loaded once per extract, so a full
// replace matches its lifecycle.
func (s *SQLiteStorage) ReplaceLocationMaster(ctx context.Context, entries []model.LocationMasterEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM location_master`); err != nil {
			return fmt.Errorf("failed to clear location master: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO location_master (
				device_id, direction, display_name, gate_name, zone_code, allowed_activities
			) VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, e := range entries {
			allowed := make([]string, 0, len(e.AllowedActivities))
			for _, a := range e.AllowedActivities {
				allowed = append(allowed, string(a))
			}
			if _, err := stmt.ExecContext(ctx,
				e.DeviceID, string(e.Direction), e.DisplayName, e.GateName,
				string(e.Zone), strings.Join(allowed, "|")); err != nil {
				return fmt.Errorf("failed to insert location %s: %w", e.DeviceID, err)
			}
		}
		return nil
	})
}

// LoadLocationMaster returns all master entries for index construction.
func (s *SQLiteStorage) LoadLocationMaster(ctx context.Context) ([]model.LocationMasterEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT device_id, direction, display_name, gate_name, zone_code, allowed_activities
		FROM location_master
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query location master: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.LocationMasterEntry
	for rows.Next() {
		var (
			e         model.LocationMasterEntry
			direction string
			zone      string
			allowed   string
		)
		if err := rows.Scan(&e.DeviceID, &direction, &e.DisplayName, &e.GateName, &zone, &allowed); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		e.Direction = model.Direction(direction)
		e.Zone = model.ZoneCode(zone)
		if allowed != "" {
			for _, a := range strings.Split(allowed, "|") {
				e.AllowedActivities = append(e.AllowedActivities, model.ActivityCode(a))
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
