package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shiftsense/shiftsense/internal/model"
)

// SaveRawEvents stores raw events, skipping duplicates by content hash.
// Returns the number of newly inserted rows.
func (s *SQLiteStorage) SaveRawEvents(ctx context.Context, events []model.RawEvent) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateEvents(events); err != nil {
		return 0, err
	}

	inserted := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR IGNORE INTO raw_events (
				hash, employee_id, timestamp, end_time, device_id,
				location, direction, source, payload, meal_kind, takeout
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, e := range events {
			var endTime any
			if e.EndTime != nil {
				endTime = e.EndTime.UTC()
			}
			res, err := stmt.ExecContext(ctx,
				e.GenerateHash(), e.EmployeeID, e.Timestamp.UTC(), endTime,
				e.DeviceID, e.Location, string(e.Direction), string(e.Source),
				e.Payload, string(e.MealKind), boolToInt(e.TakeoutFlag))
			if err != nil {
				return fmt.Errorf("failed to insert event: %w", err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				inserted++
			}
		}
		return nil
	})
	return inserted, err
}

// GetEventsBetween returns one employee's raw events in [start, end), time
// ordered. The caller picks the window; night-shift days span midnight.
func (s *SQLiteStorage) GetEventsBetween(ctx context.Context, employeeID string, start, end time.Time) ([]model.RawEvent, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(employeeID, "employeeID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, timestamp, end_time, device_id, location,
		       direction, source, payload, meal_kind, takeout
		FROM raw_events
		WHERE employee_id = ? AND timestamp >= ? AND timestamp < ?
		ORDER BY timestamp
	`, employeeID, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []model.RawEvent
	for rows.Next() {
		var (
			e         model.RawEvent
			endTime   sql.NullTime
			direction string
			source    string
			mealKind  string
			takeout   int
		)
		if err := rows.Scan(&e.EmployeeID, &e.Timestamp, &endTime, &e.DeviceID,
			&e.Location, &direction, &source, &e.Payload, &mealKind, &takeout); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if endTime.Valid {
			t := endTime.Time
			e.EndTime = &t
		}
		e.Direction = model.Direction(direction)
		e.Source = model.EventSource(source)
		e.MealKind = model.ActivityCode(mealKind)
		e.TakeoutFlag = takeout != 0
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListEmployees returns the distinct employee ids with events in [start, end).
func (s *SQLiteStorage) ListEmployees(ctx context.Context, start, end time.Time) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT employee_id FROM raw_events
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY employee_id
	`, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
