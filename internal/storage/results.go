package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shiftsense/shiftsense/internal/common"
	"github.com/shiftsense/shiftsense/internal/model"
)

// SaveResult persists a worker-day summary and its segments, replacing any
// earlier run for the same (employee, day). Results are derived artifacts;
// the latest run wins.
func (s *SQLiteStorage) SaveResult(ctx context.Context, runID string, summary model.WorkTimeSummary, segments []model.ActivitySegment) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if summary.EmployeeID == "" {
		return common.ErrMissingEmployee
	}
	if err := validateDate(summary.Date); err != nil {
		return err
	}

	perActivity, err := json.Marshal(summary.PerActivityMinutes)
	if err != nil {
		return fmt.Errorf("failed to marshal per-activity minutes: %w", err)
	}
	perCode, err := json.Marshal(summary.PerCodeMinutes)
	if err != nil {
		return fmt.Errorf("failed to marshal per-code minutes: %w", err)
	}
	eventCounts, err := json.Marshal(summary.EventCounts)
	if err != nil {
		return fmt.Errorf("failed to marshal event counts: %w", err)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		day := dateKey(summary.Date)

		_, err := tx.ExecContext(ctx, `
			INSERT INTO work_summaries (
				employee_id, work_date, run_id, actual_work_hours, claimed_hours,
				efficiency_ratio, confidence_score, per_activity_minutes,
				per_code_minutes, event_counts, unresolved_share, unverified
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(employee_id, work_date) DO UPDATE SET
				run_id = excluded.run_id,
				actual_work_hours = excluded.actual_work_hours,
				claimed_hours = excluded.claimed_hours,
				efficiency_ratio = excluded.efficiency_ratio,
				confidence_score = excluded.confidence_score,
				per_activity_minutes = excluded.per_activity_minutes,
				per_code_minutes = excluded.per_code_minutes,
				event_counts = excluded.event_counts,
				unresolved_share = excluded.unresolved_share,
				unverified = excluded.unverified,
				created_at = CURRENT_TIMESTAMP
		`, summary.EmployeeID, day, runID, summary.ActualWorkHours, summary.ClaimedHours,
			summary.EfficiencyRatio, summary.ConfidenceScore, string(perActivity),
			string(perCode), string(eventCounts), summary.UnresolvedShare,
			boolToInt(summary.Unverified))
		if err != nil {
			return fmt.Errorf("failed to save summary: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			DELETE FROM activity_segments WHERE employee_id = ? AND work_date = ?
		`, summary.EmployeeID, day); err != nil {
			return fmt.Errorf("failed to clear segments: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO activity_segments (
				employee_id, work_date, start_time, end_time, activity,
				location, duration_minutes, confidence, is_takeout
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, seg := range segments {
			if _, err := stmt.ExecContext(ctx,
				summary.EmployeeID, day, seg.StartTime.UTC(), seg.EndTime.UTC(),
				string(seg.Activity), seg.Location, seg.DurationMinutes,
				seg.Confidence, boolToInt(seg.IsTakeout)); err != nil {
				return fmt.Errorf("failed to insert segment: %w", err)
			}
		}
		return nil
	})
}

// GetSummary fetches a stored worker-day summary.
func (s *SQLiteStorage) GetSummary(ctx context.Context, employeeID string, day time.Time) (*model.WorkTimeSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(employeeID, "employeeID"); err != nil {
		return nil, err
	}

	var (
		summary     model.WorkTimeSummary
		workDate    string
		perActivity string
		perCode     string
		eventCounts string
		unverified  int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT employee_id, work_date, actual_work_hours, claimed_hours,
		       efficiency_ratio, confidence_score, per_activity_minutes,
		       per_code_minutes, event_counts, unresolved_share, unverified
		FROM work_summaries WHERE employee_id = ? AND work_date = ?
	`, employeeID, dateKey(day)).Scan(
		&summary.EmployeeID, &workDate, &summary.ActualWorkHours, &summary.ClaimedHours,
		&summary.EfficiencyRatio, &summary.ConfidenceScore, &perActivity,
		&perCode, &eventCounts, &summary.UnresolvedShare, &unverified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query summary: %w", err)
	}

	summary.Date, err = time.Parse("2006-01-02", workDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse work date: %w", err)
	}
	summary.Unverified = unverified != 0

	if err := json.Unmarshal([]byte(perActivity), &summary.PerActivityMinutes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal per-activity minutes: %w", err)
	}
	if err := json.Unmarshal([]byte(perCode), &summary.PerCodeMinutes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal per-code minutes: %w", err)
	}
	if err := json.Unmarshal([]byte(eventCounts), &summary.EventCounts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event counts: %w", err)
	}
	return &summary, nil
}

// GetSegments fetches the stored segments for a worker-day, time ordered.
func (s *SQLiteStorage) GetSegments(ctx context.Context, employeeID string, day time.Time) ([]model.ActivitySegment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(employeeID, "employeeID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT start_time, end_time, activity, location, duration_minutes, confidence, is_takeout
		FROM activity_segments
		WHERE employee_id = ? AND work_date = ?
		ORDER BY start_time
	`, employeeID, dateKey(day))
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var segments []model.ActivitySegment
	for rows.Next() {
		var (
			seg      model.ActivitySegment
			activity string
			takeout  int
		)
		if err := rows.Scan(&seg.StartTime, &seg.EndTime, &activity, &seg.Location,
			&seg.DurationMinutes, &seg.Confidence, &takeout); err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		seg.Activity = model.ActivityCode(activity)
		seg.IsTakeout = takeout != 0
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}
