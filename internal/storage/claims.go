package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shiftsense/shiftsense/internal/common"
	"github.com/shiftsense/shiftsense/internal/model"
)

// UpsertClaims stores or updates attendance claims.
func (s *SQLiteStorage) UpsertClaims(ctx context.Context, claims []model.ClaimRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO claims (employee_id, work_date, claimed_hours, schedule_type, updated_at)
			VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(employee_id, work_date) DO UPDATE SET
				claimed_hours = excluded.claimed_hours,
				schedule_type = excluded.schedule_type,
				updated_at = CURRENT_TIMESTAMP
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, c := range claims {
			if c.EmployeeID == "" {
				return common.ErrMissingEmployee
			}
			if err := validateDate(c.WorkDate); err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx,
				c.EmployeeID, dateKey(c.WorkDate), c.ClaimedHours, string(c.Schedule)); err != nil {
				return fmt.Errorf("failed to upsert claim: %w", err)
			}
		}
		return nil
	})
}

// GetClaim fetches one worker-day claim. Returns nil (no error) when the
// claim is absent; the aggregator substitutes the 8.0h default and flags
// the summary unverified.
func (s *SQLiteStorage) GetClaim(ctx context.Context, employeeID string, day time.Time) (*model.ClaimRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(employeeID, "employeeID"); err != nil {
		return nil, err
	}

	var (
		claim    model.ClaimRecord
		schedule string
		workDate string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT employee_id, work_date, claimed_hours, schedule_type
		FROM claims WHERE employee_id = ? AND work_date = ?
	`, employeeID, dateKey(day)).Scan(&claim.EmployeeID, &workDate, &claim.ClaimedHours, &schedule)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query claim: %w", err)
	}

	claim.WorkDate, err = time.ParseInLocation("2006-01-02", workDate, day.Location())
	if err != nil {
		return nil, fmt.Errorf("failed to parse work date: %w", err)
	}
	claim.Schedule = model.ScheduleType(schedule)
	return &claim, nil
}
