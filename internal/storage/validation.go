package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shiftsense/shiftsense/internal/model"
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context must not be nil")
	}
	return ctx.Err()
}

func validateString(value, name string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s must not be empty", name)
	}
	return nil
}

func validateEvents(events []model.RawEvent) error {
	for i, e := range events {
		if e.EmployeeID == "" {
			return fmt.Errorf("event %d: missing employee id", i)
		}
		if e.Timestamp.IsZero() {
			return fmt.Errorf("event %d: missing timestamp", i)
		}
		if e.Source == "" {
			return fmt.Errorf("event %d: missing source", i)
		}
	}
	return nil
}

func validateDate(day time.Time) error {
	if day.IsZero() {
		return fmt.Errorf("date must not be zero")
	}
	return nil
}

// dateKey is the canonical per-day key used in claims and result tables.
func dateKey(day time.Time) string {
	return day.Format("2006-01-02")
}
