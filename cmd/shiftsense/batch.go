package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shiftsense/shiftsense/internal/batch"
	"github.com/shiftsense/shiftsense/internal/cli"
	"github.com/shiftsense/shiftsense/internal/pipeline"
	"github.com/shiftsense/shiftsense/internal/segment"
	"github.com/shiftsense/shiftsense/internal/storage"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Analyze all workers over a date range",
		Long: `Analyze every (employee, day) unit with stored events in the given date
range, fanning units out across a worker pool. Results are persisted for
the serve API; per-unit failures are reported but do not stop the run.`,
		RunE: runBatch,
	}

	cmd.Flags().StringP("start-date", "s", "", "Start date (format: 2006-01-02)")
	cmd.Flags().StringP("end-date", "e", "", "End date, inclusive (format: 2006-01-02)")
	cmd.Flags().IntP("days", "d", 1, "Number of days ending today (used if start/end dates not specified)")
	cmd.Flags().IntP("workers", "w", 0, "Worker pool size (0 = CPU count minus one)")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	_ = viper.BindPFlag("batch.start_date", cmd.Flags().Lookup("start-date"))
	_ = viper.BindPFlag("batch.end_date", cmd.Flags().Lookup("end-date"))
	_ = viper.BindPFlag("batch.days", cmd.Flags().Lookup("days"))
	_ = viper.BindPFlag("batch.workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("batch.no_progress", cmd.Flags().Lookup("no-progress"))

	return cmd
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	startDate, endDate, err := parseBatchRange()
	if err != nil {
		return err
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	resolver, err := loadResolver(ctx, store)
	if err != nil {
		return err
	}

	units, err := collectUnits(ctx, store, startDate, endDate)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		slog.Info(cli.FormatWarning("No worker-days with events in range"))
		return nil
	}

	slog.Info(cli.FormatTitle("Analyzing worker-days"),
		"units", len(units),
		"start", startDate.Format("2006-01-02"),
		"end", endDate.Format("2006-01-02"))

	runner := batch.NewRunner(pipeline.NewAnalyzer(resolver), viper.GetInt("batch.workers"))
	report, err := runner.Run(ctx, units, !viper.GetBool("batch.no_progress"))
	if err != nil {
		return fmt.Errorf("batch run failed: %w", err)
	}

	saved := 0
	for _, unitResult := range report.Results {
		if unitResult.Err != nil {
			slog.Warn("unit failed",
				"employee", unitResult.Unit.EmployeeID,
				"date", unitResult.Unit.Day.Format("2006-01-02"),
				"error", unitResult.Err)
			continue
		}
		if err := store.SaveResult(ctx, report.RunID, unitResult.Result.Summary, unitResult.Result.Segments); err != nil {
			return fmt.Errorf("failed to save result: %w", err)
		}
		saved++
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Batch complete: %d succeeded, %d failed, %d saved",
		report.Succeeded, report.Failed, saved)), "run_id", report.RunID)
	return nil
}

// collectUnits materializes one unit per (employee, day) with events.
func collectUnits(ctx context.Context, store *storage.SQLiteStorage, startDate, endDate time.Time) ([]pipeline.Unit, error) {
	cfg := segment.DefaultConfig()

	// The fetch range covers night windows reaching back into the
	// previous evening.
	fetchStart := segment.DayWindow(startDate, true, cfg).Start
	fetchEnd := segment.DayWindow(endDate, false, cfg).End

	employees, err := store.ListEmployees(ctx, fetchStart, fetchEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	var units []pipeline.Unit
	for _, employeeID := range employees {
		for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
			unitStart := segment.DayWindow(day, true, cfg).Start
			unitEnd := segment.DayWindow(day, false, cfg).End
			events, err := store.GetEventsBetween(ctx, employeeID, unitStart, unitEnd)
			if err != nil {
				return nil, fmt.Errorf("failed to load events for %s: %w", employeeID, err)
			}
			if len(events) == 0 {
				continue
			}
			claim, err := store.GetClaim(ctx, employeeID, day)
			if err != nil {
				return nil, fmt.Errorf("failed to load claim for %s: %w", employeeID, err)
			}
			units = append(units, pipeline.Unit{
				Day:        day,
				EmployeeID: employeeID,
				Events:     events,
				Claim:      claim,
			})
		}
	}
	return units, nil
}

func parseBatchRange() (startDate, endDate time.Time, err error) {
	startStr := viper.GetString("batch.start_date")
	endStr := viper.GetString("batch.end_date")

	if startStr != "" && endStr != "" {
		startDate, err = parseDay(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		endDate, err = parseDay(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if endDate.Before(startDate) {
			return time.Time{}, time.Time{}, fmt.Errorf("end date %s precedes start date %s", endStr, startStr)
		}
		return startDate, endDate, nil
	}

	days := viper.GetInt("batch.days")
	if days <= 0 {
		days = 1
	}

	now := time.Now()
	endDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	startDate = endDate.AddDate(0, 0, -(days - 1))
	return startDate, endDate, nil
}
