package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shiftsense/shiftsense/internal/cli"
	"github.com/shiftsense/shiftsense/internal/pipeline"
	"github.com/shiftsense/shiftsense/internal/segment"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <employee-id> <date>",
		Short: "Analyze one worker-day",
		Long: `Analyze a single (employee, date) unit: resolve locations, classify
events, build the activity timeline and reconcile it against the worker's
attendance claim. The result is printed and, unless --no-save is given,
persisted for the serve API.`,
		Args: cobra.ExactArgs(2),
		RunE: runAnalyze,
	}

	cmd.Flags().Bool("no-save", false, "Print the result without persisting it")
	_ = viper.BindPFlag("analyze.no_save", cmd.Flags().Lookup("no-save"))

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	employeeID := args[0]
	day, err := parseDay(args[1])
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

	// Fetch events over the union of the standard and night windows so
	// night schedules get their previous-evening swipes. The analyzer
	// re-filters to the claim's actual window.
	cfg := segment.DefaultConfig()
	dayWindow := segment.DayWindow(day, false, cfg)
	nightWindow := segment.DayWindow(day, true, cfg)
	events, err := store.GetEventsBetween(ctx, employeeID, nightWindow.Start, dayWindow.End)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}

	claim, err := store.GetClaim(ctx, employeeID, day)
	if err != nil {
		return fmt.Errorf("failed to load claim: %w", err)
	}

	analyzer := pipeline.NewAnalyzer(resolver)
	result, err := analyzer.Analyze(pipeline.Unit{
		Day:        day,
		EmployeeID: employeeID,
		Events:     events,
		Claim:      claim,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Fprintln(os.Stdout, cli.RenderTimeline(result.Segments))
	fmt.Fprintln(os.Stdout, cli.RenderSummary(result.Summary))

	if viper.GetBool("analyze.no_save") {
		return nil
	}

	if err := store.SaveResult(ctx, "", result.Summary, result.Segments); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	slog.Info(cli.FormatSuccess("Result saved"),
		"employee", employeeID, "date", day.Format("2006-01-02"))
	return nil
}
