package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shiftsense/shiftsense/internal/cli"
	"github.com/shiftsense/shiftsense/internal/ingest"
)

func locationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "Manage the location master",
	}
	cmd.AddCommand(locationsLoadCmd())
	cmd.AddCommand(locationsListCmd())
	return cmd
}

func locationsLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <file>",
		Short: "Replace the location master from a CSV extract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer file.Close()

			entries, err := ingest.ReadLocationMaster(file)
			if err != nil {
				return fmt.Errorf("failed to parse location master: %w", err)
			}

			if viper.GetBool("locations.dry_run") {
				slog.Info(cli.FormatWarning(fmt.Sprintf("Dry run: parsed %d entries, not saving", len(entries))))
				return nil
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.ReplaceLocationMaster(ctx, entries); err != nil {
				return fmt.Errorf("failed to replace location master: %w", err)
			}

			slog.Info(cli.FormatSuccess(fmt.Sprintf("Loaded %d location master entries", len(entries))))
			return nil
		},
	}
	cmd.Flags().Bool("dry-run", false, "Parse and report without saving")
	_ = viper.BindPFlag("locations.dry_run", cmd.Flags().Lookup("dry-run"))
	return cmd
}

func locationsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List loaded location master entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.LoadLocationMaster(ctx)
			if err != nil {
				return fmt.Errorf("failed to load location master: %w", err)
			}

			if len(entries) == 0 {
				slog.Info(cli.FormatWarning("Location master is empty"))
				return nil
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%-16s %-6s %-4s %s\n", "DEVICE", "ZONE", "DIR", "DISPLAY NAME")
			for _, entry := range entries {
				fmt.Fprintf(&b, "%-16s %-6s %-4s %s\n",
					entry.DeviceID, entry.Zone, entry.Direction, entry.DisplayName)
			}

			fmt.Fprintln(os.Stdout, cli.RenderBox(
				fmt.Sprintf("Location Master (%d entries)", len(entries)),
				strings.TrimRight(b.String(), "\n")))
			return nil
		},
	}
}
