package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shiftsense/shiftsense/internal/cli"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			slog.Info(cli.FormatSuccess("Database schema is up to date"))
			return nil
		},
	}
}
