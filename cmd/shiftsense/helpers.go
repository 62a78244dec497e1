package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/shiftsense/shiftsense/internal/config"
	"github.com/shiftsense/shiftsense/internal/location"
	"github.com/shiftsense/shiftsense/internal/storage"
)

func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// loadResolver builds a location resolver from the stored location master.
func loadResolver(ctx context.Context, store *storage.SQLiteStorage) (*location.Resolver, error) {
	entries, err := store.LoadLocationMaster(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load location master: %w", err)
	}
	return location.NewResolver(location.NewIndex(entries)), nil
}

func parseDay(value string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want 2006-01-02): %w", value, err)
	}
	return day, nil
}
