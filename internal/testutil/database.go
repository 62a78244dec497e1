// Package testutil provides shared helpers for storage-backed tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shiftsense/shiftsense/internal/model"
	"github.com/shiftsense/shiftsense/internal/storage"
)

// TestDB wraps an in-memory migrated database for one test.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database with migrations
// applied and cleanup registered.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return &TestDB{Storage: store, t: t}
}

// SeedLocationMaster loads the given entries, failing the test on error.
func (db *TestDB) SeedLocationMaster(entries []model.LocationMasterEntry) {
	db.t.Helper()
	if err := db.Storage.ReplaceLocationMaster(context.Background(), entries); err != nil {
		db.t.Fatalf("failed to seed location master: %v", err)
	}
}

// SeedEvents saves the given raw events, failing the test on error.
func (db *TestDB) SeedEvents(events []model.RawEvent) {
	db.t.Helper()
	if _, err := db.Storage.SaveRawEvents(context.Background(), events); err != nil {
		db.t.Fatalf("failed to seed events: %v", err)
	}
}

// SeedClaims saves the given claims, failing the test on error.
func (db *TestDB) SeedClaims(claims []model.ClaimRecord) {
	db.t.Helper()
	if err := db.Storage.UpsertClaims(context.Background(), claims); err != nil {
		db.t.Fatalf("failed to seed claims: %v", err)
	}
}

// Day returns a local midnight timestamp for the given date parts.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

// At returns a timestamp on the given day at hour:minute local time.
func At(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}
