package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"

	"github.com/olegiv/inkwell/internal/model"
	"github.com/olegiv/inkwell/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "inkwell-logging-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T, db *sql.DB) *slog.Logger {
	t.Helper()
	inner := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewEventLogHandler(inner, db))
}

func TestWarnCreatesEvent(t *testing.T) {
	db := testDB(t)
	log := newTestLogger(t, db)

	log.Warn("autosave failed", "error", "backend down")

	events, err := store.New(db).ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}

	e := events[0]
	if e.Level != model.EventLevelWarning {
		t.Errorf("Level = %q, want warning", e.Level)
	}
	if e.Category != model.EventCategoryPost {
		t.Errorf("Category = %q, want post", e.Category)
	}
	if e.Message != "autosave failed" {
		t.Errorf("Message = %q", e.Message)
	}
}

func TestInfoSkipsEventLog(t *testing.T) {
	db := testDB(t)
	log := newTestLogger(t, db)

	log.Info("server listening", "addr", "localhost:8080")

	events, err := store.New(db).ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("len(events) = %d, want 0", len(events))
	}
}

func TestExplicitCategoryWins(t *testing.T) {
	db := testDB(t)
	log := newTestLogger(t, db)

	log.Error("something about posts", "category", model.EventCategoryAuth)

	events, err := store.New(db).ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Category != model.EventCategoryAuth {
		t.Errorf("Category = %q, want auth", events[0].Category)
	}
	if events[0].Level != model.EventLevelError {
		t.Errorf("Level = %q, want error", events[0].Level)
	}
}
