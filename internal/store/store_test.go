package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"holical/internal/model"
)

func d(y int, m time.Month, day int) model.Date {
	return model.NewDate(y, m, day)
}

func datePtr(v model.Date) *model.Date { return &v }

func backends(t *testing.T) map[string]EventStore {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return map[string]EventStore{
		"memory": NewMemory(),
		"sqlite": db,
	}
}

func TestCRUD(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			created, err := s.Create(ctx, model.Event{
				Title:     "  Team lunch ",
				StartDate: d(2025, 3, 14),
				StartTime: "12:30",
				EndTime:   "13:30",
			})
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if created.ID == "" || created.Title != "Team lunch" || created.Category != DefaultCategory {
				t.Fatalf("unexpected created event %+v", created)
			}

			got, err := s.Get(ctx, created.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.StartDate != d(2025, 3, 14) || got.StartTime != "12:30" || got.EndDate != nil {
				t.Errorf("round trip mismatch: %+v", got)
			}

			got.Title = "Team dinner"
			got.RRule = "freq=weekly;byday=fr"
			got.EndDate = datePtr(d(2025, 3, 14))
			updated, err := s.Update(ctx, got)
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if updated.RRule != "FREQ=WEEKLY;BYDAY=FR" {
				t.Errorf("expected canonical rule, got %q", updated.RRule)
			}
			got, _ = s.Get(ctx, created.ID)
			if got.Title != "Team dinner" || got.EndDate == nil || *got.EndDate != d(2025, 3, 14) {
				t.Errorf("update not persisted: %+v", got)
			}

			list, err := s.List(ctx)
			if err != nil || len(list) != 1 {
				t.Fatalf("List: %v %v", list, err)
			}

			if err := s.Delete(ctx, created.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound after delete, got %v", err)
			}
			if err := s.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound on second delete, got %v", err)
			}
			if _, err := s.Update(ctx, got); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound on update of deleted event, got %v", err)
			}
		})
	}
}

func TestValidation(t *testing.T) {
	ctx := context.Background()
	bad := map[string]model.Event{
		"no title":     {StartDate: d(2025, 1, 1)},
		"no start":     {Title: "x"},
		"end before":   {Title: "x", StartDate: d(2025, 1, 2), EndDate: datePtr(d(2025, 1, 1))},
		"bad time":     {Title: "x", StartDate: d(2025, 1, 1), StartTime: "25:00"},
		"bad rule":     {Title: "x", StartDate: d(2025, 1, 1), RRule: "FREQ=HOURLY"},
		"missing freq": {Title: "x", StartDate: d(2025, 1, 1), RRule: "COUNT=3"},
	}
	for name, s := range backends(t) {
		for caseName, ev := range bad {
			t.Run(name+"/"+caseName, func(t *testing.T) {
				if _, err := s.Create(ctx, ev); !errors.Is(err, ErrInvalidEvent) {
					t.Errorf("expected ErrInvalidEvent, got %v", err)
				}
			})
		}
	}
}

func TestAllDayDropsTimes(t *testing.T) {
	ev, err := Normalize(model.Event{Title: "Holiday trip", StartDate: d(2025, 8, 1), IsAllDay: true, StartTime: "bogus"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if ev.StartTime != "" || ev.EndTime != "" {
		t.Errorf("expected times cleared for all-day event, got %+v", ev)
	}
}

func TestEventsForRange(t *testing.T) {
	ctx := context.Background()
	seed := []model.Event{
		{ID: "before", Title: "Before", StartDate: d(2025, 1, 20)},
		{ID: "spanning", Title: "Conference", StartDate: d(2025, 1, 30), EndDate: datePtr(d(2025, 2, 2))},
		{ID: "inside", Title: "Inside", StartDate: d(2025, 2, 10)},
		{ID: "same-a", Title: "Alpha", StartDate: d(2025, 2, 10)},
		{ID: "edge", Title: "Edge", StartDate: d(2025, 2, 28)},
		{ID: "after", Title: "After", StartDate: d(2025, 3, 1)},
		{ID: "weekly", Title: "Standup", StartDate: d(2024, 6, 3), RRule: "FREQ=WEEKLY;BYDAY=MO"},
		{ID: "future-rule", Title: "Later series", StartDate: d(2025, 4, 1), RRule: "FREQ=DAILY"},
	}
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, ev := range seed {
				if _, err := s.Create(ctx, ev); err != nil {
					t.Fatalf("Create %s: %v", ev.ID, err)
				}
			}
			got, err := s.EventsForRange(ctx, d(2025, 2, 1), d(2025, 2, 28))
			if err != nil {
				t.Fatalf("EventsForRange: %v", err)
			}
			want := []string{"weekly", "spanning", "same-a", "inside", "edge"}
			if len(got) != len(want) {
				t.Fatalf("expected %v, got %d events: %+v", want, len(got), got)
			}
			for i, id := range want {
				if got[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
				}
			}

			// Deleting one of two events on the same day keeps the other indexed.
			if err := s.Delete(ctx, "same-a"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			got, _ = s.EventsForRange(ctx, d(2025, 2, 10), d(2025, 2, 10))
			if len(got) != 2 || got[0].ID != "weekly" || got[1].ID != "inside" {
				t.Errorf("unexpected events after delete: %+v", got)
			}

			got, _ = s.EventsForRange(ctx, d(2025, 2, 28), d(2025, 2, 1))
			if got == nil || len(got) != 0 {
				t.Errorf("expected empty non-nil slice for inverted range, got %v", got)
			}
		})
	}
}

func TestMemoryUpdateMovesIndex(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	ev, err := m.Create(ctx, model.Event{Title: "Move me", StartDate: d(2025, 5, 5)})
	if err != nil {
		t.Fatal(err)
	}
	ev.StartDate = d(2025, 6, 6)
	if _, err := m.Update(ctx, ev); err != nil {
		t.Fatal(err)
	}
	if got, _ := m.EventsForRange(ctx, d(2025, 5, 1), d(2025, 5, 31)); len(got) != 0 {
		t.Errorf("event still found at old date: %+v", got)
	}
	if got, _ := m.EventsForRange(ctx, d(2025, 6, 6), d(2025, 6, 6)); len(got) != 1 {
		t.Errorf("event not found at new date: %+v", got)
	}
	if _, err := m.Create(ctx, ev); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("expected duplicate id rejection, got %v", err)
	}
}

func TestSourcePersists(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			created, err := s.Create(ctx, model.Event{ID: "feed-1", Title: "Imported", StartDate: d(2025, 5, 1), Source: "work"})
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			got, err := s.Get(ctx, created.ID)
			if err != nil || got.Source != "work" {
				t.Fatalf("expected source to persist, got %+v %v", got, err)
			}
			got.Source = "home"
			if _, err := s.Update(ctx, got); err != nil {
				t.Fatalf("Update: %v", err)
			}
			if got, _ = s.Get(ctx, created.ID); got.Source != "home" {
				t.Errorf("expected updated source, got %q", got.Source)
			}
		})
	}
}

func TestSQLiteAddsSourceColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	old, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = old.Exec(`CREATE TABLE events (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		start_date TEXT NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		end_date TEXT,
		end_time TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT 'general',
		is_all_day INTEGER NOT NULL DEFAULT 0,
		rrule TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	INSERT INTO events (id, title, start_date, created_at, updated_at)
	VALUES ('legacy', 'Legacy', '2024-12-24', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z');`)
	old.Close()
	if err != nil {
		t.Fatalf("seed old schema: %v", err)
	}

	for i := 0; i < 2; i++ {
		db, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		got, err := db.Get(context.Background(), "legacy")
		db.Close()
		if err != nil || got.Title != "Legacy" || got.Source != "" {
			t.Fatalf("open %d: unexpected legacy row %+v %v", i, got, err)
		}
	}
}
