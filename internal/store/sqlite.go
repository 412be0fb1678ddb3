package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"holical/internal/model"
)

const eventColumns = `id, title, start_date, start_time, end_date, end_time,
	description, category, is_all_day, rrule, source`

// SQLite stores events in a single SQLite table. Dates are kept as
// YYYY-MM-DD text so range predicates compare lexically.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the database at path. Use ":memory:"
// for a throwaway database.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
		dsn = path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
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
		source TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_start_date ON events(start_date);
	CREATE INDEX IF NOT EXISTS idx_events_rrule ON events(rrule) WHERE rrule <> '';
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return s.addColumn("source", `TEXT NOT NULL DEFAULT ''`)
}

// addColumn adds a column to databases created before it existed.
func (s *SQLite) addColumn(name, decl string) error {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('events') WHERE name = ?`, name).Scan(&n)
	if err != nil || n > 0 {
		return err
	}
	_, err = s.db.Exec(`ALTER TABLE events ADD COLUMN ` + name + ` ` + decl)
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func nullDate(d *model.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (model.Event, error) {
	var (
		ev        model.Event
		startDate string
		endDate   sql.NullString
	)
	if err := row.Scan(&ev.ID, &ev.Title, &startDate, &ev.StartTime, &endDate, &ev.EndTime,
		&ev.Description, &ev.Category, &ev.IsAllDay, &ev.RRule, &ev.Source); err != nil {
		return model.Event{}, err
	}
	d, err := model.ParseDate(startDate)
	if err != nil {
		return model.Event{}, fmt.Errorf("event %s: %w", ev.ID, err)
	}
	ev.StartDate = d
	if endDate.Valid && endDate.String != "" {
		e, err := model.ParseDate(endDate.String)
		if err != nil {
			return model.Event{}, fmt.Errorf("event %s: %w", ev.ID, err)
		}
		ev.EndDate = &e
	}
	return ev, nil
}

func (s *SQLite) Create(ctx context.Context, ev model.Event) (model.Event, error) {
	ev, err := Normalize(ev)
	if err != nil {
		return model.Event{}, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Title, ev.StartDate.String(), ev.StartTime, nullDate(ev.EndDate), ev.EndTime,
		ev.Description, ev.Category, ev.IsAllDay, ev.RRule, ev.Source, now, now,
	)
	if err != nil {
		return model.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return ev, nil
}

func (s *SQLite) Get(ctx context.Context, id string) (model.Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	ev, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return model.Event{}, fmt.Errorf("get event: %w", err)
	}
	return ev, nil
}

func (s *SQLite) Update(ctx context.Context, ev model.Event) (model.Event, error) {
	if ev.ID == "" {
		return model.Event{}, fmt.Errorf("%w: id is required", ErrInvalidEvent)
	}
	ev, err := Normalize(ev)
	if err != nil {
		return model.Event{}, err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE events SET title = ?, start_date = ?, start_time = ?, end_date = ?, end_time = ?,
			description = ?, category = ?, is_all_day = ?, rrule = ?, source = ?, updated_at = ?
		WHERE id = ?`,
		ev.Title, ev.StartDate.String(), ev.StartTime, nullDate(ev.EndDate), ev.EndTime,
		ev.Description, ev.Category, ev.IsAllDay, ev.RRule, ev.Source, time.Now().UTC().Format(time.RFC3339),
		ev.ID,
	)
	if err != nil {
		return model.Event{}, fmt.Errorf("update event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Event{}, fmt.Errorf("%w: %s", ErrNotFound, ev.ID)
	}
	return ev, nil
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *SQLite) List(ctx context.Context) ([]model.Event, error) {
	return s.query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY start_date, title, id`)
}

func (s *SQLite) EventsForRange(ctx context.Context, start, end model.Date) ([]model.Event, error) {
	if end.Before(start) {
		return []model.Event{}, nil
	}
	return s.query(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE start_date <= ?
		  AND (rrule <> '' OR COALESCE(end_date, start_date) >= ?)
		ORDER BY start_date, title, id`,
		end.String(), start.String(),
	)
}

func (s *SQLite) query(ctx context.Context, q string, args ...any) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
