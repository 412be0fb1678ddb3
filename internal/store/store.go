// Package store persists calendar events and answers the range queries the
// calendar assembler runs before expanding recurrences.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"holical/internal/model"
	"holical/internal/recurrence"
)

var (
	ErrNotFound     = errors.New("event not found")
	ErrInvalidEvent = errors.New("invalid event")
)

// DefaultCategory is assigned to events created without one.
const DefaultCategory = "general"

// EventStore is the persistence contract shared by the SQLite and memory
// implementations.
type EventStore interface {
	Create(ctx context.Context, ev model.Event) (model.Event, error)
	Get(ctx context.Context, id string) (model.Event, error)
	Update(ctx context.Context, ev model.Event) (model.Event, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.Event, error)

	// EventsForRange returns one-off events overlapping [start, end] and
	// every recurring event anchored on or before end.
	EventsForRange(ctx context.Context, start, end model.Date) ([]model.Event, error)

	Close() error
}

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Normalize fills defaults and validates ev. It assigns a new ID when ev
// has none.
func Normalize(ev model.Event) (model.Event, error) {
	ev.Title = strings.TrimSpace(ev.Title)
	ev.Category = strings.TrimSpace(ev.Category)
	ev.RRule = strings.TrimSpace(ev.RRule)
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Category == "" {
		ev.Category = DefaultCategory
	}

	if ev.Title == "" {
		return ev, fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	if ev.StartDate.IsZero() {
		return ev, fmt.Errorf("%w: start_date is required", ErrInvalidEvent)
	}
	if ev.EndDate != nil && ev.EndDate.Before(ev.StartDate) {
		return ev, fmt.Errorf("%w: end_date %s before start_date %s", ErrInvalidEvent, ev.EndDate, ev.StartDate)
	}
	if ev.IsAllDay {
		ev.StartTime, ev.EndTime = "", ""
	}
	for _, t := range []string{ev.StartTime, ev.EndTime} {
		if t != "" && !clockPattern.MatchString(t) {
			return ev, fmt.Errorf("%w: time %q is not HH:MM", ErrInvalidEvent, t)
		}
	}
	if ev.RRule != "" {
		r, err := recurrence.Parse(ev.RRule)
		if err != nil {
			return ev, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
		}
		ev.RRule = r.String()
	}
	return ev, nil
}

// lastDay is the final day an event occupies.
func lastDay(ev model.Event) model.Date {
	if ev.EndDate != nil {
		return *ev.EndDate
	}
	return ev.StartDate
}

// inRange is the EventsForRange predicate.
func inRange(ev model.Event, start, end model.Date) bool {
	if ev.StartDate.After(end) {
		return false
	}
	if ev.IsRecurring() {
		return true
	}
	return !lastDay(ev).Before(start)
}

func sortEvents(evs []model.Event) {
	sort.SliceStable(evs, func(i, j int) bool {
		if evs[i].StartDate != evs[j].StartDate {
			return evs[i].StartDate.Before(evs[j].StartDate)
		}
		if evs[i].Title != evs[j].Title {
			return evs[i].Title < evs[j].Title
		}
		return evs[i].ID < evs[j].ID
	})
}
