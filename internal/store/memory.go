package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rdleal/intervalst/interval"

	"holical/internal/model"
)

type span struct {
	from, to time.Time
}

// Memory keeps events in process. One-off events are indexed by the days
// they occupy; recurring events are kept in a separate set because their
// extent is only known after expansion.
type Memory struct {
	mu        sync.RWMutex
	events    map[string]model.Event
	tree      *interval.SearchTree[[]string, time.Time]
	spans     map[span][]string
	recurring map[string]bool
}

func NewMemory() *Memory {
	return &Memory{
		events:    make(map[string]model.Event),
		tree:      interval.NewSearchTree[[]string](func(x, y time.Time) int { return x.Compare(y) }),
		spans:     make(map[span][]string),
		recurring: make(map[string]bool),
	}
}

// spanOf covers the event's days as a half-open interval.
func spanOf(ev model.Event) span {
	return span{from: ev.StartDate.Time(), to: lastDay(ev).AddDays(1).Time()}
}

func (m *Memory) index(ev model.Event) error {
	if ev.IsRecurring() {
		m.recurring[ev.ID] = true
		return nil
	}
	s := spanOf(ev)
	ids := append(slices.Clone(m.spans[s]), ev.ID)
	// Insert replaces the value stored for an identical interval.
	if err := m.tree.Insert(s.from, s.to, ids); err != nil {
		return fmt.Errorf("index event %s: %w", ev.ID, err)
	}
	m.spans[s] = ids
	return nil
}

func (m *Memory) unindex(ev model.Event) error {
	if ev.IsRecurring() {
		delete(m.recurring, ev.ID)
		return nil
	}
	s := spanOf(ev)
	ids := slices.DeleteFunc(slices.Clone(m.spans[s]), func(id string) bool { return id == ev.ID })
	if len(ids) == 0 {
		delete(m.spans, s)
		if err := m.tree.Delete(s.from, s.to); err != nil {
			return fmt.Errorf("unindex event %s: %w", ev.ID, err)
		}
		return nil
	}
	m.spans[s] = ids
	return m.tree.Insert(s.from, s.to, ids)
}

func (m *Memory) Create(_ context.Context, ev model.Event) (model.Event, error) {
	ev, err := Normalize(ev)
	if err != nil {
		return model.Event{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[ev.ID]; ok {
		return model.Event{}, fmt.Errorf("%w: id %s already exists", ErrInvalidEvent, ev.ID)
	}
	if err := m.index(ev); err != nil {
		return model.Event{}, err
	}
	m.events[ev.ID] = ev
	return ev, nil
}

func (m *Memory) Get(_ context.Context, id string) (model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ev, ok := m.events[id]
	if !ok {
		return model.Event{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return ev, nil
}

func (m *Memory) Update(_ context.Context, ev model.Event) (model.Event, error) {
	if ev.ID == "" {
		return model.Event{}, fmt.Errorf("%w: id is required", ErrInvalidEvent)
	}
	ev, err := Normalize(ev)
	if err != nil {
		return model.Event{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.events[ev.ID]
	if !ok {
		return model.Event{}, fmt.Errorf("%w: %s", ErrNotFound, ev.ID)
	}
	if err := m.unindex(old); err != nil {
		return model.Event{}, err
	}
	if err := m.index(ev); err != nil {
		return model.Event{}, err
	}
	m.events[ev.ID] = ev
	return ev, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := m.unindex(ev); err != nil {
		return err
	}
	delete(m.events, id)
	return nil
}

func (m *Memory) List(_ context.Context) ([]model.Event, error) {
	m.mu.RLock()
	out := make([]model.Event, 0, len(m.events))
	for _, ev := range m.events {
		out = append(out, ev)
	}
	m.mu.RUnlock()
	sortEvents(out)
	return out, nil
}

func (m *Memory) EventsForRange(_ context.Context, start, end model.Date) ([]model.Event, error) {
	if end.Before(start) {
		return []model.Event{}, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	var out []model.Event
	add := func(id string) {
		ev, ok := m.events[id]
		if !ok || seen[id] || !inRange(ev, start, end) {
			return
		}
		seen[id] = true
		out = append(out, ev)
	}

	// The tree's endpoint semantics are re-checked by inRange, so the
	// query is widened by a day on each side.
	from := start.AddDays(-1).Time()
	to := end.AddDays(1).Time()
	if groups, ok := m.tree.AllIntersections(from, to); ok {
		for _, ids := range groups {
			for _, id := range ids {
				add(id)
			}
		}
	}
	for id := range m.recurring {
		add(id)
	}

	if out == nil {
		out = []model.Event{}
	}
	sortEvents(out)
	return out, nil
}

func (m *Memory) Close() error { return nil }
