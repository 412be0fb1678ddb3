package calendar

import (
	"errors"
	"testing"
	"time"

	"holical/internal/holiday"
	"holical/internal/i18n"
	"holical/internal/model"
)

func d(y int, m time.Month, day int) model.Date {
	return model.NewDate(y, m, day)
}

type fakeBackend struct {
	holidays map[model.Date]string
	panic    bool
}

func (b *fakeBackend) Countries() []string { return []string{"DE"} }

func (b *fakeBackend) Holidays(country string, year int) (map[model.Date]string, error) {
	if b.panic {
		panic("backend exploded")
	}
	out := make(map[model.Date]string)
	for day, name := range b.holidays {
		if day.Year == year {
			out[day] = name
		}
	}
	return out, nil
}

func newAssembler(b *fakeBackend) *Assembler {
	return &Assembler{
		Holidays: &holiday.Service{
			Source:     holiday.NewSource(b),
			Translator: i18n.NewTranslator(nil),
		},
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC) },
	}
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		name         string
		firstWeekday int
		start, end   model.Date
		weeks        int
	}{
		{name: "monday first", firstWeekday: 0, start: d(2024, 12, 30), end: d(2025, 2, 2), weeks: 5},
		{name: "sunday first", firstWeekday: 6, start: d(2024, 12, 29), end: d(2025, 2, 1), weeks: 5},
		{name: "wednesday first", firstWeekday: 2, start: d(2025, 1, 1), end: d(2025, 2, 4), weeks: 5},
		{name: "out of range falls back to monday", firstWeekday: 9, start: d(2024, 12, 30), end: d(2025, 2, 2), weeks: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Assembler{FirstWeekday: tt.firstWeekday}
			start, end := a.VisibleRange(2025, time.January)
			if start != tt.start || end != tt.end {
				t.Fatalf("got %s..%s, want %s..%s", start, end, tt.start, tt.end)
			}
			m := a.BuildMonth(2025, time.January, nil, "", "en_US")
			if len(m.Weeks) != tt.weeks {
				t.Fatalf("expected %d weeks, got %d", tt.weeks, len(m.Weeks))
			}
			for i, w := range m.Weeks {
				if len(w) != 7 {
					t.Fatalf("week %d has %d days", i, len(w))
				}
			}
			if m.Start() != tt.start || m.End() != tt.end {
				t.Errorf("grid bounds %s..%s", m.Start(), m.End())
			}
		})
	}
}

func TestBuildMonthDayFlags(t *testing.T) {
	a := newAssembler(&fakeBackend{})
	m := a.BuildMonth(2025, time.January, nil, "DE", "de_DE")

	for _, day := range m.Days() {
		if day.IsToday != (day.Date == d(2025, 1, 15)) {
			t.Errorf("%s: IsToday=%v", day.Date, day.IsToday)
		}
		if day.IsOtherMonth != (day.Date.Month != time.January) {
			t.Errorf("%s: IsOtherMonth=%v", day.Date, day.IsOtherMonth)
		}
		wd := day.Date.Weekday()
		if day.IsWeekend != (wd == time.Saturday || wd == time.Sunday) {
			t.Errorf("%s: IsWeekend=%v", day.Date, day.IsWeekend)
		}
		if day.Events == nil {
			t.Errorf("%s: Events must be an empty slice, not nil", day.Date)
		}
	}
}

func TestBuildMonthEventCount(t *testing.T) {
	events := []model.Event{
		{ID: "one", Title: "Dentist", StartDate: d(2024, 12, 31)},
		{ID: "hidden", Title: "Later", StartDate: d(2025, 2, 10)},
		{ID: "weekly", Title: "Standup", StartDate: d(2024, 12, 2), RRule: "FREQ=WEEKLY;BYDAY=MO"},
		{ID: "daily", Title: "Course", StartDate: d(2025, 1, 30), RRule: "FREQ=DAILY;COUNT=3"},
		{ID: "broken", Title: "Broken", StartDate: d(2025, 1, 10), RRule: "FREQ=HOURLY"},
	}
	a := &Assembler{}
	m := a.BuildMonth(2025, time.January, events, "", "")

	total := 0
	seen := make(map[string]bool)
	for _, day := range m.Days() {
		for _, occ := range day.Events {
			total++
			if occ.StartDate != day.Date || occ.EndDate != day.Date {
				t.Errorf("occurrence %s attached to %s", occ.InstanceKey, day.Date)
			}
			if seen[occ.InstanceKey] {
				t.Errorf("duplicate occurrence %s", occ.InstanceKey)
			}
			seen[occ.InstanceKey] = true
		}
	}

	// 1 one-off, 5 Mondays (Dec 30 to Jan 27), 3 daily, 1 fallback anchor.
	if total != 10 {
		t.Fatalf("expected 10 attached occurrences, got %d", total)
	}
	start, end := a.VisibleRange(2025, time.January)
	if n := len(a.ExpandEvents(events, start, end)); n != total {
		t.Errorf("ExpandEvents returned %d, grid holds %d", n, total)
	}
	for _, key := range []string{"one@2024-12-31", "weekly@2024-12-30", "daily@2025-02-01", "broken@2025-01-10"} {
		if !seen[key] {
			t.Errorf("missing occurrence %s", key)
		}
	}
}

func TestExpandEventsSorted(t *testing.T) {
	events := []model.Event{
		{ID: "b", Title: "Bravo", StartDate: d(2025, 3, 2), StartTime: "09:00"},
		{ID: "a", Title: "Alpha", StartDate: d(2025, 3, 2), StartTime: "09:00"},
		{ID: "c", Title: "Early", StartDate: d(2025, 3, 2), StartTime: "08:00"},
		{ID: "r", Title: "Rent", StartDate: d(2025, 1, 1), RRule: "FREQ=MONTHLY"},
	}
	got := (&Assembler{}).ExpandEvents(events, d(2025, 3, 1), d(2025, 3, 31))
	want := []string{"r@2025-03-01", "c@2025-03-02", "a@2025-03-02", "b@2025-03-02"}
	if len(got) != len(want) {
		t.Fatalf("expected %d occurrences, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].InstanceKey != want[i] {
			t.Errorf("position %d: got %s, want %s", i, got[i].InstanceKey, want[i])
		}
	}
	if len((&Assembler{}).ExpandEvents(events, d(2025, 3, 31), d(2025, 3, 1))) != 0 {
		t.Errorf("expected nothing for an inverted window")
	}
}

func TestBuildMonthHolidays(t *testing.T) {
	b := &fakeBackend{holidays: map[model.Date]string{
		d(2024, 12, 31): "New Year's Eve",
		d(2025, 1, 1):   "New Year's Day",
		d(2025, 2, 1):   "Groundhog Festival",
		d(2025, 3, 1):   "Not Visible",
	}}
	a := newAssembler(b)

	m := a.BuildMonth(2025, time.January, nil, "de", "de-DE")
	got := map[model.Date]string{}
	for _, day := range m.Days() {
		if day.IsHoliday != (day.Holiday != nil) {
			t.Fatalf("%s: IsHoliday disagrees with Holiday", day.Date)
		}
		if day.Holiday != nil {
			got[day.Date] = day.Holiday.Name
		}
	}
	want := map[model.Date]string{
		d(2024, 12, 31): "New Year's Eve",
		d(2025, 1, 1):   "Neujahr",
		d(2025, 2, 1):   "Groundhog Festival",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for day, name := range want {
		if got[day] != name {
			t.Errorf("%s: expected %q, got %q", day, name, got[day])
		}
	}

	// A non-native viewer sees the English name.
	m = a.BuildMonth(2025, time.January, nil, "DE", "en_US")
	for _, day := range m.Days() {
		if day.Date == d(2025, 1, 1) && day.Holiday.Name != "New Year's Day" {
			t.Errorf("expected English name for en_US viewer, got %q", day.Holiday.Name)
		}
	}
}

func TestBuildMonthSurvivesHolidayFailure(t *testing.T) {
	a := newAssembler(&fakeBackend{panic: true})
	events := []model.Event{{ID: "x", Title: "Still here", StartDate: d(2025, 1, 15)}}
	m := a.BuildMonth(2025, time.January, events, "DE", "de_DE")
	if len(m.Weeks) != 5 {
		t.Fatalf("expected full grid, got %d weeks", len(m.Weeks))
	}
	count := 0
	for _, day := range m.Days() {
		if day.IsHoliday {
			t.Errorf("%s: unexpected holiday", day.Date)
		}
		count += len(day.Events)
	}
	if count != 1 {
		t.Errorf("expected the event to survive, got %d", count)
	}
}

func TestResolveCountry(t *testing.T) {
	a := &Assembler{}
	if got := a.ResolveCountry("us", "de_DE"); got != "US" {
		t.Errorf("expected requested country, got %s", got)
	}
	a.CountryFromLocale = true
	if got := a.ResolveCountry("US", "de_DE"); got != "DE" {
		t.Errorf("expected locale country, got %s", got)
	}
	if got := a.ResolveCountry("US", "xx"); got != "US" {
		t.Errorf("expected fallback to requested country, got %s", got)
	}
}

func TestCheckCountry(t *testing.T) {
	a := newAssembler(&fakeBackend{})
	if got, err := a.CheckCountry("de", "en_US"); err != nil || got != "DE" {
		t.Errorf("CheckCountry(de) = %q, %v", got, err)
	}
	if _, err := a.CheckCountry("QQ", "en_US"); !errors.Is(err, holiday.ErrUnsupportedCountry) {
		t.Errorf("expected ErrUnsupportedCountry, got %v", err)
	}

	a.CountryFromLocale = true
	if _, err := a.CheckCountry("DE", "ja_JP"); !errors.Is(err, holiday.ErrUnsupportedCountry) {
		t.Errorf("expected the locale country JP to be rejected, got %v", err)
	}

	if _, err := (&Assembler{}).CheckCountry("QQ", "en_US"); err != nil {
		t.Errorf("assembler without holidays must not reject: %v", err)
	}
}
