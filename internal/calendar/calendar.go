// Package calendar merges expanded events and localized holidays into a
// month grid that presentation layers render as-is.
package calendar

import (
	"fmt"
	"sort"
	"time"

	"holical/internal/holiday"
	"holical/internal/i18n"
	appLog "holical/internal/log"
	"holical/internal/model"
	"holical/internal/recurrence"
)

// Day is one cell of the month grid.
type Day struct {
	Date         model.Date         `json:"date"`
	IsToday      bool               `json:"is_today"`
	IsWeekend    bool               `json:"is_weekend"`
	IsOtherMonth bool               `json:"is_other_month"`
	IsHoliday    bool               `json:"is_holiday"`
	Holiday      *holiday.Record    `json:"holiday,omitempty"`
	Events       []model.Occurrence `json:"events"`
}

// Month is a full-week grid covering one month plus the adjacent days that
// complete its first and last weeks.
type Month struct {
	Year         int        `json:"year"`
	Month        time.Month `json:"month"`
	FirstWeekday int        `json:"first_weekday"`
	Country      string     `json:"country"`
	Locale       string     `json:"locale"`
	Weeks        [][]Day    `json:"weeks"`
}

// Start returns the first visible date of the grid.
func (m Month) Start() model.Date { return m.Weeks[0][0].Date }

// End returns the last visible date of the grid.
func (m Month) End() model.Date {
	last := m.Weeks[len(m.Weeks)-1]
	return last[len(last)-1].Date
}

// Days flattens the grid.
func (m Month) Days() []Day {
	out := make([]Day, 0, len(m.Weeks)*7)
	for _, w := range m.Weeks {
		out = append(out, w...)
	}
	return out
}

// Assembler builds month grids. It holds no per-request state and is safe
// for concurrent use once configured.
type Assembler struct {
	// Holidays may be nil, in which case no day is a holiday.
	Holidays *holiday.Service

	// FirstWeekday is 0 for Monday through 6 for Sunday.
	FirstWeekday int

	// Location decides which day is today; nil means time.Local.
	Location *time.Location
	Now      func() time.Time

	// CountryFromLocale replaces the requested country with the home
	// country of the locale when the locale has one.
	CountryFromLocale bool
}

// ValidateFirstWeekday rejects values outside 0..6.
func ValidateFirstWeekday(n int) error {
	if n < 0 || n > 6 {
		return fmt.Errorf("first weekday %d out of range 0..6", n)
	}
	return nil
}

func (a *Assembler) today() model.Date {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	loc := a.Location
	if loc == nil {
		loc = time.Local
	}
	return model.DateOf(now().In(loc))
}

func (a *Assembler) firstWeekday() int {
	if ValidateFirstWeekday(a.FirstWeekday) != nil {
		return 0
	}
	return a.FirstWeekday
}

// column returns the grid column of wd for the configured first weekday.
func (a *Assembler) column(wd time.Weekday) int {
	mondayBased := (int(wd) + 6) % 7
	return (mondayBased - a.firstWeekday() + 7) % 7
}

// VisibleRange returns the first and last dates shown for the month.
func (a *Assembler) VisibleRange(year int, month time.Month) (model.Date, model.Date) {
	first := model.NewDate(year, month, 1)
	last := model.NewDate(year, month, model.DaysIn(year, month))
	start := first.AddDays(-a.column(first.Weekday()))
	end := last.AddDays(6 - a.column(last.Weekday()))
	return start, end
}

// ResolveCountry applies the locale override when it is enabled.
func (a *Assembler) ResolveCountry(country, locale string) string {
	if a.CountryFromLocale {
		if c, ok := i18n.CountryForLocale(locale); ok {
			return c
		}
	}
	return holiday.NormalizeCountry(country)
}

// CheckCountry resolves the country the month would be built for and
// rejects codes no holiday backend serves with holiday.ErrUnsupportedCountry.
// An empty resolved country, or an assembler without holidays, passes.
func (a *Assembler) CheckCountry(country, locale string) (string, error) {
	resolved := a.ResolveCountry(country, i18n.NormalizeLocale(locale))
	if resolved == "" || a.Holidays == nil || a.Holidays.Source == nil {
		return resolved, nil
	}
	if !a.Holidays.Source.Supports(resolved) {
		return resolved, fmt.Errorf("%w: %q", holiday.ErrUnsupportedCountry, resolved)
	}
	return resolved, nil
}

// BuildMonth lays out the month with events and holidays attached. Each
// day carries every occurrence dated on it and at most one holiday.
// Holiday failures leave the grid without holidays.
func (a *Assembler) BuildMonth(year int, month time.Month, events []model.Event, country, locale string) Month {
	if locale == "" {
		locale = i18n.DefaultLocale
	}
	locale = i18n.NormalizeLocale(locale)
	country = a.ResolveCountry(country, locale)

	start, end := a.VisibleRange(year, month)
	today := a.today()

	byDate := make(map[model.Date][]model.Occurrence)
	for _, occ := range a.ExpandEvents(events, start, end) {
		byDate[occ.StartDate] = append(byDate[occ.StartDate], occ)
	}
	holidays := a.holidays(country, locale, start, end)

	m := Month{
		Year:         year,
		Month:        month,
		FirstWeekday: a.firstWeekday(),
		Country:      country,
		Locale:       locale,
	}
	var week []Day
	for day := start; !day.After(end); day = day.AddDays(1) {
		cell := Day{
			Date:         day,
			IsToday:      day == today,
			IsWeekend:    day.Weekday() == time.Saturday || day.Weekday() == time.Sunday,
			IsOtherMonth: day.Month != month || day.Year != year,
			Events:       byDate[day],
		}
		if cell.Events == nil {
			cell.Events = []model.Occurrence{}
		}
		if rec, ok := holidays[day]; ok {
			cell.IsHoliday = true
			cell.Holiday = &rec
		}
		week = append(week, cell)
		if len(week) == 7 {
			m.Weeks = append(m.Weeks, week)
			week = nil
		}
	}
	return m
}

func (a *Assembler) holidays(country, locale string, start, end model.Date) (out map[model.Date]holiday.Record) {
	if a.Holidays == nil || country == "" {
		return nil
	}
	defer func() {
		if p := recover(); p != nil {
			appLog.Error("holiday assembly failed; rendering without holidays",
				fmt.Errorf("%v", p),
				"country", country,
				"locale", locale,
			)
			out = nil
		}
	}()
	return a.Holidays.Range(country, locale, start, end)
}

// ExpandEvents returns every occurrence of events within [start, end],
// sorted by date, then start time, then title. One-off events occur on
// their start date.
func (a *Assembler) ExpandEvents(events []model.Event, start, end model.Date) []model.Occurrence {
	out := make([]model.Occurrence, 0, len(events))
	if end.Before(start) {
		return out
	}
	for _, ev := range events {
		if !ev.IsRecurring() {
			if ev.StartDate.Within(start, end) {
				out = append(out, model.OccurrenceOf(ev, ev.StartDate))
			}
			continue
		}
		for _, d := range recurrence.Expand(ev.RRule, ev.StartDate, start, end) {
			out = append(out, model.OccurrenceOf(ev, d))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		x, y := out[i], out[j]
		if x.StartDate != y.StartDate {
			return x.StartDate.Before(y.StartDate)
		}
		if x.StartTime != y.StartTime {
			return x.StartTime < y.StartTime
		}
		return x.Title < y.Title
	})
	return out
}
