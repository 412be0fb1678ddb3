package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"holical/internal/calendar"
	"holical/internal/holiday"
	appLog "holical/internal/log"
	"holical/internal/model"
)

//go:embed templates/calendar.html
var templateFS embed.FS

var calendarTemplate = template.Must(template.New("calendar.html").Funcs(template.FuncMap{
	"monthName": func(m time.Month) string { return m.String() },
}).ParseFS(templateFS, "templates/calendar.html"))

// buildMonth loads the events visible in the month grid and assembles it.
func (s *Server) buildMonth(r *http.Request, year int, month time.Month) (calendar.Month, error) {
	q := r.URL.Query()
	country := q.Get("country")
	if country == "" {
		country = s.defaultCountry()
	}
	locale := q.Get("locale")
	if locale == "" {
		locale = s.defaultLocale()
	}

	if _, err := s.deps.Assembler.CheckCountry(country, locale); err != nil {
		return calendar.Month{}, err
	}

	start, end := s.deps.Assembler.VisibleRange(year, month)
	events, err := s.deps.Store.EventsForRange(r.Context(), start, end)
	if err != nil {
		return calendar.Month{}, err
	}
	return s.deps.Assembler.BuildMonth(year, month, events, country, locale), nil
}

// handleCalendarJSON returns the month grid.
//
// GET /api/v1/calendar/{year}/{month}?country=DE&locale=de_DE
func (s *Server) handleCalendarJSON(w http.ResponseWriter, r *http.Request) {
	year, month, ok := parseYearMonth(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "year and month must be numeric, month in 1..12")
		return
	}
	m, err := s.buildMonth(r, year, month)
	if errors.Is(err, holiday.ErrUnsupportedCountry) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

type calendarPage struct {
	Month    calendar.Month
	Weekdays []string
	Prev     model.Date
	Next     model.Date
}

// weekdayHeaders returns abbreviated weekday names starting at first
// (0 = Monday).
func weekdayHeaders(first int) []string {
	out := make([]string, 7)
	for i := range out {
		wd := time.Weekday((first + 1 + i) % 7)
		out[i] = wd.String()[:3]
	}
	return out
}

// handleCalendarHTML renders the month view used for screenshots.
//
// GET /calendar?year=2025&month=1&country=DE&locale=de_DE
func (s *Server) handleCalendarHTML(w http.ResponseWriter, r *http.Request) {
	today := model.DateOf(s.deps.Now().In(s.location()))
	q := r.URL.Query()
	year := parseIntDefault(q.Get("year"), today.Year)
	month := parseIntDefault(q.Get("month"), int(today.Month))
	if year < 1 || year > 9999 || month < 1 || month > 12 {
		http.Error(w, "invalid year or month", http.StatusBadRequest)
		return
	}

	m, err := s.buildMonth(r, year, time.Month(month))
	if errors.Is(err, holiday.ErrUnsupportedCountry) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		appLog.Error("failed to build calendar page", err, "year", year, "month", month)
		http.Error(w, "failed to load events", http.StatusInternalServerError)
		return
	}
	first := model.NewDate(year, time.Month(month), 1)
	page := calendarPage{
		Month:    m,
		Weekdays: weekdayHeaders(m.FirstWeekday),
		Prev:     first.AddDays(-1),
		Next:     first.AddDays(model.DaysIn(year, time.Month(month))),
	}

	var buf bytes.Buffer
	if err := calendarTemplate.Execute(&buf, page); err != nil {
		appLog.Error("failed to render calendar template", err)
		http.Error(w, "failed to render calendar", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
