package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"holical/internal/holiday"
	"holical/internal/i18n"
)

type holidaysResponse struct {
	Holidays   []holiday.Upcoming `json:"holidays"`
	Country    string             `json:"country"`
	Year       int                `json:"year"`
	Month      int                `json:"month"`
	TotalCount int                `json:"total_count"`
}

// parseYearMonth reads the {year} and {month} path values.
func parseYearMonth(r *http.Request) (int, time.Month, bool) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil || year < 1 || year > 9999 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, time.Month(month), true
}

func (s *Server) defaultLocale() string {
	if s.cfg != nil && s.cfg.Locale != "" {
		return s.cfg.Locale
	}
	return i18n.DefaultLocale
}

func (s *Server) defaultCountry() string {
	if s.cfg != nil {
		return s.cfg.Country
	}
	return ""
}

func (s *Server) handleCountries(w http.ResponseWriter, _ *http.Request) {
	var countries []string
	if s.deps.Holidays != nil && s.deps.Holidays.Source != nil {
		countries = s.deps.Holidays.Source.Countries()
	}
	if countries == nil {
		countries = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"countries": countries, "total_count": len(countries)})
}

// handleHolidays lists one month of holidays for a country.
//
// GET /api/v1/holidays/{country}/{year}/{month}?locale=de_DE
func (s *Server) handleHolidays(w http.ResponseWriter, r *http.Request) {
	year, month, ok := parseYearMonth(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "year and month must be numeric, month in 1..12")
		return
	}
	if s.deps.Holidays == nil {
		writeError(w, http.StatusServiceUnavailable, "holidays are not configured")
		return
	}
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = s.defaultLocale()
	}
	country := holiday.NormalizeCountry(r.PathValue("country"))

	recs, err := s.deps.Holidays.Month(country, year, month, i18n.NormalizeLocale(locale))
	if err != nil {
		if errors.Is(err, holiday.ErrUnsupportedCountry) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "holiday lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, holidaysResponse{
		Holidays:   recs,
		Country:    country,
		Year:       year,
		Month:      int(month),
		TotalCount: len(recs),
	})
}
