package holiday

import (
	"time"

	"holical/internal/model"
)

// Translator localizes a raw holiday name for a viewer locale.
type Translator interface {
	Translate(rawName, locale, country string) string
}

// Upcoming is a Record with its distance from today.
type Upcoming struct {
	Record
	DaysUntil int `json:"days_until"`
}

// Service turns raw source output into filtered, localized records.
type Service struct {
	Source     *Source
	Translator Translator

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *Service) today() model.Date {
	if s.Now != nil {
		return model.DateOf(s.Now())
	}
	return model.DateOf(time.Now())
}

// Range returns the visible holidays of country dated within [from, to],
// at most one per date. A failing lookup leaves its year empty.
func (s *Service) Range(country, locale string, from, to model.Date) map[model.Date]Record {
	out := make(map[model.Date]Record)
	if to.Before(from) {
		return out
	}
	for year := from.Year; year <= to.Year; year++ {
		filtered := Filter(country, s.Source.Holidays(country, year))
		for _, day := range SortedDates(filtered) {
			if !day.Within(from, to) {
				continue
			}
			if _, ok := out[day]; ok {
				continue
			}
			out[day] = s.record(country, locale, day, filtered[day])
		}
	}
	return out
}

func (s *Service) record(country, locale string, day model.Date, raw string) Record {
	r := NewRecord(country, day, raw)
	if s.Translator != nil {
		r.Name = s.Translator.Translate(raw, locale, country)
	}
	return r
}

// Month lists the holidays of one month sorted by date. Unknown country
// codes are rejected with ErrUnsupportedCountry.
func (s *Service) Month(country string, year int, month time.Month, locale string) ([]Upcoming, error) {
	if err := ValidateCountry(country, s.Source.Countries()); err != nil {
		return nil, err
	}
	from := model.NewDate(year, month, 1)
	to := model.NewDate(year, month, model.DaysIn(year, month))

	recs := s.Range(country, locale, from, to)
	today := s.today()
	out := make([]Upcoming, 0, len(recs))
	for day := from; !day.After(to); day = day.AddDays(1) {
		if r, ok := recs[day]; ok {
			out = append(out, Upcoming{Record: r, DaysUntil: today.DaysUntil(day)})
		}
	}
	return out, nil
}
