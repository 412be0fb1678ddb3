package holiday

import (
	"errors"
	"testing"
	"time"

	"holical/internal/model"
)

type staticBackend map[string]map[model.Date]string

func (b staticBackend) Countries() []string {
	out := make([]string, 0, len(b))
	for c := range b {
		out = append(out, c)
	}
	return out
}

func (b staticBackend) Holidays(country string, year int) (map[model.Date]string, error) {
	out := make(map[model.Date]string)
	for day, name := range b[country] {
		if day.Year == year {
			out[day] = name
		}
	}
	return out, nil
}

type upperTranslator struct{}

func (upperTranslator) Translate(raw, locale, country string) string {
	if locale == "xx_SA" {
		return "<" + raw + ">"
	}
	return raw
}

func TestServiceMonth(t *testing.T) {
	src := NewSource(staticBackend{
		"SA": {
			d(2025, 3, 30):  "Eid al-Fitr",
			d(2025, 3, 31):  "Easter",
			d(2025, 12, 25): "Christmas Day",
			d(2025, 3, 2):   "Founding Day (observed)",
		},
	})
	svc := &Service{
		Source:     src,
		Translator: upperTranslator{},
		Now:        func() time.Time { return time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC) },
	}

	got, err := svc.Month("sa", 2025, time.March, "xx_SA")
	if err != nil {
		t.Fatalf("Month: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 holidays after filtering, got %+v", got)
	}
	if got[0].Date != d(2025, 3, 2) || got[0].DaysUntil != 1 || !got[0].IsObserved {
		t.Errorf("unexpected first record %+v", got[0])
	}
	if got[1].Name != "<Eid al-Fitr>" || got[1].CountryCode != "SA" || got[1].DaysUntil != 29 {
		t.Errorf("unexpected second record %+v", got[1])
	}
}

func TestServiceMonthRejectsUnknownCountry(t *testing.T) {
	svc := &Service{Source: NewSource(staticBackend{"SA": nil})}
	if _, err := svc.Month("QQ", 2025, time.January, "en_US"); !errors.Is(err, ErrUnsupportedCountry) {
		t.Fatalf("expected ErrUnsupportedCountry, got %v", err)
	}
}

func TestServiceRangeSpansYears(t *testing.T) {
	src := NewSource(staticBackend{
		"US": {
			d(2024, 12, 25): "Christmas Day",
			d(2025, 1, 1):   "New Year's Day",
			d(2025, 1, 20):  "Martin Luther King Jr. Day",
		},
	})
	svc := &Service{Source: src}
	got := svc.Range("US", "en_US", d(2024, 12, 20), d(2025, 1, 5))
	if len(got) != 2 {
		t.Fatalf("expected 2 holidays across the year boundary, got %v", got)
	}
	if got[d(2025, 1, 1)].Name != "New Year's Day" {
		t.Errorf("expected untranslated name without translator, got %+v", got[d(2025, 1, 1)])
	}
	if len(svc.Range("US", "en_US", d(2025, 1, 5), d(2025, 1, 1))) != 0 {
		t.Errorf("expected empty result for inverted range")
	}
}
