// Package holiday produces per-country holiday calendars, strips holidays
// that do not belong to a country and classifies the rest.
package holiday

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"holical/internal/model"
)

// ErrUnsupportedCountry is returned for country codes no backend knows.
var ErrUnsupportedCountry = errors.New("unsupported country code")

type Type string

const (
	TypeBankHoliday Type = "bank_holiday"
	TypeNationalDay Type = "national_day"
	TypeObservance  Type = "observance"
)

const (
	observedSuffix    = " (observed)"
	substitutedPrefix = "Day off (substituted from "
)

// Record is one holiday as shown to users. Name is already localized when
// it leaves the calendar package.
type Record struct {
	Name        string     `json:"name"`
	Date        model.Date `json:"date"`
	CountryCode string     `json:"country"`
	Type        Type       `json:"type"`
	IsObserved  bool       `json:"is_observed"`
}

// NewRecord classifies a raw (English) holiday name.
func NewRecord(country string, date model.Date, rawName string) Record {
	return Record{
		Name:        rawName,
		Date:        date,
		CountryCode: NormalizeCountry(country),
		Type:        Classify(rawName),
		IsObserved:  IsObservedName(rawName),
	}
}

var (
	nationalKeywords = []string{
		"national", "independence", "republic", "constitution", "foundation",
		"founding", "unity", "liberation", "sovereignty", "victory", "canada day",
		"king's day", "hangul", "commemoration",
	}
	observanceKeywords = []string{
		" eve", "day off", "substituted", "mother's day", "father's day",
		"valentine", "halloween", "arafat",
	}
)

// Classify maps a raw holiday name to its Type.
func Classify(rawName string) Type {
	n := strings.ToLower(rawName)
	for _, k := range observanceKeywords {
		if strings.Contains(n, k) {
			return TypeObservance
		}
	}
	for _, k := range nationalKeywords {
		if strings.Contains(n, k) {
			return TypeNationalDay
		}
	}
	return TypeBankHoliday
}

// IsObservedName reports whether the name marks a moved or substituted day.
func IsObservedName(rawName string) bool {
	return strings.HasSuffix(rawName, observedSuffix) || strings.HasPrefix(rawName, substitutedPrefix)
}

// BaseName strips an "(observed)" suffix.
func BaseName(rawName string) string {
	return strings.TrimSuffix(strings.TrimSpace(rawName), observedSuffix)
}

// NormalizeCountry upper-cases and trims an ISO-3166-1 alpha-2 code.
func NormalizeCountry(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCountry rejects codes outside the supported set.
func ValidateCountry(code string, supported []string) error {
	c := NormalizeCountry(code)
	if len(c) != 2 {
		return fmt.Errorf("%w: %q", ErrUnsupportedCountry, code)
	}
	for _, s := range supported {
		if s == c {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedCountry, code)
}

// SortedDates returns the keys of m in ascending order.
func SortedDates(m map[model.Date]string) []model.Date {
	out := make([]model.Date, 0, len(m))
	for d := range m {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// addFirst keeps the first name emitted for a date.
func addFirst(m map[model.Date]string, d model.Date, name string) {
	if _, ok := m[d]; ok {
		return
	}
	m[d] = name
}
