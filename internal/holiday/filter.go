package holiday

import (
	"strings"

	"holical/internal/model"
)

// Guard decides, for a lower-cased holiday name that already contains a
// pattern's substring, whether the holiday really is excluded.
type Guard func(lowerName string) bool

// PatternRule excludes names containing Substring when Guard agrees.
type PatternRule struct {
	Substring string
	Guard     Guard
}

// ExclusionTable lists the holidays that never belong to one country,
// even when a rule backend emits them.
type ExclusionTable struct {
	Names    map[string]bool
	Patterns []PatternRule
}

// Always excludes every name that matched the substring.
func Always(string) bool { return true }

// Unless excludes a match only if none of the given words occurs in it.
func Unless(words ...string) Guard {
	return func(lowerName string) bool {
		for _, w := range words {
			if strings.Contains(lowerName, w) {
				return false
			}
		}
		return true
	}
}

func names(ns ...string) map[string]bool {
	m := make(map[string]bool, len(ns))
	for _, n := range ns {
		m[n] = true
	}
	return m
}

// Western Christian and US-centric holidays that rule libraries tend to
// emit as observed days for non-Western countries.
var westernPatterns = []PatternRule{
	{Substring: "christmas", Guard: Always},
	{Substring: "easter", Guard: Always},
	{Substring: "good friday", Guard: Always},
	{Substring: "halloween", Guard: Always},
	{Substring: "boxing day", Guard: Always},
}

var exclusionTables = map[string]ExclusionTable{
	"SA": {
		Names: names("Christmas Day", "Christmas Eve", "Easter", "Easter Sunday", "Easter Monday",
			"Good Friday", "Halloween", "Valentine's Day", "Thanksgiving", "Thanksgiving Day",
			"New Year's Day", "New Year's Eve"),
		Patterns: append([]PatternRule{
			{Substring: "new year", Guard: Unless("islamic", "hijri")},
			{Substring: "thanksgiving", Guard: Always},
			{Substring: "valentine", Guard: Always},
		}, westernPatterns...),
	},
	"AE": {
		Names: names("Christmas Day", "Easter", "Easter Sunday", "Easter Monday", "Good Friday",
			"Halloween", "Thanksgiving", "Thanksgiving Day"),
		Patterns: append([]PatternRule{
			{Substring: "thanksgiving", Guard: Always},
		}, westernPatterns...),
	},
	"CN": {
		Names: names("Christmas Day", "Easter Monday", "Good Friday", "Thanksgiving Day", "Boxing Day"),
		Patterns: append([]PatternRule{
			// Drops the Western New Year's Day observed copies but keeps
			// "Chinese New Year".
			{Substring: "new year's day", Guard: Unless("chinese")},
			{Substring: "thanksgiving", Guard: Always},
		}, westernPatterns...),
	},
	"JP": {
		Names: names("Christmas Day", "Easter", "Easter Monday", "Good Friday", "Boxing Day", "Thanksgiving Day"),
		Patterns: append([]PatternRule{
			{Substring: "thanksgiving", Guard: Unless("labor")},
		}, westernPatterns...),
	},
	"KR": {
		Names: names("Easter", "Easter Monday", "Good Friday", "Boxing Day", "Halloween"),
		Patterns: []PatternRule{
			{Substring: "easter", Guard: Always},
			{Substring: "good friday", Guard: Always},
			{Substring: "thanksgiving", Guard: Unless("chuseok", "korean")},
		},
	},
	"IN": {
		Names: names("Easter Monday", "Boxing Day", "Thanksgiving", "Thanksgiving Day", "Halloween"),
		Patterns: []PatternRule{
			{Substring: "thanksgiving", Guard: Always},
			{Substring: "boxing day", Guard: Always},
		},
	},
	"IL": {
		Names: names("Christmas Day", "Easter", "Easter Monday", "Good Friday", "Boxing Day"),
		Patterns: append([]PatternRule{
			{Substring: "new year's day", Guard: Unless("jewish", "rosh hashanah")},
			{Substring: "thanksgiving", Guard: Always},
		}, westernPatterns...),
	},
	"TR": {
		Names: names("Christmas Day", "Easter", "Easter Monday", "Good Friday", "Thanksgiving Day"),
		Patterns: append([]PatternRule{
			{Substring: "thanksgiving", Guard: Always},
		}, westernPatterns...),
	},
}

// ExclusionFor returns the exclusion table of country, if any.
func ExclusionFor(country string) (ExclusionTable, bool) {
	t, ok := exclusionTables[NormalizeCountry(country)]
	return t, ok
}

// Excluded reports whether rawName must never be shown for country.
func Excluded(country, rawName string) bool {
	t, ok := ExclusionFor(country)
	if !ok {
		return false
	}
	return t.excludes(rawName)
}

func (t ExclusionTable) excludes(rawName string) bool {
	name := strings.TrimSpace(rawName)
	if t.Names[name] || t.Names[BaseName(name)] {
		return true
	}
	lower := strings.ToLower(name)
	for _, p := range t.Patterns {
		if strings.Contains(lower, p.Substring) && p.Guard(lower) {
			return true
		}
	}
	return false
}

// Filter returns the subset of raw that belongs to country. It never adds
// entries, leaves raw untouched, and is idempotent.
func Filter(country string, raw map[model.Date]string) map[model.Date]string {
	out := make(map[model.Date]string, len(raw))
	t, ok := ExclusionFor(country)
	for d, name := range raw {
		if ok && t.excludes(name) {
			continue
		}
		out[d] = name
	}
	return out
}
