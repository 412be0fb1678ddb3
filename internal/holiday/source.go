package holiday

import (
	"fmt"
	"sort"
	"sync"

	appLog "holical/internal/log"
	"holical/internal/model"
)

type cacheKey struct {
	country string
	year    int
}

// Source fronts one or more backends with a per-(country, year) cache.
// The first backend that lists a country serves it.
type Source struct {
	backends []Backend

	mu    sync.RWMutex
	cache map[cacheKey]map[model.Date]string
}

// NewSource builds a Source. Callers construct one per process and share it.
func NewSource(backends ...Backend) *Source {
	return &Source{
		backends: backends,
		cache:    make(map[cacheKey]map[model.Date]string),
	}
}

// Countries lists every supported country code, sorted.
func (s *Source) Countries() []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range s.backends {
		for _, c := range b.Countries() {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Supports reports whether some backend serves country.
func (s *Source) Supports(country string) bool {
	return ValidateCountry(country, s.Countries()) == nil
}

// Holidays returns the raw holidays of country in year. Lookup failures
// are logged and yield an empty map, so one bad country never breaks a
// loop over several. The returned map must not be modified.
func (s *Source) Holidays(country string, year int) map[model.Date]string {
	m, err := s.Lookup(country, year)
	if err != nil {
		appLog.Error("holiday lookup failed; using empty set", err,
			"country", country,
			"year", year,
		)
		return map[model.Date]string{}
	}
	return m
}

// Lookup is Holidays with the error kept. Failures are not cached.
func (s *Source) Lookup(country string, year int) (map[model.Date]string, error) {
	key := cacheKey{country: NormalizeCountry(country), year: year}

	s.mu.RLock()
	m, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return m, nil
	}

	m, err := s.compute(key)
	if err != nil {
		return nil, err
	}

	// Concurrent first lookups may both compute; the results are identical.
	s.mu.Lock()
	s.cache[key] = m
	s.mu.Unlock()
	return m, nil
}

func (s *Source) compute(key cacheKey) (m map[model.Date]string, err error) {
	b := s.backendFor(key.country)
	if b == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCountry, key.country)
	}

	defer func() {
		if p := recover(); p != nil {
			m, err = nil, fmt.Errorf("holiday backend panic for %s/%d: %v", key.country, key.year, p)
		}
	}()

	raw, err := b.Holidays(key.country, key.year)
	if err != nil {
		return nil, fmt.Errorf("holidays %s/%d: %w", key.country, key.year, err)
	}
	if raw == nil {
		raw = map[model.Date]string{}
	}
	return raw, nil
}

func (s *Source) backendFor(country string) Backend {
	for _, b := range s.backends {
		for _, c := range b.Countries() {
			if c == country {
				return b
			}
		}
	}
	return nil
}

// Clear drops every cached year.
func (s *Source) Clear() {
	s.mu.Lock()
	n := len(s.cache)
	s.cache = make(map[cacheKey]map[model.Date]string)
	s.mu.Unlock()
	appLog.Debug("holiday cache cleared", "entries", n)
}

// CacheLen reports the number of cached (country, year) entries.
func (s *Source) CacheLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}
