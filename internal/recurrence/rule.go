// Package recurrence expands the practical RRULE subset
// FREQ=DAILY|WEEKLY|MONTHLY|YEARLY[;INTERVAL=n][;COUNT=n][;UNTIL=YYYYMMDD][;BYDAY=MO,...]
// into concrete dates.
package recurrence

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"holical/internal/model"
)

// ErrMalformedRule is wrapped by every parse failure.
var ErrMalformedRule = errors.New("malformed recurrence rule")

type Frequency string

const (
	Daily   Frequency = "DAILY"
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
	Yearly  Frequency = "YEARLY"
)

func (f Frequency) valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

var weekdayTags = map[string]time.Weekday{
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
	"SU": time.Sunday,
}

// WeekdayTag returns the two-letter RRULE tag for wd.
func WeekdayTag(wd time.Weekday) string {
	for tag, d := range weekdayTags {
		if d == wd {
			return tag
		}
	}
	return ""
}

var untilPattern = regexp.MustCompile(`^\d{8}$`)

// Rule is a parsed recurrence rule. Treat it as immutable.
type Rule struct {
	Freq     Frequency
	Interval int

	// Count caps the number of generated candidates; 0 means unset.
	Count int

	// Until is the inclusive last date; nil means unset.
	Until *model.Date

	// ByDay is only consulted for WEEKLY rules.
	ByDay []time.Weekday
}

func (r Rule) hasByDay(wd time.Weekday) bool {
	for _, d := range r.ByDay {
		if d == wd {
			return true
		}
	}
	return false
}

// Bounded reports whether COUNT or UNTIL limits the rule.
func (r Rule) Bounded() bool {
	return r.Count > 0 || r.Until != nil
}

// String renders the rule back into the supported subset.
func (r Rule) String() string {
	parts := []string{"FREQ=" + string(r.Freq)}
	if r.Interval > 1 {
		parts = append(parts, "INTERVAL="+strconv.Itoa(r.Interval))
	}
	if r.Count > 0 {
		parts = append(parts, "COUNT="+strconv.Itoa(r.Count))
	}
	if r.Until != nil {
		parts = append(parts, "UNTIL="+r.Until.Time().Format("20060102"))
	}
	if len(r.ByDay) > 0 {
		tags := make([]string, 0, len(r.ByDay))
		for _, wd := range r.ByDay {
			tags = append(tags, WeekdayTag(wd))
		}
		parts = append(parts, "BYDAY="+strings.Join(tags, ","))
	}
	return strings.Join(parts, ";")
}

// Parse reads a ";"-separated KEY=VALUE rule. Unknown keys are ignored, an
// UNTIL that is not exactly eight digits is treated as absent, and an
// INTERVAL below 1 is raised to 1.
func Parse(s string) (Rule, error) {
	r := Rule{Interval: 1}

	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "RRULE:"), "rrule:")
	if s == "" {
		return r, fmt.Errorf("%w: empty rule", ErrMalformedRule)
	}

	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return r, fmt.Errorf("%w: %q is not KEY=VALUE", ErrMalformedRule, part)
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		val = strings.ToUpper(strings.TrimSpace(val))

		switch key {
		case "FREQ":
			r.Freq = Frequency(val)
		case "INTERVAL":
			n, err := strconv.Atoi(val)
			if err != nil {
				return r, fmt.Errorf("%w: INTERVAL=%q", ErrMalformedRule, val)
			}
			if n < 1 {
				n = 1
			}
			r.Interval = n
		case "COUNT":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return r, fmt.Errorf("%w: COUNT=%q", ErrMalformedRule, val)
			}
			r.Count = n
		case "UNTIL":
			if !untilPattern.MatchString(val) {
				continue
			}
			t, err := time.Parse("20060102", val)
			if err != nil {
				continue
			}
			d := model.DateOf(t)
			r.Until = &d
		case "BYDAY":
			r.ByDay = parseByDay(val)
		}
	}

	if r.Freq == "" {
		return r, fmt.Errorf("%w: missing FREQ", ErrMalformedRule)
	}
	if !r.Freq.valid() {
		return r, fmt.Errorf("%w: unsupported FREQ=%s", ErrMalformedRule, r.Freq)
	}
	return r, nil
}

// parseByDay keeps the known two-letter tags, dropping ordinal prefixes
// like "1MO" or "-1FR" and duplicates. The result is sorted Monday first.
func parseByDay(val string) []time.Weekday {
	seen := make(map[time.Weekday]bool)
	var out []time.Weekday
	for _, tok := range strings.Split(val, ",") {
		tok = strings.TrimSpace(tok)
		if len(tok) < 2 {
			continue
		}
		wd, ok := weekdayTags[tok[len(tok)-2:]]
		if !ok || seen[wd] {
			continue
		}
		seen[wd] = true
		out = append(out, wd)
	}
	sort.Slice(out, func(i, j int) bool {
		return mondayIndex(out[i]) < mondayIndex(out[j])
	})
	return out
}

// mondayIndex maps Monday..Sunday to 0..6.
func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
