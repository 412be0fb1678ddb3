package holiday

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rickar/cal/v2/aa"
	"gopkg.in/yaml.v3"

	appLog "holical/internal/log"
	"holical/internal/model"
)

//go:embed rules/default.yaml
var defaultRules []byte

// Observed policies for rule-defined holidays.
const (
	ObservedSundayToMonday  = "sunday_to_monday"
	ObservedWeekendToMonday = "weekend_to_monday"
)

// RuleFile is the YAML document read by RuleBackend.
type RuleFile struct {
	Countries map[string]CountryRules `yaml:"countries"`
}

// CountryRules lists one country's holidays.
type CountryRules struct {
	Rules       []Rule       `yaml:"rules"`
	Substitutes []Substitute `yaml:"substitutes,omitempty"`
}

// Rule defines one holiday. Exactly one of Fixed, Weekday, Easter and
// Dates must be set.
type Rule struct {
	Name string `yaml:"name"`

	Fixed   *MonthDay    `yaml:"fixed,omitempty"`
	Weekday *WeekdayRule `yaml:"weekday,omitempty"`
	// Easter is the day offset from Easter Sunday.
	Easter *int `yaml:"easter,omitempty"`
	// Dates lists explicit "MM-DD" dates per year, for lunar calendars.
	Dates map[int]string `yaml:"dates,omitempty"`

	Observed string `yaml:"observed,omitempty"`
	Since    int    `yaml:"since,omitempty"`
	Until    int    `yaml:"until,omitempty"`
}

type MonthDay struct {
	Month int `yaml:"month"`
	Day   int `yaml:"day"`
}

// WeekdayRule is the Nth weekday of a month; negative Nth counts from the end.
type WeekdayRule struct {
	Month   int    `yaml:"month"`
	Weekday string `yaml:"weekday"`
	Nth     int    `yaml:"nth"`
}

// Substitute is a working weekend day moved onto Date.
type Substitute struct {
	Date model.Date `yaml:"date"`
	From model.Date `yaml:"from"`
}

// SubstitutedName renders the day-off label for a substitute.
func (s Substitute) SubstitutedName() string {
	return substitutedPrefix + s.From.Time().Format("01/02/2006") + ")"
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

func (r Rule) validate() error {
	set := 0
	if r.Fixed != nil {
		set++
	}
	if r.Weekday != nil {
		set++
		if _, ok := weekdayNames[strings.ToLower(r.Weekday.Weekday)]; !ok {
			return fmt.Errorf("rule %q: unknown weekday %q", r.Name, r.Weekday.Weekday)
		}
		if r.Weekday.Nth == 0 {
			return fmt.Errorf("rule %q: nth must not be 0", r.Name)
		}
	}
	if r.Easter != nil {
		set++
	}
	if len(r.Dates) > 0 {
		set++
	}
	if r.Name == "" {
		return errors.New("rule without name")
	}
	if set != 1 {
		return fmt.Errorf("rule %q: exactly one of fixed, weekday, easter, dates required", r.Name)
	}
	switch r.Observed {
	case "", ObservedSundayToMonday, ObservedWeekendToMonday:
	default:
		return fmt.Errorf("rule %q: unknown observed policy %q", r.Name, r.Observed)
	}
	return nil
}

// applies reports whether year lies within the rule's since/until bounds.
func (r Rule) applies(year int) bool {
	if r.Since > 0 && year < r.Since {
		return false
	}
	return r.Until == 0 || year <= r.Until
}

// missing reports a dates rule that applies in year but lists no date.
func (r Rule) missing(year int) bool {
	if len(r.Dates) == 0 || !r.applies(year) {
		return false
	}
	_, ok := r.Dates[year]
	return !ok
}

// date computes the rule's date in year; ok is false if it does not apply.
func (r Rule) date(year int) (model.Date, bool, error) {
	if !r.applies(year) {
		return model.Date{}, false, nil
	}

	switch {
	case r.Fixed != nil:
		if r.Fixed.Day > model.DaysIn(year, time.Month(r.Fixed.Month)) {
			return model.Date{}, false, nil
		}
		return model.Date{Year: year, Month: time.Month(r.Fixed.Month), Day: r.Fixed.Day}, true, nil
	case r.Weekday != nil:
		wd := weekdayNames[strings.ToLower(r.Weekday.Weekday)]
		return nthWeekday(year, time.Month(r.Weekday.Month), wd, r.Weekday.Nth), true, nil
	case r.Easter != nil:
		return easterSunday(year).AddDays(*r.Easter), true, nil
	default:
		s, ok := r.Dates[year]
		if !ok {
			return model.Date{}, false, nil
		}
		d, err := model.ParseDate(fmt.Sprintf("%04d-%s", year, s))
		if err != nil {
			return model.Date{}, false, fmt.Errorf("rule %q year %d: %w", r.Name, year, err)
		}
		return d, true, nil
	}
}

func nthWeekday(year int, month time.Month, wd time.Weekday, nth int) model.Date {
	if nth > 0 {
		first := model.Date{Year: year, Month: month, Day: 1}
		shift := (int(wd) - int(first.Weekday()) + 7) % 7
		return first.AddDays(shift + 7*(nth-1))
	}
	last := model.Date{Year: year, Month: month, Day: model.DaysIn(year, month)}
	shift := (int(last.Weekday()) - int(wd) + 7) % 7
	return last.AddDays(-shift - 7*(-nth-1))
}

// easterSunday derives Western Easter from the library's Good Friday.
func easterSunday(year int) model.Date {
	gf, _ := aa.GoodFriday.Calc(year)
	return model.DateOf(gf).AddDays(2)
}

// RuleBackend evaluates YAML holiday rules.
type RuleBackend struct {
	mu        sync.RWMutex
	countries map[string]CountryRules
}

// NewRuleBackend loads the embedded default rules.
func NewRuleBackend() (*RuleBackend, error) {
	b := &RuleBackend{countries: make(map[string]CountryRules)}
	if err := b.Merge(defaultRules); err != nil {
		return nil, fmt.Errorf("embedded holiday rules: %w", err)
	}
	return b, nil
}

// LoadFile merges a rule file from disk; countries it names replace the
// existing definitions.
func (b *RuleBackend) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := b.Merge(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Merge parses and validates data before applying it.
func (b *RuleBackend) Merge(data []byte) error {
	var f RuleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return err
	}
	for code, cr := range f.Countries {
		for _, r := range cr.Rules {
			if err := r.validate(); err != nil {
				return fmt.Errorf("country %s: %w", code, err)
			}
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for code, cr := range f.Countries {
		b.countries[NormalizeCountry(code)] = cr
	}
	return nil
}

func (b *RuleBackend) Countries() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.countries))
	for c := range b.countries {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (b *RuleBackend) Holidays(country string, year int) (map[model.Date]string, error) {
	b.mu.RLock()
	cr, ok := b.countries[NormalizeCountry(country)]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCountry, country)
	}

	out := make(map[model.Date]string)
	type pending struct {
		date   model.Date
		name   string
		policy string
	}
	var observed []pending

	if gaps := missingDates(cr, year); len(gaps) > 0 {
		appLog.Warn("holiday rules list no date for this year",
			"country", NormalizeCountry(country),
			"year", year,
			"holidays", strings.Join(gaps, ", "),
		)
	}

	for _, r := range cr.Rules {
		d, ok, err := r.date(year)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		addFirst(out, d, r.Name)
		if r.Observed != "" {
			observed = append(observed, pending{date: d, name: r.Name, policy: r.Observed})
		}
	}

	for _, s := range cr.Substitutes {
		if s.Date.Year != year {
			continue
		}
		addFirst(out, s.Date, s.SubstitutedName())
	}

	for _, p := range observed {
		if !movesToMonday(p.date.Weekday(), p.policy) {
			continue
		}
		// Next weekday that is not already a holiday.
		d := p.date.AddDays(1)
		for {
			wd := d.Weekday()
			_, taken := out[d]
			if !taken && wd != time.Saturday && wd != time.Sunday {
				break
			}
			d = d.AddDays(1)
		}
		if d.Year == year {
			addFirst(out, d, p.name+observedSuffix)
		}
	}
	return out, nil
}

// Gaps names the dates rules of country that have no entry for year.
func (b *RuleBackend) Gaps(country string, year int) []string {
	b.mu.RLock()
	cr, ok := b.countries[NormalizeCountry(country)]
	b.mu.RUnlock()
	if !ok {
		return nil
	}
	return missingDates(cr, year)
}

func missingDates(cr CountryRules, year int) []string {
	var out []string
	for _, r := range cr.Rules {
		if r.missing(year) {
			out = append(out, r.Name)
		}
	}
	return out
}

func movesToMonday(wd time.Weekday, policy string) bool {
	switch policy {
	case ObservedSundayToMonday:
		return wd == time.Sunday
	case ObservedWeekendToMonday:
		return wd == time.Saturday || wd == time.Sunday
	}
	return false
}
