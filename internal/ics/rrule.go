package ics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"holical/internal/recurrence"
)

// ErrUnsupportedRule marks RRULEs that use parts outside the subset the
// recurrence engine expands (hourly rules, BYMONTHDAY, BYSETPOS, ...).
var ErrUnsupportedRule = errors.New("rrule outside supported subset")

var freqNames = map[rrule.Frequency]recurrence.Frequency{
	rrule.DAILY:   recurrence.Daily,
	rrule.WEEKLY:  recurrence.Weekly,
	rrule.MONTHLY: recurrence.Monthly,
	rrule.YEARLY:  recurrence.Yearly,
}

var weekdayTags = [...]string{"MO", "TU", "WE", "TH", "FR", "SA", "SU"}

// NormalizeRRule rewrites a full RFC 5545 RRULE into the
// FREQ/INTERVAL/COUNT/UNTIL/BYDAY subset. UNTIL is converted to a
// YYYYMMDD date in loc. Rules that need anything else are rejected with
// ErrUnsupportedRule so the caller can import the event as a one-off.
func NormalizeRRule(raw string, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.UTC
	}
	opt, err := rrule.StrToROptionInLocation(strings.TrimPrefix(strings.TrimSpace(raw), "RRULE:"), loc)
	if err != nil {
		return "", fmt.Errorf("parse rrule %q: %w", raw, err)
	}

	freq, ok := freqNames[opt.Freq]
	if !ok {
		return "", fmt.Errorf("%w: frequency %v", ErrUnsupportedRule, opt.Freq)
	}
	if len(opt.Bysetpos)+len(opt.Bymonth)+len(opt.Bymonthday)+len(opt.Byyearday)+
		len(opt.Byweekno)+len(opt.Byhour)+len(opt.Byminute)+len(opt.Bysecond)+len(opt.Byeaster) > 0 {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedRule, raw)
	}
	if len(opt.Byweekday) > 0 && freq != recurrence.Weekly {
		return "", fmt.Errorf("%w: BYDAY with %s", ErrUnsupportedRule, freq)
	}

	parts := []string{"FREQ=" + string(freq)}
	if opt.Interval > 1 {
		parts = append(parts, "INTERVAL="+strconv.Itoa(opt.Interval))
	}
	if opt.Count > 0 {
		parts = append(parts, "COUNT="+strconv.Itoa(opt.Count))
	}
	if !opt.Until.IsZero() {
		parts = append(parts, "UNTIL="+opt.Until.In(loc).Format("20060102"))
	}
	if len(opt.Byweekday) > 0 {
		tags := make([]string, 0, len(opt.Byweekday))
		for i := range opt.Byweekday {
			wd := &opt.Byweekday[i]
			if wd.N() != 0 {
				return "", fmt.Errorf("%w: ordinal BYDAY %v", ErrUnsupportedRule, wd.String())
			}
			tags = append(tags, weekdayTags[wd.Day()])
		}
		parts = append(parts, "BYDAY="+strings.Join(tags, ","))
	}

	// Round-trip through the engine's parser for canonical ordering.
	r, err := recurrence.Parse(strings.Join(parts, ";"))
	if err != nil {
		return "", err
	}
	return r.String(), nil
}
