package recurrence

import (
	"fmt"
	"time"

	appLog "holical/internal/log"
	"holical/internal/model"
)

const (
	// DefaultMaxOccurrences caps accepted dates when neither COUNT nor
	// UNTIL bounds the rule.
	DefaultMaxOccurrences = 100

	// MaxGenerated is the hard ceiling on candidates generated per call,
	// accepted or not.
	MaxGenerated = 1000
)

// Result is the outcome of one expansion. Diagnostic is non-nil when the
// rule could not be used and Dates holds the single-date fallback.
type Result struct {
	Dates      []model.Date
	Diagnostic error

	// Truncated is set when a safety cap, not the rule, ended expansion.
	Truncated bool
}

// Expand returns the dates produced by rule anchored at anchor that fall in
// [windowStart, windowEnd], ascending and without duplicates. It never
// fails: an unusable rule yields just the anchor if it lies in the window.
func Expand(rule string, anchor, windowStart, windowEnd model.Date) []model.Date {
	res := ExpandResult(rule, anchor, windowStart, windowEnd)
	if res.Diagnostic != nil {
		appLog.Debug("recurrence: falling back to anchor date",
			"rrule", rule,
			"anchor", anchor.String(),
			"reason", res.Diagnostic.Error(),
		)
	}
	if res.Truncated {
		appLog.Debug("recurrence: expansion stopped by safety cap",
			"rrule", rule,
			"anchor", anchor.String(),
			"accepted", len(res.Dates),
		)
	}
	return res.Dates
}

// ExpandResult is Expand with the diagnostic kept.
func ExpandResult(rule string, anchor, windowStart, windowEnd model.Date) (res Result) {
	if windowEnd.Before(windowStart) {
		return Result{}
	}

	defer func() {
		if p := recover(); p != nil {
			res = Result{
				Dates:      fallback(anchor, windowStart, windowEnd),
				Diagnostic: fmt.Errorf("expand %q: %v", rule, p),
			}
		}
	}()

	r, err := Parse(rule)
	if err != nil {
		return Result{
			Dates:      fallback(anchor, windowStart, windowEnd),
			Diagnostic: err,
		}
	}

	dates, truncated := r.Expand(anchor, windowStart, windowEnd)
	return Result{Dates: dates, Truncated: truncated}
}

func fallback(anchor, windowStart, windowEnd model.Date) []model.Date {
	if anchor.Within(windowStart, windowEnd) {
		return []model.Date{anchor}
	}
	return nil
}

// Expand walks the rule from anchor and keeps candidates inside the
// window. The second return value reports whether a safety cap stopped it.
func (r Rule) Expand(anchor, windowStart, windowEnd model.Date) ([]model.Date, bool) {
	var out []model.Date
	if windowEnd.Before(windowStart) {
		return out, false
	}

	gen := newGenerator(r, anchor)
	generated := 0
	for {
		cur, ok := gen.next()
		if !ok {
			return out, false
		}

		generated++
		if generated > MaxGenerated {
			return out, true
		}
		if r.Count > 0 && generated > r.Count {
			return out, false
		}
		if r.Until != nil && cur.After(*r.Until) {
			return out, false
		}
		if cur.After(windowEnd) {
			return out, false
		}

		if !cur.Before(windowStart) {
			out = append(out, cur)
			if !r.Bounded() && len(out) >= DefaultMaxOccurrences {
				return out, true
			}
		}
	}
}

// generator yields the rule's candidates in strictly increasing order.
type generator struct {
	rule   Rule
	anchor model.Date

	// k is the index of the next candidate for index-based frequencies.
	k int

	// last is the previous candidate for WEEKLY+BYDAY.
	last    model.Date
	started bool
}

func newGenerator(r Rule, anchor model.Date) *generator {
	return &generator{rule: r, anchor: anchor}
}

func (g *generator) next() (model.Date, bool) {
	if g.rule.Freq == Weekly && len(g.rule.ByDay) > 0 {
		return g.nextByDay()
	}

	k := g.k
	g.k++
	step := k * g.rule.Interval

	switch g.rule.Freq {
	case Daily:
		return g.anchor.AddDays(step), true
	case Weekly:
		return g.anchor.AddDays(7 * step), true
	case Monthly:
		return addMonthsClamped(g.anchor, step), true
	case Yearly:
		return addYearsClamped(g.anchor, step), true
	default:
		return model.Date{}, false
	}
}

// nextByDay steps one day at a time to the next listed weekday. Crossing
// into a new week (Monday) with INTERVAL=n skips n-1 whole weeks.
func (g *generator) nextByDay() (model.Date, bool) {
	if !g.started {
		g.started = true
		g.last = g.anchor
		if g.rule.hasByDay(g.anchor.Weekday()) {
			return g.anchor, true
		}
	}

	d := g.last
	// Any non-empty BYDAY set matches within one (possibly skipped) week.
	limit := 7*g.rule.Interval + 7
	for i := 0; i < limit; i++ {
		d = d.AddDays(1)
		if d.Weekday() == time.Monday && g.rule.Interval > 1 {
			d = d.AddDays(7 * (g.rule.Interval - 1))
		}
		if g.rule.hasByDay(d.Weekday()) {
			g.last = d
			return d, true
		}
	}
	return model.Date{}, false
}

// addMonthsClamped shifts anchor by n months, clamping the day to the
// target month's length. Each result is derived from the anchor, so a
// 31st anchor returns to the 31st in long months.
func addMonthsClamped(anchor model.Date, n int) model.Date {
	total := int(anchor.Month) - 1 + n
	year := anchor.Year + floorDiv(total, 12)
	month := time.Month(total - floorDiv(total, 12)*12 + 1)
	day := anchor.Day
	if last := model.DaysIn(year, month); day > last {
		day = last
	}
	return model.Date{Year: year, Month: month, Day: day}
}

// addYearsClamped shifts anchor by n years; Feb 29 becomes Feb 28 in
// common years.
func addYearsClamped(anchor model.Date, n int) model.Date {
	year := anchor.Year + n
	day := anchor.Day
	if last := model.DaysIn(year, anchor.Month); day > last {
		day = last
	}
	return model.Date{Year: year, Month: anchor.Month, Day: day}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
