package ics

import (
	"strings"
	"time"

	"github.com/google/uuid"

	appLog "holical/internal/log"
	"holical/internal/model"
)

// ImportOptions controls how parsed VEVENTs become events.
type ImportOptions struct {
	// Location is the display zone timed events are converted into.
	// Nil means time.Local.
	Location *time.Location

	// Category is used when a VEVENT has no CATEGORIES.
	Category string
}

// EventID derives a stable event ID from a feed and a VEVENT UID, so
// importing the same feed twice updates rather than duplicates.
func EventID(sourceID, uid string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(sourceID+"/"+uid)).String()
}

// ToEvents maps parsed VEVENTs onto events. Overrides of single
// instances are skipped; rules outside the supported subset are dropped
// and the event is kept as a one-off on its first date.
func ToEvents(parsed []ParsedEvent, opts ImportOptions) []model.Event {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	out := make([]model.Event, 0, len(parsed))
	for _, p := range parsed {
		if p.IsOverride {
			appLog.Debug("ics override instance skipped", "uid", p.UID)
			continue
		}
		out = append(out, toEvent(p, loc, opts.Category))
	}
	return out
}

func toEvent(p ParsedEvent, loc *time.Location, category string) model.Event {
	ev := model.Event{
		ID:          EventID(p.Source.ID, p.UID),
		Source:      p.Source.ID,
		Title:       strings.TrimSpace(p.Summary),
		Description: p.Description,
		Category:    category,
		IsAllDay:    p.AllDay,
	}
	if ev.Title == "" {
		ev.Title = "(untitled)"
	}
	if len(p.Categories) > 0 {
		ev.Category = strings.ToLower(p.Categories[0])
	}
	if p.Location != "" {
		if ev.Description != "" {
			ev.Description += "\n"
		}
		ev.Description += p.Location
	}

	if p.AllDay {
		ev.StartDate = model.DateOf(p.Start)
		// DTEND of a date event is exclusive.
		if last := model.DateOf(p.End).AddDays(-1); last.After(ev.StartDate) {
			ev.EndDate = &last
		}
	} else {
		start, end := p.Start.In(loc), p.End.In(loc)
		ev.StartDate = model.DateOf(start)
		ev.StartTime = start.Format("15:04")
		ev.EndTime = end.Format("15:04")
		if last := model.DateOf(end); last.After(ev.StartDate) {
			ev.EndDate = &last
		}
	}

	if p.RawRRule != "" {
		rule, err := NormalizeRRule(p.RawRRule, loc)
		if err != nil {
			appLog.Warn("ics rrule not importable; keeping first occurrence",
				"uid", p.UID,
				"rrule", p.RawRRule,
				"reason", err.Error(),
			)
		} else {
			ev.RRule = rule
		}
	}
	if len(p.ExDates) > 0 && ev.RRule != "" {
		appLog.Debug("ics exdates ignored", "uid", p.UID, "count", len(p.ExDates))
	}
	return ev
}
