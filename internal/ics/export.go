package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"holical/internal/holiday"
	"holical/internal/model"
)

const productID = "-//holical//calendar export//EN"

// Exporter writes events and holidays as one VCALENDAR.
type Exporter struct {
	// Location anchors timed events; nil means time.Local.
	Location *time.Location
	// Now stamps DTSTAMP; defaults to time.Now.
	Now func() time.Time
}

func (x Exporter) loc() *time.Location {
	if x.Location == nil {
		return time.Local
	}
	return x.Location
}

// Build assembles the calendar. Recurring events keep their RRULE.
func (x Exporter) Build(events []model.Event, holidays []holiday.Record) (*ical.Calendar, error) {
	now := time.Now
	if x.Now != nil {
		now = x.Now
	}
	stamp := now().UTC()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, ev := range events {
		if err := x.addEvent(cal, ev, stamp); err != nil {
			return nil, fmt.Errorf("export event %s: %w", ev.ID, err)
		}
	}
	for _, h := range holidays {
		ve := cal.AddEvent(fmt.Sprintf("holiday-%s-%s@holical", strings.ToLower(h.CountryCode), h.Date))
		ve.SetDtStampTime(stamp)
		ve.SetSummary(h.Name)
		ve.SetAllDayStartAt(h.Date.Time())
		ve.SetAllDayEndAt(h.Date.AddDays(1).Time())
		ve.SetProperty(ical.ComponentPropertyCategories, "HOLIDAY,"+strings.ToUpper(string(h.Type)))
	}
	return cal, nil
}

func (x Exporter) addEvent(cal *ical.Calendar, ev model.Event, stamp time.Time) error {
	ve := cal.AddEvent(ev.ID)
	ve.SetDtStampTime(stamp)
	ve.SetSummary(ev.Title)
	if ev.Description != "" {
		ve.SetDescription(ev.Description)
	}
	if ev.Category != "" {
		ve.SetProperty(ical.ComponentPropertyCategories, strings.ToUpper(ev.Category))
	}

	last := ev.StartDate
	if ev.EndDate != nil {
		last = *ev.EndDate
	}

	if ev.IsAllDay || ev.StartTime == "" {
		ve.SetAllDayStartAt(ev.StartDate.Time())
		ve.SetAllDayEndAt(last.AddDays(1).Time())
	} else {
		start, err := clockOn(ev.StartDate, ev.StartTime, x.loc())
		if err != nil {
			return err
		}
		end := start
		if ev.EndTime != "" {
			if end, err = clockOn(last, ev.EndTime, x.loc()); err != nil {
				return err
			}
		}
		ve.SetStartAt(start)
		ve.SetEndAt(end)
	}

	if ev.RRule != "" {
		ve.AddRrule(ev.RRule)
	}
	return nil
}

func clockOn(d model.Date, hhmm string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q: %w", hhmm, err)
	}
	return time.Date(d.Year, d.Month, d.Day, t.Hour(), t.Minute(), 0, 0, loc), nil
}

// Write serializes the calendar to w.
func (x Exporter) Write(w io.Writer, events []model.Event, holidays []holiday.Record) error {
	cal, err := x.Build(events, holidays)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, cal.Serialize())
	return err
}
