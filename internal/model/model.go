package model

// Event is a stored calendar entry before recurrence expansion. Times are
// kept as "HH:MM" strings, dates as civil days.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	StartDate   Date   `json:"start_date"`
	StartTime   string `json:"start_time,omitempty"`
	EndDate     *Date  `json:"end_date,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	IsAllDay    bool   `json:"is_all_day"`

	// RRule holds the recurrence rule in the supported subset,
	// e.g. "FREQ=WEEKLY;BYDAY=MO,WE". Empty for one-off events.
	RRule string `json:"rrule,omitempty"`

	// Source is the ID of the ICS feed the event was imported from.
	Source string `json:"source,omitempty"`
}

// IsRecurring reports whether the event carries a recurrence rule.
func (e Event) IsRecurring() bool {
	return e.RRule != ""
}

// Occurrence projects an Event onto one concrete date. It shares the
// master's identity; StartDate and EndDate are both the occurrence date.
type Occurrence struct {
	EventID     string `json:"event_id"`
	Title       string `json:"title"`
	StartDate   Date   `json:"start_date"`
	StartTime   string `json:"start_time,omitempty"`
	EndDate     Date   `json:"end_date"`
	EndTime     string `json:"end_time,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	IsAllDay    bool   `json:"is_all_day"`
	IsRecurring bool   `json:"is_recurring"`
	RRule       string `json:"rrule,omitempty"`

	// InstanceKey identifies this occurrence, "<event id>@<date>".
	InstanceKey string `json:"instance_key"`
}

// OccurrenceOf builds the occurrence of ev on date d.
func OccurrenceOf(ev Event, d Date) Occurrence {
	return Occurrence{
		EventID:     ev.ID,
		Title:       ev.Title,
		StartDate:   d,
		StartTime:   ev.StartTime,
		EndDate:     d,
		EndTime:     ev.EndTime,
		Description: ev.Description,
		Category:    ev.Category,
		IsAllDay:    ev.IsAllDay,
		IsRecurring: ev.IsRecurring(),
		RRule:       ev.RRule,
		InstanceKey: ev.ID + "@" + d.String(),
	}
}
