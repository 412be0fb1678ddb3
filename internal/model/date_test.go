package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewDateNormalizes(t *testing.T) {
	if got := NewDate(2025, time.February, 30); got != (Date{2025, time.March, 2}) {
		t.Errorf("got %s", got)
	}
	if got := NewDate(2024, time.December, 31).AddDays(1); got != (Date{2025, time.January, 1}) {
		t.Errorf("AddDays across year: %s", got)
	}
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2024, time.December, 31)
	b := NewDate(2025, time.January, 1)
	if !a.Before(b) || a.After(b) || !b.After(a) {
		t.Errorf("ordering broken for %s and %s", a, b)
	}
	if !a.Within(a, b) || !b.Within(a, b) || NewDate(2025, 1, 2).Within(a, b) {
		t.Errorf("Within must be inclusive")
	}
	if a.DaysUntil(b) != 1 || b.DaysUntil(a) != -1 {
		t.Errorf("DaysUntil: %d, %d", a.DaysUntil(b), b.DaysUntil(a))
	}
	// Day counts stay exact across DST changes because dates are UTC.
	if d := NewDate(2025, time.March, 1).DaysUntil(NewDate(2025, time.April, 1)); d != 31 {
		t.Errorf("expected 31 days in March, got %d", d)
	}
}

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2025, time.February, 28},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2025, time.December, 31},
		{2025, time.April, 30},
	}
	for _, tt := range tests {
		if got := DaysIn(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysIn(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestDateJSON(t *testing.T) {
	ev := Event{ID: "x", Title: "t", StartDate: NewDate(2025, time.July, 4)}
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Event
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	if back.StartDate != ev.StartDate || back.EndDate != nil {
		t.Errorf("round trip lost data: %+v", back)
	}
	if err := json.Unmarshal([]byte(`{"start_date":"2025-13-01"}`), &back); err == nil {
		t.Errorf("expected error for month 13")
	}
}

func TestOccurrenceOf(t *testing.T) {
	ev := Event{ID: "abc", Title: "Rent", StartDate: NewDate(2025, 1, 1), RRule: "FREQ=MONTHLY"}
	occ := OccurrenceOf(ev, NewDate(2025, 3, 1))
	if occ.InstanceKey != "abc@2025-03-01" || !occ.IsRecurring || occ.EndDate != occ.StartDate {
		t.Errorf("unexpected occurrence %+v", occ)
	}
}
