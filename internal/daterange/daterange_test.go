package daterange

import (
	"testing"
	"time"
)

// reference: Thursday, 15 August 2024, 10:30 local.
var now = time.Date(2024, 8, 15, 10, 30, 0, 0, time.UTC)

func firstRange(t *testing.T, text string) Range {
	t.Helper()
	for _, p := range Matches(text) {
		if r, ok := p.Range(now); ok {
			return r
		}
	}
	t.Fatalf("no usable range for %q", text)
	return Range{}
}

func TestCompactDate(t *testing.T) {
	r := firstRange(t, "20240728")
	wantStart := time.Date(2024, 7, 28, 0, 0, 0, 0, time.UTC)
	if !r.Start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", r.Start, wantStart)
	}
	wantEnd := time.Date(2024, 7, 29, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
	if !r.End.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", r.End, wantEnd)
	}
}

func TestCompactMonth(t *testing.T) {
	r := firstRange(t, "202407")
	if r.Start.Month() != time.July || r.Start.Day() != 1 {
		t.Errorf("start = %v, want July 1", r.Start)
	}
	if r.End.Month() != time.July || r.End.Day() != 31 {
		t.Errorf("end = %v, want July 31", r.End)
	}
}

func TestSpelledDates(t *testing.T) {
	cases := []struct {
		text  string
		month time.Month
		day   int
		year  int
	}{
		{"May 21, 2002", time.May, 21, 2002},
		{"May 21 2002", time.May, 21, 2002},
		{"jul 4, 2024", time.July, 4, 2024},
	}
	for _, tc := range cases {
		r := firstRange(t, tc.text)
		if r.Start.Year() != tc.year || r.Start.Month() != tc.month || r.Start.Day() != tc.day {
			t.Errorf("%q start = %v", tc.text, r.Start)
		}
	}
}

func TestMonthYearBothOrders(t *testing.T) {
	for _, text := range []string{"July 2024", "2024 July"} {
		r := firstRange(t, text)
		if r.Start.Year() != 2024 || r.Start.Month() != time.July {
			t.Errorf("%q start = %v", text, r.Start)
		}
	}
}

func TestRelativeDays(t *testing.T) {
	cases := []struct {
		text string
		day  int
	}{
		{"today", 15},
		{"yesterday", 14},
		{"day before yesterday", 13},
		{"the day before yesterday", 13},
	}
	for _, tc := range cases {
		r := firstRange(t, tc.text)
		if r.Start.Day() != tc.day {
			t.Errorf("%q start day = %d, want %d", tc.text, r.Start.Day(), tc.day)
		}
		if r.End.Day() != tc.day {
			t.Errorf("%q end day = %d, want %d", tc.text, r.End.Day(), tc.day)
		}
	}
}

// "last week" is the previous complete calendar week, Monday through
// Sunday, not a rolling 7-day window.
func TestLastWeekIsCalendarWeek(t *testing.T) {
	r := firstRange(t, "last week")

	// Now is Thursday Aug 15 2024; the previous week is Mon Aug 5 - Sun Aug 11.
	wantStart := time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)
	if !r.Start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", r.Start, wantStart)
	}
	if r.End.Day() != 11 || r.End.Month() != time.August {
		t.Errorf("end = %v, want Aug 11", r.End)
	}
	if r.Start.Weekday() != time.Monday {
		t.Errorf("start weekday = %v, want Monday", r.Start.Weekday())
	}
}

func TestLastMonthIsCalendarMonth(t *testing.T) {
	r := firstRange(t, "last month")
	if r.Start.Month() != time.July || r.Start.Day() != 1 {
		t.Errorf("start = %v, want July 1", r.Start)
	}
	if r.End.Month() != time.July || r.End.Day() != 31 {
		t.Errorf("end = %v, want July 31", r.End)
	}
}

// "last N days" is a rolling window from N days ago through the end of
// today. The asymmetry with the un-numbered forms is intentional.
func TestLastNDaysIsRollingWindow(t *testing.T) {
	r := firstRange(t, "last 3 days")
	wantStart := time.Date(2024, 8, 12, 0, 0, 0, 0, time.UTC)
	if !r.Start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", r.Start, wantStart)
	}
	if r.End.Day() != 15 {
		t.Errorf("end = %v, want end of today", r.End)
	}
}

func TestLastNWeeksIsRollingWindow(t *testing.T) {
	r := firstRange(t, "last 2 weeks")
	wantStart := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	if !r.Start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", r.Start, wantStart)
	}
}

func TestBareMonthDefaultsToCurrentYear(t *testing.T) {
	r := firstRange(t, "march")
	if r.Start.Year() != 2024 || r.Start.Month() != time.March {
		t.Errorf("start = %v, want March 2024", r.Start)
	}
}

func TestBareYear(t *testing.T) {
	r := firstRange(t, "2023")
	if r.Start.Year() != 2023 || r.Start.Month() != time.January || r.Start.Day() != 1 {
		t.Errorf("start = %v", r.Start)
	}
	if r.End.Year() != 2023 || r.End.Month() != time.December || r.End.Day() != 31 {
		t.Errorf("end = %v", r.End)
	}
}

// Bare weekday names match a pattern but resolve to no range.
func TestDayNameYieldsNoRange(t *testing.T) {
	ps := Matches("Monday")
	if len(ps) == 0 {
		t.Fatal("expected a day-name match")
	}
	for _, p := range ps {
		if _, ok := p.Range(now); ok {
			t.Errorf("pattern %v unexpectedly produced a range", p.Kind)
		}
	}
}

func TestImpossibleDateRejected(t *testing.T) {
	ps := Matches("Feb 30, 2024")
	if len(ps) == 0 {
		t.Fatal("expected a month-day-year match")
	}
	if _, ok := ps[0].Range(now); ok {
		t.Error("Feb 30 should yield no range")
	}
}

func TestNoMatch(t *testing.T) {
	for _, text := range []string{"hello world", "123", "20241345", "lasterday"} {
		if ps := Matches(text); len(ps) != 0 {
			t.Errorf("Matches(%q) = %v, want none", text, ps)
		}
	}
}

func TestContains(t *testing.T) {
	r := firstRange(t, "20240728")
	if !r.Contains(time.Date(2024, 7, 28, 12, 0, 0, 0, time.UTC)) {
		t.Error("noon should be inside the day range")
	}
	if r.Contains(time.Date(2024, 7, 29, 0, 0, 0, 0, time.UTC)) {
		t.Error("next midnight should be outside the inclusive range")
	}
}
