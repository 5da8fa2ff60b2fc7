// Package daterange recognises natural-language temporal phrases and turns
// them into concrete inclusive date ranges.
//
// Note the deliberate asymmetry: "last week" is the previous complete
// calendar week, while "last 1 week" is a rolling window ending today.
// Both behaviors are observed from the product and must not be unified.
package daterange

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind identifies a recognised phrase family.
type Kind string

const (
	KindCompactDate    Kind = "yyyymmdd"
	KindCompactMonth   Kind = "yyyymm"
	KindMonthDayYear   Kind = "month_day_year"
	KindMonthYear      Kind = "month_year"
	KindYearMonth      Kind = "year_month"
	KindNumberedPeriod Kind = "relative_numbered_period"
	KindPeriod         Kind = "relative_period"
	KindRelativeDay    Kind = "relative_day"
	KindMonth          Kind = "month"
	KindYear           Kind = "year"
	KindDayName        Kind = "day_name"
)

// Pattern is one recognised temporal phrase.
type Pattern struct {
	Kind Kind
	Text string

	month  string
	year   string
	day    string
	number string
	period string
	value  string
}

// Range is an inclusive [Start, End] time span.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the inclusive range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

const (
	monthNames = `January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Oct|Nov|Dec`
	dayNames   = `Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday|Mon|Tue|Wed|Thu|Fri|Sat|Sun`
	yearExpr   = `(?:19|20)\d{2}`
	dayExpr    = `[1-9]|[12][0-9]|3[01]`
)

var (
	compactDateRe    = regexp.MustCompile(`^((?:19|20)\d{2})(0[1-9]|1[0-2])(0[1-9]|[12][0-9]|3[01])$`)
	compactMonthRe   = regexp.MustCompile(`^((?:19|20)\d{2})(0[1-9]|1[0-2])$`)
	monthDayYearRe   = regexp.MustCompile(`(?i)^(` + monthNames + `)\s+(` + dayExpr + `),?\s+(` + yearExpr + `)$`)
	monthYearRe      = regexp.MustCompile(`(?i)^(` + monthNames + `)\s+(` + yearExpr + `)$`)
	yearMonthRe      = regexp.MustCompile(`(?i)^(` + yearExpr + `)\s+(` + monthNames + `)$`)
	numberedPeriodRe = regexp.MustCompile(`(?i)^last (\d+) (years?|weeks?|months?|days?)$`)
	lastWeekRe       = regexp.MustCompile(`(?i)^last week$`)
	lastMonthRe      = regexp.MustCompile(`(?i)^last month$`)
	lastYearRe       = regexp.MustCompile(`(?i)^last year$`)
	todayRe          = regexp.MustCompile(`(?i)^today$`)
	yesterdayRe      = regexp.MustCompile(`(?i)^yesterday$`)
	dayBeforeRe      = regexp.MustCompile(`(?i)^(the )?day before yesterday$`)
	monthOnlyRe      = regexp.MustCompile(`(?i)^(` + monthNames + `)$`)
	yearOnlyRe       = regexp.MustCompile(`^(` + yearExpr + `)$`)
	dayOnlyRe        = regexp.MustCompile(`(?i)^(` + dayNames + `)$`)
)

// Matches returns every phrase family the input satisfies, most specific
// first, or nil when none apply. Callers typically use the first entry.
func Matches(text string) []Pattern {
	var out []Pattern

	if m := compactDateRe.FindStringSubmatch(text); m != nil {
		out = append(out, Pattern{Kind: KindCompactDate, Text: text, year: m[1], month: m[2], day: m[3]})
	}
	if m := compactMonthRe.FindStringSubmatch(text); m != nil {
		out = append(out, Pattern{Kind: KindCompactMonth, Text: text, year: m[1], month: m[2]})
	}
	if m := monthDayYearRe.FindStringSubmatch(text); m != nil {
		out = append(out, Pattern{Kind: KindMonthDayYear, Text: text, month: m[1], day: m[2], year: m[3]})
	}
	if m := monthYearRe.FindStringSubmatch(text); m != nil {
		out = append(out, Pattern{Kind: KindMonthYear, Text: text, month: m[1], year: m[2]})
	}
	if m := yearMonthRe.FindStringSubmatch(text); m != nil {
		out = append(out, Pattern{Kind: KindYearMonth, Text: text, year: m[1], month: m[2]})
	}
	if m := numberedPeriodRe.FindStringSubmatch(text); m != nil {
		out = append(out, Pattern{
			Kind: KindNumberedPeriod, Text: text,
			number: m[1], period: strings.TrimSuffix(strings.ToLower(m[2]), "s"),
		})
	}
	if lastWeekRe.MatchString(text) {
		out = append(out, Pattern{Kind: KindPeriod, Text: text, value: "week"})
	}
	if lastMonthRe.MatchString(text) {
		out = append(out, Pattern{Kind: KindPeriod, Text: text, value: "month"})
	}
	if lastYearRe.MatchString(text) {
		out = append(out, Pattern{Kind: KindPeriod, Text: text, value: "year"})
	}
	if todayRe.MatchString(text) {
		out = append(out, Pattern{Kind: KindRelativeDay, Text: text, value: "0"})
	}
	if yesterdayRe.MatchString(text) {
		out = append(out, Pattern{Kind: KindRelativeDay, Text: text, value: "1"})
	}
	if dayBeforeRe.MatchString(text) {
		out = append(out, Pattern{Kind: KindRelativeDay, Text: text, value: "2"})
	}
	if monthOnlyRe.MatchString(text) {
		out = append(out, Pattern{Kind: KindMonth, Text: text})
	}
	if yearOnlyRe.MatchString(text) {
		out = append(out, Pattern{Kind: KindYear, Text: text})
	}
	if dayOnlyRe.MatchString(text) {
		out = append(out, Pattern{Kind: KindDayName, Text: text})
	}

	return out
}

// Range resolves a pattern to an inclusive date range relative to now.
// ok is false for patterns that carry no usable range (bare weekday names,
// impossible dates like February 30th); callers ignore those silently.
func (p Pattern) Range(now time.Time) (Range, bool) {
	switch p.Kind {
	case KindCompactDate, KindMonthDayYear:
		d, ok := p.resolveDay(now)
		if !ok {
			return Range{}, false
		}
		return dayRange(d), true

	case KindCompactMonth, KindMonthYear, KindYearMonth:
		y, _ := strconv.Atoi(p.year)
		m, ok := p.resolveMonth()
		if !ok {
			return Range{}, false
		}
		return monthRange(y, m, now.Location()), true

	case KindRelativeDay:
		n, _ := strconv.Atoi(p.value)
		return dayRange(now.AddDate(0, 0, -n)), true

	case KindPeriod:
		switch p.value {
		case "week":
			start := startOfWeek(now).AddDate(0, 0, -7)
			return Range{Start: start, End: endOf(start.AddDate(0, 0, 7))}, true
		case "month":
			first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
			prev := first.AddDate(0, -1, 0)
			return Range{Start: prev, End: endOf(first)}, true
		case "year":
			first := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
			prev := first.AddDate(-1, 0, 0)
			return Range{Start: prev, End: endOf(first)}, true
		}
		return Range{}, false

	case KindNumberedPeriod:
		n, err := strconv.Atoi(p.number)
		if err != nil || n < 0 {
			return Range{}, false
		}
		var start time.Time
		switch p.period {
		case "year":
			start = now.AddDate(-n, 0, 0)
		case "month":
			start = now.AddDate(0, -n, 0)
		case "week":
			start = now.AddDate(0, 0, -7*n)
		case "day":
			start = now.AddDate(0, 0, -n)
		default:
			return Range{}, false
		}
		return Range{Start: startOfDay(start), End: dayRange(now).End}, true

	case KindMonth:
		m, ok := monthByName(p.Text)
		if !ok {
			return Range{}, false
		}
		// Bare month defaults to the current year.
		return monthRange(now.Year(), m, now.Location()), true

	case KindYear:
		y, err := strconv.Atoi(p.Text)
		if err != nil {
			return Range{}, false
		}
		start := time.Date(y, 1, 1, 0, 0, 0, 0, now.Location())
		return Range{Start: start, End: endOf(start.AddDate(1, 0, 0))}, true
	}

	// Bare weekday names are recognised but carry no range.
	return Range{}, false
}

func (p Pattern) resolveDay(now time.Time) (time.Time, bool) {
	y, _ := strconv.Atoi(p.year)
	d, _ := strconv.Atoi(p.day)
	m, ok := p.resolveMonth()
	if !ok {
		return time.Time{}, false
	}
	date := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	// time.Date normalises impossible dates (Feb 30 -> Mar 2); reject those.
	if date.Year() != y || date.Month() != m || date.Day() != d {
		return time.Time{}, false
	}
	return date, true
}

func (p Pattern) resolveMonth() (time.Month, bool) {
	if n, err := strconv.Atoi(p.month); err == nil {
		if n < 1 || n > 12 {
			return 0, false
		}
		return time.Month(n), true
	}
	return monthByName(p.month)
}

func monthByName(name string) (time.Month, bool) {
	prefix := strings.ToLower(name)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	for m := time.January; m <= time.December; m++ {
		if strings.ToLower(m.String()[:3]) == prefix {
			return m, true
		}
	}
	return 0, false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOf returns the last representable instant before the given start of a
// following period, making ranges inclusive.
func endOf(nextStart time.Time) time.Time {
	return nextStart.Add(-time.Nanosecond)
}

func dayRange(t time.Time) Range {
	start := startOfDay(t)
	return Range{Start: start, End: endOf(start.AddDate(0, 0, 1))}
}

func monthRange(year int, m time.Month, loc *time.Location) Range {
	start := time.Date(year, m, 1, 0, 0, 0, 0, loc)
	return Range{Start: start, End: endOf(start.AddDate(0, 1, 0))}
}

// startOfWeek returns the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	d := startOfDay(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
