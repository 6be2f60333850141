package dates

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"attendly/internal/constants"
)

// Parse parses a date string (YYYY-MM-DD) into a UTC midnight time.
func Parse(dateStr string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", dateStr, err)
	}
	return t, nil
}

// Format renders a time as a canonical date string.
func Format(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// FormatAll renders a slice of times as sorted, deduplicated date strings.
func FormatAll(ts []time.Time) []string {
	seen := make(map[string]bool, len(ts))
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		s := Format(t)
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// IsWeekend reports whether the date falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// MonthStart returns midnight on the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthEnd returns midnight on the last day of t's month.
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, -1)
}

// ResolvePeriod resolves a period keyword against the supplied reference
// date. All relative vocabulary resolves here, never against the wall clock.
func ResolvePeriod(period string, today time.Time) (start, end time.Time, err error) {
	switch period {
	case constants.PeriodThisMonth, "":
		return MonthStart(today), MonthEnd(today), nil
	case constants.PeriodNextMonth:
		next := MonthStart(today).AddDate(0, 1, 0)
		return next, MonthEnd(next), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown period: %q", period)
	}
}

// ResolveWeek resolves this_week/next_week to a Monday..Friday range anchored
// to the reference date's week.
func ResolveWeek(week string, today time.Time) (start, end time.Time, err error) {
	monday := today
	for monday.Weekday() != time.Monday {
		monday = monday.AddDate(0, 0, -1)
	}
	switch week {
	case constants.WeekThisWeek:
		return monday, monday.AddDate(0, 0, 4), nil
	case constants.WeekNextWeek:
		next := monday.AddDate(0, 0, 7)
		return next, next.AddDate(0, 0, 4), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown week: %q", week)
	}
}

// DaysIn returns every calendar date in [start, end] inclusive.
func DaysIn(start, end time.Time) []time.Time {
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// WeekdaysIn returns every Monday..Friday date in [start, end] inclusive.
func WeekdaysIn(start, end time.Time) []time.Time {
	var days []time.Time
	for _, d := range DaysIn(start, end) {
		if !IsWeekend(d) {
			days = append(days, d)
		}
	}
	return days
}

var weekdayNames = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thur":      time.Thursday,
	"thurs":     time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

// ParseWeekday parses a weekday name ("monday", "mon") or a number
// (0=Sunday, 6=Saturday) into a time.Weekday.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.TrimSpace(strings.ToLower(s))
	if wd, ok := weekdayNames[name]; ok {
		return wd, nil
	}
	num, err := strconv.Atoi(name)
	if err == nil && num >= 0 && num <= 6 {
		return time.Weekday(num), nil
	}
	return 0, fmt.Errorf("invalid weekday: %s", s)
}

// ParseWeekdays parses a list of weekday names into a set.
func ParseWeekdays(names []string) (map[time.Weekday]bool, error) {
	set := make(map[time.Weekday]bool, len(names))
	for _, n := range names {
		wd, err := ParseWeekday(n)
		if err != nil {
			return nil, err
		}
		set[wd] = true
	}
	return set, nil
}

// ParseToken resolves a single natural date token (an ISO date, "today",
// "tomorrow", or "next <weekday>") against the reference date. Unknown
// tokens report ok=false so the caller can drop them rather than guess.
func ParseToken(token string, today time.Time) (time.Time, bool) {
	tok := strings.TrimSpace(strings.ToLower(token))
	switch {
	case tok == "":
		return time.Time{}, false
	case tok == "today":
		return today, true
	case tok == "tomorrow":
		return today.AddDate(0, 0, 1), true
	case strings.HasPrefix(tok, "next "):
		wd, err := ParseWeekday(strings.TrimPrefix(tok, "next "))
		if err != nil {
			return time.Time{}, false
		}
		d := today.AddDate(0, 0, 1)
		for d.Weekday() != wd {
			d = d.AddDate(0, 0, 1)
		}
		return d, true
	}
	if t, err := Parse(token); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// NthWeekday returns the nth occurrence (1-based; negative counts from the
// end, -1 = last) of a weekday within [start, end].
func NthWeekday(start, end time.Time, wd time.Weekday, n int) (time.Time, error) {
	var matches []time.Time
	for _, d := range DaysIn(start, end) {
		if d.Weekday() == wd {
			matches = append(matches, d)
		}
	}
	if n == 0 || len(matches) == 0 {
		return time.Time{}, fmt.Errorf("no occurrence %d of %s in range", n, wd)
	}
	idx := n - 1
	if n < 0 {
		idx = len(matches) + n
	}
	if idx < 0 || idx >= len(matches) {
		return time.Time{}, fmt.Errorf("no occurrence %d of %s in range", n, wd)
	}
	return matches[idx], nil
}

// WeekOfMonth returns the 1-based week chunk a day number belongs to, where
// weeks are consecutive 7-day chunks counted from day 1.
func WeekOfMonth(day int) int {
	return (day-1)/7 + 1
}

// WeekCount returns how many 7-day chunks the month spans.
func WeekCount(monthLen int) int {
	return (monthLen + 6) / 7
}

// NormalizeWeekIndex maps a possibly-negative week index (-1 = last) onto a
// 1-based chunk number, or 0 when the index is out of range.
func NormalizeWeekIndex(idx, weekCount int) int {
	if idx < 0 {
		idx = weekCount + idx + 1
	}
	if idx < 1 || idx > weekCount {
		return 0
	}
	return idx
}
