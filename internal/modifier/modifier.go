// Package modifier reduces a generated date set. Every modifier is monotonic
// non-increasing: its output is a subset of its input, so a pipeline can only
// narrow what the generator produced.
package modifier

import (
	"fmt"
	"time"

	"attendly/internal/constants"
	"attendly/internal/dates"
)

// Modifier is one filter stage attached to a plan action.
type Modifier struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params"`
}

// Modifier kinds.
const (
	KindExcludeDates       = "exclude_dates"
	KindExcludeWeekdays    = "exclude_weekdays"
	KindExcludeDayRange    = "exclude_day_range"
	KindExcludeWeeks       = "exclude_weeks"
	KindExcludeWorkingDays = "exclude_working_days"
	KindExcludeHolidays    = "exclude_holidays"
	KindKeepWeekdays       = "keep_weekdays"
	KindKeepDayRange       = "keep_day_range"
	KindKeepWeekdaySlice   = "keep_weekday_slice"
)

// Context carries the request-scoped facts a modifier may consult.
type Context struct {
	Today    time.Time
	Holidays map[string]bool // date string -> present
}

// Apply runs a single modifier over the date set. The input slice is never
// mutated; dates stay in ascending order because filtering preserves order.
func Apply(dateSet []string, m Modifier, ctx Context) ([]string, error) {
	params := m.Params
	if params == nil {
		params = map[string]any{}
	}
	switch m.Type {
	case KindExcludeDates:
		return excludeDates(dateSet, params, ctx)
	case KindExcludeWeekdays:
		return filterByWeekday(dateSet, params, "weekdays", false)
	case KindExcludeDayRange:
		return filterByDayRange(dateSet, params, false)
	case KindExcludeWeeks:
		return excludeWeeks(dateSet, params)
	case KindExcludeWorkingDays:
		return excludeWorkingDays(dateSet, params)
	case KindExcludeHolidays:
		return excludeHolidays(dateSet, ctx)
	case KindKeepWeekdays:
		return filterByWeekday(dateSet, params, "weekdays", true)
	case KindKeepDayRange:
		return filterByDayRange(dateSet, params, true)
	case KindKeepWeekdaySlice:
		return keepWeekdaySlice(dateSet, params)
	default:
		return nil, fmt.Errorf("unknown modifier: %q", m.Type)
	}
}

func excludeDates(dateSet []string, params map[string]any, ctx Context) ([]string, error) {
	tokens, err := stringList(params, "dates")
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("param \"dates\" is required")
	}
	drop := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		if d, ok := dates.ParseToken(tok, ctx.Today); ok {
			drop[dates.Format(d)] = true
		}
	}
	var out []string
	for _, d := range dateSet {
		if !drop[d] {
			out = append(out, d)
		}
	}
	return out, nil
}

func filterByWeekday(dateSet []string, params map[string]any, key string, keep bool) ([]string, error) {
	names, err := stringList(params, key)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("param %q is required", key)
	}
	set, err := dates.ParseWeekdays(names)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, s := range dateSet {
		d, err := dates.Parse(s)
		if err != nil {
			return nil, err
		}
		if set[d.Weekday()] == keep {
			out = append(out, s)
		}
	}
	return out, nil
}

func filterByDayRange(dateSet []string, params map[string]any, keep bool) ([]string, error) {
	startDay, err := intField(params, "start_day")
	if err != nil {
		return nil, err
	}
	endDay, err := intField(params, "end_day")
	if err != nil {
		return nil, err
	}
	if startDay > endDay {
		return nil, fmt.Errorf("start_day %d is after end_day %d", startDay, endDay)
	}
	var out []string
	for _, s := range dateSet {
		d, err := dates.Parse(s)
		if err != nil {
			return nil, err
		}
		in := d.Day() >= startDay && d.Day() <= endDay
		if in == keep {
			out = append(out, s)
		}
	}
	return out, nil
}

func excludeWeeks(dateSet []string, params map[string]any) ([]string, error) {
	weeks, err := intList(params, "weeks")
	if err != nil {
		return nil, err
	}
	if len(weeks) == 0 {
		return nil, fmt.Errorf("param \"weeks\" is required")
	}
	var out []string
	for _, s := range dateSet {
		d, err := dates.Parse(s)
		if err != nil {
			return nil, err
		}
		length := dates.MonthEnd(d).Day()
		count := dates.WeekCount(length)
		dropped := false
		for _, w := range weeks {
			if n := dates.NormalizeWeekIndex(w, count); n != 0 && n == dates.WeekOfMonth(d.Day()) {
				dropped = true
				break
			}
		}
		if !dropped {
			out = append(out, s)
		}
	}
	return out, nil
}

func excludeWorkingDays(dateSet []string, params map[string]any) ([]string, error) {
	count, err := intField(params, "count")
	if err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, fmt.Errorf("param \"count\" must be positive")
	}
	pos, err := stringField(params, "position", constants.PositionFirst)
	if err != nil {
		return nil, err
	}
	if pos != constants.PositionFirst && pos != constants.PositionLast {
		return nil, fmt.Errorf("param \"position\" must be %q or %q", constants.PositionFirst, constants.PositionLast)
	}

	// Collect the working-day indices to drop from the chosen edge.
	var workingIdx []int
	for i, s := range dateSet {
		d, err := dates.Parse(s)
		if err != nil {
			return nil, err
		}
		if !dates.IsWeekend(d) {
			workingIdx = append(workingIdx, i)
		}
	}
	drop := make(map[int]bool, count)
	if pos == constants.PositionLast {
		for i := len(workingIdx) - 1; i >= 0 && len(drop) < count; i-- {
			drop[workingIdx[i]] = true
		}
	} else {
		for i := 0; i < len(workingIdx) && len(drop) < count; i++ {
			drop[workingIdx[i]] = true
		}
	}
	var out []string
	for i, s := range dateSet {
		if !drop[i] {
			out = append(out, s)
		}
	}
	return out, nil
}

func excludeHolidays(dateSet []string, ctx Context) ([]string, error) {
	if ctx.Holidays == nil {
		return nil, fmt.Errorf("holiday set is not available")
	}
	var out []string
	for _, d := range dateSet {
		if !ctx.Holidays[d] {
			out = append(out, d)
		}
	}
	return out, nil
}

// keepWeekdaySlice keeps a positional slice of weekdays per ISO week, e.g.
// "first two weekdays of every week".
func keepWeekdaySlice(dateSet []string, params map[string]any) ([]string, error) {
	count, err := intField(params, "count")
	if err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, fmt.Errorf("param \"count\" must be positive")
	}
	pos, err := stringField(params, "position", constants.PositionFirst)
	if err != nil {
		return nil, err
	}
	if pos != constants.PositionFirst && pos != constants.PositionLast {
		return nil, fmt.Errorf("param \"position\" must be %q or %q", constants.PositionFirst, constants.PositionLast)
	}

	type weekKey struct{ year, week int }
	byWeek := make(map[weekKey][]string)
	var order []weekKey
	for _, s := range dateSet {
		d, err := dates.Parse(s)
		if err != nil {
			return nil, err
		}
		if dates.IsWeekend(d) {
			continue
		}
		y, w := d.ISOWeek()
		k := weekKey{y, w}
		if _, seen := byWeek[k]; !seen {
			order = append(order, k)
		}
		byWeek[k] = append(byWeek[k], s)
	}
	var out []string
	for _, k := range order {
		week := byWeek[k]
		if count >= len(week) {
			out = append(out, week...)
		} else if pos == constants.PositionLast {
			out = append(out, week[len(week)-count:]...)
		} else {
			out = append(out, week[:count]...)
		}
	}
	return out, nil
}
