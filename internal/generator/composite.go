package generator

import (
	"fmt"
	"time"

	"attendly/internal/constants"
	"attendly/internal/dates"
)

// Composite generators. Each one is exactly a base generator plus a filter
// the modifier pipeline could also express; they exist so the upstream
// proposer can answer common compound phrasings with a single tool call
// instead of a fragile two-stage pipeline. Because they are built by
// composing the same base expansion with the same filters, the equivalence
// with the base+modifier decomposition holds by construction.

func excludeWeekdaySet(days []time.Time, set map[time.Weekday]bool) []time.Time {
	var out []time.Time
	for _, d := range days {
		if !set[d.Weekday()] {
			out = append(out, d)
		}
	}
	return out
}

func runHalfMonthExcept(params map[string]any, today time.Time) Result {
	period, err := stringParam(params, "period", constants.PeriodThisMonth)
	if err != nil {
		return failure(err)
	}
	half, err := requiredStringParam(params, "half")
	if err != nil {
		return failure(err)
	}
	name, err := requiredStringParam(params, "exclude_day")
	if err != nil {
		return failure(err)
	}
	wd, err := dates.ParseWeekday(name)
	if err != nil {
		return failure(err)
	}
	start, _, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	days, err := halfMonth(start, half)
	if err != nil {
		return failure(err)
	}
	days = excludeWeekdaySet(weekdayFilter(days), map[time.Weekday]bool{wd: true})
	return success(days, fmt.Sprintf("%s half of %s except %ss", half, period, name))
}

func runRangeExcept(params map[string]any, today time.Time) Result {
	period, err := stringParam(params, "period", constants.PeriodThisMonth)
	if err != nil {
		return failure(err)
	}
	startDay, err := requiredIntParam(params, "start_day")
	if err != nil {
		return failure(err)
	}
	endDay, err := requiredIntParam(params, "end_day")
	if err != nil {
		return failure(err)
	}
	names, err := stringListParam(params, "exclude_days")
	if err != nil {
		return failure(err)
	}
	if startDay > endDay {
		return failure(fmt.Errorf("start_day %d is after end_day %d", startDay, endDay))
	}
	set, err := dates.ParseWeekdays(names)
	if err != nil {
		return failure(err)
	}
	start, _, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	days := excludeWeekdaySet(weekdayFilter(dayRange(start, startDay, endDay)), set)
	return success(days, fmt.Sprintf("days %d-%d of %s excluding named weekdays", startDay, endDay, period))
}

func runRangeWeekdays(params map[string]any, today time.Time) Result {
	period, err := stringParam(params, "period", constants.PeriodThisMonth)
	if err != nil {
		return failure(err)
	}
	startDay, err := requiredIntParam(params, "start_day")
	if err != nil {
		return failure(err)
	}
	endDay, err := requiredIntParam(params, "end_day")
	if err != nil {
		return failure(err)
	}
	names, err := stringListParam(params, "weekdays")
	if err != nil {
		return failure(err)
	}
	if startDay > endDay {
		return failure(fmt.Errorf("start_day %d is after end_day %d", startDay, endDay))
	}
	if len(names) == 0 {
		return failure(fmt.Errorf("param \"weekdays\" is required"))
	}
	set, err := dates.ParseWeekdays(names)
	if err != nil {
		return failure(err)
	}
	start, _, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	var days []time.Time
	for _, d := range weekdayFilter(dayRange(start, startDay, endDay)) {
		if set[d.Weekday()] {
			days = append(days, d)
		}
	}
	return success(days, fmt.Sprintf("days %d-%d of %s restricted to named weekdays", startDay, endDay, period))
}

func runWorkingDaysExcept(params map[string]any, today time.Time) Result {
	period, err := stringParam(params, "period", constants.PeriodThisMonth)
	if err != nil {
		return failure(err)
	}
	count, err := requiredIntParam(params, "count")
	if err != nil {
		return failure(err)
	}
	pos, err := positionParam(params)
	if err != nil {
		return failure(err)
	}
	names, err := stringListParam(params, "exclude_days")
	if err != nil {
		return failure(err)
	}
	if count < 1 {
		return failure(fmt.Errorf("param \"count\" must be positive"))
	}
	set, err := dates.ParseWeekdays(names)
	if err != nil {
		return failure(err)
	}
	start, end, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	// Exclusion happens before counting: the caller asked for N days, none
	// of which may fall on an excluded weekday.
	pool := excludeWeekdaySet(dates.WeekdaysIn(start, end), set)
	days := takeEdge(pool, count, pos)
	return success(days, fmt.Sprintf("%s %d working day(s) of %s excluding named weekdays", pos, count, period))
}

func runOrdinalWeekdays(params map[string]any, today time.Time) Result {
	period, err := stringParam(params, "period", constants.PeriodThisMonth)
	if err != nil {
		return failure(err)
	}
	raw, ok := params["selections"]
	if !ok {
		return failure(fmt.Errorf("param \"selections\" is required"))
	}
	list, ok := raw.([]any)
	if !ok {
		return failure(fmt.Errorf("param \"selections\" must be a list of objects"))
	}
	start, end, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	var days []time.Time
	for _, item := range list {
		sel, ok := item.(map[string]any)
		if !ok {
			return failure(fmt.Errorf("param \"selections\" must be a list of objects"))
		}
		name, err := requiredStringParam(sel, "weekday")
		if err != nil {
			return failure(err)
		}
		occurrence, err := intParam(sel, "occurrence", 1)
		if err != nil {
			return failure(err)
		}
		wd, err := dates.ParseWeekday(name)
		if err != nil {
			return failure(err)
		}
		d, err := dates.NthWeekday(start, end, wd, occurrence)
		if err != nil {
			// Occurrences that do not exist in the month are dropped,
			// matching how unknown explicit tokens are handled.
			continue
		}
		days = append(days, d)
	}
	return success(weekdayFilter(days), fmt.Sprintf("ordinal weekday set in %s", period))
}

func runExceptWeeks(params map[string]any, today time.Time) Result {
	period, err := stringParam(params, "period", constants.PeriodThisMonth)
	if err != nil {
		return failure(err)
	}
	weeks, err := intListParam(params, "exclude_weeks")
	if err != nil {
		return failure(err)
	}
	if len(weeks) == 0 {
		return failure(fmt.Errorf("param \"exclude_weeks\" is required"))
	}
	start, end, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	excluded := normalizeWeekSet(weeks, monthLen(start))
	var days []time.Time
	for _, d := range dates.WeekdaysIn(start, end) {
		if !excluded[dates.WeekOfMonth(d.Day())] {
			days = append(days, d)
		}
	}
	return success(days, fmt.Sprintf("%s except week(s) %v", period, weeks))
}

// normalizeWeekSet resolves possibly-negative week indices (-1 = last week)
// into a set of 1-based 7-day chunk numbers; out-of-range indices are ignored.
func normalizeWeekSet(weeks []int, length int) map[int]bool {
	count := dates.WeekCount(length)
	set := make(map[int]bool, len(weeks))
	for _, w := range weeks {
		if n := dates.NormalizeWeekIndex(w, count); n != 0 {
			set[n] = true
		}
	}
	return set
}

func runExceptRange(params map[string]any, today time.Time) Result {
	period, err := stringParam(params, "period", constants.PeriodThisMonth)
	if err != nil {
		return failure(err)
	}
	startDay, err := requiredIntParam(params, "start_day")
	if err != nil {
		return failure(err)
	}
	endDay, err := requiredIntParam(params, "end_day")
	if err != nil {
		return failure(err)
	}
	if startDay > endDay {
		return failure(fmt.Errorf("start_day %d is after end_day %d", startDay, endDay))
	}
	start, end, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	var days []time.Time
	for _, d := range dates.WeekdaysIn(start, end) {
		if d.Day() >= startDay && d.Day() <= endDay {
			continue
		}
		days = append(days, d)
	}
	return success(days, fmt.Sprintf("%s except days %d-%d", period, startDay, endDay))
}

func runRangeAlternate(params map[string]any, today time.Time) Result {
	period, err := stringParam(params, "period", constants.PeriodThisMonth)
	if err != nil {
		return failure(err)
	}
	startDay, err := requiredIntParam(params, "start_day")
	if err != nil {
		return failure(err)
	}
	endDay, err := requiredIntParam(params, "end_day")
	if err != nil {
		return failure(err)
	}
	basis, err := stringParam(params, "basis", "calendar")
	if err != nil {
		return failure(err)
	}
	if startDay > endDay {
		return failure(fmt.Errorf("start_day %d is after end_day %d", startDay, endDay))
	}
	start, _, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	days, err := alternate(dayRange(start, startDay, endDay), basis)
	if err != nil {
		return failure(err)
	}
	return success(days, fmt.Sprintf("every other %s day in days %d-%d of %s", basis, startDay, endDay, period))
}

func runDaysFromAnchor(params map[string]any, today time.Time) Result {
	period, err := stringParam(params, "period", constants.PeriodThisMonth)
	if err != nil {
		return failure(err)
	}
	name, err := requiredStringParam(params, "weekday")
	if err != nil {
		return failure(err)
	}
	occurrence, err := intParam(params, "occurrence", 1)
	if err != nil {
		return failure(err)
	}
	count, err := requiredIntParam(params, "count")
	if err != nil {
		return failure(err)
	}
	direction, err := stringParam(params, "direction", "after")
	if err != nil {
		return failure(err)
	}
	if count < 1 {
		return failure(fmt.Errorf("param \"count\" must be positive"))
	}
	wd, err := dates.ParseWeekday(name)
	if err != nil {
		return failure(err)
	}
	start, end, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	anchor, err := dates.NthWeekday(start, end, wd, occurrence)
	if err != nil {
		return failure(err)
	}
	var days []time.Time
	switch direction {
	case "after":
		days = takeEdge(dates.WeekdaysIn(anchor, end), count, constants.PositionFirst)
	case "before":
		days = takeEdge(dates.WeekdaysIn(start, anchor), count, constants.PositionLast)
	default:
		return failure(fmt.Errorf("param \"direction\" must be \"before\" or \"after\""))
	}
	return success(days, fmt.Sprintf("%d working day(s) %s the %s anchor in %s", count, direction, name, period))
}

func runWeekNumbers(params map[string]any, today time.Time) Result {
	period, err := stringParam(params, "period", constants.PeriodThisMonth)
	if err != nil {
		return failure(err)
	}
	weeks, err := intListParam(params, "weeks")
	if err != nil {
		return failure(err)
	}
	if len(weeks) == 0 {
		return failure(fmt.Errorf("param \"weeks\" is required"))
	}
	start, end, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	wanted := normalizeWeekSet(weeks, monthLen(start))
	var days []time.Time
	for _, d := range dates.WeekdaysIn(start, end) {
		if wanted[dates.WeekOfMonth(d.Day())] {
			days = append(days, d)
		}
	}
	return success(days, fmt.Sprintf("week(s) %v of %s", weeks, period))
}
