package generator

import (
	"fmt"
	"strings"
	"time"

	"attendly/internal/constants"
	"attendly/internal/dates"
)

// Base generators. Each resolves its period against the supplied reference
// date, expands calendar days, and weekday-filters unless the family is
// explicitly weekend-aware (expand_weekends).

func success(days []time.Time, description string) Result {
	out := dates.FormatAll(days)
	if out == nil {
		out = []string{}
	}
	return Result{Success: true, Dates: out, Description: description}
}

func weekdayFilter(days []time.Time) []time.Time {
	var out []time.Time
	for _, d := range days {
		if !dates.IsWeekend(d) {
			out = append(out, d)
		}
	}
	return out
}

func clampDay(day, monthLen int) int {
	if day < 1 {
		return 1
	}
	if day > monthLen {
		return monthLen
	}
	return day
}

func monthLen(start time.Time) int {
	return dates.MonthEnd(start).Day()
}

func runDateList(params map[string]any, today time.Time) Result {
	tokens, err := stringListParam(params, "dates")
	if err != nil {
		return failure(err)
	}
	if len(tokens) == 0 {
		return failure(fmt.Errorf("param \"dates\" is required"))
	}
	var days []time.Time
	for _, tok := range tokens {
		// Unknown tokens are dropped, never guessed.
		if d, ok := dates.ParseToken(tok, today); ok {
			days = append(days, d)
		}
	}
	return success(weekdayFilter(days), "explicit dates")
}

func runPeriod(params map[string]any, today time.Time) Result {
	period, err := stringParam(params, "period", constants.PeriodThisMonth)
	if err != nil {
		return failure(err)
	}
	start, end, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	return success(dates.WeekdaysIn(start, end), fmt.Sprintf("all weekdays of %s", period))
}

func runWeeks(params map[string]any, today time.Time) Result {
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
	if count < 1 {
		return failure(fmt.Errorf("param \"count\" must be positive"))
	}
	start, end, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	days := weeksSlice(start, end, count, pos)
	return success(weekdayFilter(days), fmt.Sprintf("%s %d week(s) of %s", pos, count, period))
}

// weeksSlice takes 7*count calendar days from either edge of the period.
func weeksSlice(start, end time.Time, count int, pos string) []time.Time {
	span := count * 7
	if pos == constants.PositionLast {
		lo := end.AddDate(0, 0, -(span - 1))
		if lo.Before(start) {
			lo = start
		}
		return dates.DaysIn(lo, end)
	}
	hi := start.AddDate(0, 0, span-1)
	if hi.After(end) {
		hi = end
	}
	return dates.DaysIn(start, hi)
}

func runWorkingDays(params map[string]any, today time.Time) Result {
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
	if count < 1 {
		return failure(fmt.Errorf("param \"count\" must be positive"))
	}
	start, end, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	days := takeEdge(dates.WeekdaysIn(start, end), count, pos)
	return success(days, fmt.Sprintf("%s %d working day(s) of %s", pos, count, period))
}

// takeEdge keeps the first or last n elements of an already-ordered slice.
func takeEdge(days []time.Time, n int, pos string) []time.Time {
	if n >= len(days) {
		return days
	}
	if pos == constants.PositionLast {
		return days[len(days)-n:]
	}
	return days[:n]
}

func runWeekday(params map[string]any, today time.Time) Result {
	period, err := stringParam(params, "period", constants.PeriodThisMonth)
	if err != nil {
		return failure(err)
	}
	name, err := requiredStringParam(params, "weekday")
	if err != nil {
		return failure(err)
	}
	wd, err := dates.ParseWeekday(name)
	if err != nil {
		return failure(err)
	}
	start, end, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	var days []time.Time
	for _, d := range dates.WeekdaysIn(start, end) {
		if d.Weekday() == wd {
			days = append(days, d)
		}
	}
	return success(days, fmt.Sprintf("every %s of %s", strings.ToLower(wd.String()), period))
}

func runWeekdays(params map[string]any, today time.Time) Result {
	period, err := stringParam(params, "period", constants.PeriodThisMonth)
	if err != nil {
		return failure(err)
	}
	names, err := stringListParam(params, "weekdays")
	if err != nil {
		return failure(err)
	}
	if len(names) == 0 {
		return failure(fmt.Errorf("param \"weekdays\" is required"))
	}
	set, err := dates.ParseWeekdays(names)
	if err != nil {
		return failure(err)
	}
	start, end, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	var days []time.Time
	for _, d := range dates.WeekdaysIn(start, end) {
		if set[d.Weekday()] {
			days = append(days, d)
		}
	}
	return success(days, fmt.Sprintf("every %s of %s", strings.Join(names, ", "), period))
}

func runDayRange(params map[string]any, today time.Time) Result {
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
	start, _, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	days := dayRange(start, startDay, endDay)
	return success(weekdayFilter(days), fmt.Sprintf("days %d-%d of %s", startDay, endDay, period))
}

// dayRange returns the calendar days numbered [startDay, endDay] of the month
// beginning at start, clamped to the month length.
func dayRange(start time.Time, startDay, endDay int) []time.Time {
	length := monthLen(start)
	lo := clampDay(startDay, length)
	hi := clampDay(endDay, length)
	return dates.DaysIn(start.AddDate(0, 0, lo-1), start.AddDate(0, 0, hi-1))
}

func runAlternate(params map[string]any, today time.Time) Result {
	period, err := stringParam(params, "period", constants.PeriodThisMonth)
	if err != nil {
		return failure(err)
	}
	basis, err := stringParam(params, "basis", "calendar")
	if err != nil {
		return failure(err)
	}
	start, end, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	days, err := alternate(dates.DaysIn(start, end), basis)
	if err != nil {
		return failure(err)
	}
	return success(days, fmt.Sprintf("every other %s day of %s", basis, period))
}

// alternate toggles over the supplied day sequence, always starting "on".
// Calendar basis toggles over all days then weekday-filters; working basis
// toggles over the weekday sequence itself.
func alternate(all []time.Time, basis string) ([]time.Time, error) {
	switch basis {
	case "calendar":
		var picked []time.Time
		for i, d := range all {
			if i%2 == 0 {
				picked = append(picked, d)
			}
		}
		return weekdayFilter(picked), nil
	case "working":
		var picked []time.Time
		on := true
		for _, d := range all {
			if dates.IsWeekend(d) {
				continue
			}
			if on {
				picked = append(picked, d)
			}
			on = !on
		}
		return picked, nil
	default:
		return nil, fmt.Errorf("param \"basis\" must be \"calendar\" or \"working\"")
	}
}

func runHalfMonth(params map[string]any, today time.Time) Result {
	period, err := stringParam(params, "period", constants.PeriodThisMonth)
	if err != nil {
		return failure(err)
	}
	half, err := requiredStringParam(params, "half")
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
	return success(weekdayFilter(days), fmt.Sprintf("%s half of %s", half, period))
}

func halfMonth(start time.Time, half string) ([]time.Time, error) {
	switch half {
	case constants.HalfFirst:
		return dayRange(start, 1, 15), nil
	case constants.HalfSecond:
		return dayRange(start, 16, monthLen(start)), nil
	default:
		return nil, fmt.Errorf("param \"half\" must be %q or %q", constants.HalfFirst, constants.HalfSecond)
	}
}

func runExcept(params map[string]any, today time.Time) Result {
	period, err := stringParam(params, "period", constants.PeriodThisMonth)
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
	start, end, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	var days []time.Time
	for _, d := range dates.WeekdaysIn(start, end) {
		if d.Weekday() != wd {
			days = append(days, d)
		}
	}
	return success(days, fmt.Sprintf("%s except %ss", period, strings.ToLower(wd.String())))
}

func runWeekEdge(params map[string]any, today time.Time) Result {
	period, err := stringParam(params, "period", constants.PeriodThisMonth)
	if err != nil {
		return failure(err)
	}
	pos, err := positionParam(params)
	if err != nil {
		return failure(err)
	}
	start, end, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	return success(weekEdges(start, end, pos), fmt.Sprintf("%s weekday of each week of %s", pos, period))
}

// weekEdges picks one date per Monday-Sunday calendar week overlapping the
// period: its first or last weekday inside the period. Partial edge weeks
// still contribute when they contain a weekday.
func weekEdges(start, end time.Time, pos string) []time.Time {
	weekStart := start
	for weekStart.Weekday() != time.Monday {
		weekStart = weekStart.AddDate(0, 0, -1)
	}
	var picked []time.Time
	for ; !weekStart.After(end); weekStart = weekStart.AddDate(0, 0, 7) {
		lo, hi := weekStart, weekStart.AddDate(0, 0, 6)
		if lo.Before(start) {
			lo = start
		}
		if hi.After(end) {
			hi = end
		}
		weekdays := dates.WeekdaysIn(lo, hi)
		if len(weekdays) == 0 {
			continue
		}
		if pos == constants.PositionLast {
			picked = append(picked, weekdays[len(weekdays)-1])
		} else {
			picked = append(picked, weekdays[0])
		}
	}
	return picked
}

func runEveryNth(params map[string]any, today time.Time) Result {
	period, err := stringParam(params, "period", constants.PeriodThisMonth)
	if err != nil {
		return failure(err)
	}
	n, err := requiredIntParam(params, "n")
	if err != nil {
		return failure(err)
	}
	startDay, err := intParam(params, "start_day", 1)
	if err != nil {
		return failure(err)
	}
	if n < 1 {
		return failure(fmt.Errorf("param \"n\" must be positive"))
	}
	start, _, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	length := monthLen(start)
	if startDay < 1 || startDay > length {
		return failure(fmt.Errorf("start_day %d is outside the month", startDay))
	}
	var days []time.Time
	for day := startDay; day <= length; day += n {
		days = append(days, start.AddDate(0, 0, day-1))
	}
	return success(weekdayFilter(days), fmt.Sprintf("every %d day(s) of %s from day %d", n, period, startDay))
}

func runWeekPeriod(params map[string]any, today time.Time) Result {
	week, err := requiredStringParam(params, "week")
	if err != nil {
		return failure(err)
	}
	start, end, err := dates.ResolveWeek(week, today)
	if err != nil {
		return failure(err)
	}
	return success(dates.WeekdaysIn(start, end), week)
}

func runRestOfMonth(params map[string]any, today time.Time) Result {
	start := today.AddDate(0, 0, 1)
	end := dates.MonthEnd(today)
	if start.After(end) {
		return success(nil, "rest of month")
	}
	return success(dates.WeekdaysIn(start, end), "rest of month")
}

func runWeekends(params map[string]any, today time.Time) Result {
	period, err := stringParam(params, "period", constants.PeriodThisMonth)
	if err != nil {
		return failure(err)
	}
	start, end, err := dates.ResolvePeriod(period, today)
	if err != nil {
		return failure(err)
	}
	var days []time.Time
	for _, d := range dates.DaysIn(start, end) {
		if dates.IsWeekend(d) {
			days = append(days, d)
		}
	}
	return success(days, fmt.Sprintf("weekends of %s", period))
}

func runAnchorRange(params map[string]any, today time.Time) Result {
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
	direction, err := requiredStringParam(params, "direction")
	if err != nil {
		return failure(err)
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
		days = dates.WeekdaysIn(anchor.AddDate(0, 0, 1), end)
	case "before":
		days = dates.WeekdaysIn(start, anchor.AddDate(0, 0, -1))
	case "between":
		endName, err := requiredStringParam(params, "end_weekday")
		if err != nil {
			return failure(err)
		}
		endOcc, err := intParam(params, "end_occurrence", 1)
		if err != nil {
			return failure(err)
		}
		endWd, err := dates.ParseWeekday(endName)
		if err != nil {
			return failure(err)
		}
		second, err := dates.NthWeekday(start, end, endWd, endOcc)
		if err != nil {
			return failure(err)
		}
		if second.Before(anchor) {
			return failure(fmt.Errorf("between range is reversed"))
		}
		days = dates.WeekdaysIn(anchor, second)
	default:
		return failure(fmt.Errorf("param \"direction\" must be \"before\", \"after\" or \"between\""))
	}
	return success(days, fmt.Sprintf("%s occurrence %d of %s, direction %s", name, occurrence, period, direction))
}
