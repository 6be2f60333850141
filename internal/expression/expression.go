// Package expression is the legacy natural-language date resolver. It
// predates the generator registry and survives as the fallback path for
// malformed tool calls: a phrase is matched against a fixed set of patterns
// and re-expressed as a registry call, so both paths share one set of
// calendar semantics.
package expression

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"attendly/internal/constants"
	"attendly/internal/generator"
)

var numberWords = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

func parseCount(s string) (int, error) {
	if n, ok := numberWords[strings.ToLower(s)]; ok {
		return n, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("unrecognized count: %q", s)
	}
	return n, nil
}

func periodOf(word string) string {
	if word == "next" {
		return constants.PeriodNextMonth
	}
	return constants.PeriodThisMonth
}

var (
	rePeriod      = regexp.MustCompile(`^(this|next) month$`)
	reWeeks       = regexp.MustCompile(`^(first|last) (\S+) weeks? of (this|next) month$`)
	reWorkingDays = regexp.MustCompile(`^(first|last) (\S+) working days? of (this|next) month$`)
	reDays        = regexp.MustCompile(`^(first|last) (\S+) days? of (this|next) month$`)
	reWeekdayOf   = regexp.MustCompile(`^every ([a-z]+) of (this|next) month$`)
	reDayRange    = regexp.MustCompile(`^days? (\d+)\s*(?:to|through|-)\s*(\d+)(?: of (this|next) month)?$`)
	reHalf        = regexp.MustCompile(`^(first|second) half of (this|next) month$`)
	reAltWorking  = regexp.MustCompile(`^every other working day(?: of (this|next) month)?$`)
	reAlternate   = regexp.MustCompile(`^every other day(?: of (this|next) month)?$`)
	reExcept      = regexp.MustCompile(`^(this|next) month except ([a-z]+?)s?$`)
	reWeekends    = regexp.MustCompile(`^weekends? of (this|next) month$`)
	reRestOfMonth = regexp.MustCompile(`^rest of (?:the )?month$`)
	reWeekPeriod  = regexp.MustCompile(`^(this|next) week$`)
)

// Resolve parses a natural-language date expression and returns the concrete
// date set, or an error when no pattern matches and no explicit tokens parse.
func Resolve(expr string, today time.Time) ([]string, error) {
	phrase := strings.ToLower(strings.TrimSpace(expr))
	if phrase == "" {
		return nil, fmt.Errorf("empty expression")
	}

	if tool, params, ok := match(phrase); ok {
		result := generator.Run(tool, params, today)
		if !result.Success {
			return nil, fmt.Errorf("expression %q: %s", expr, result.Error)
		}
		return result.Dates, nil
	}

	// Last resort: treat the phrase as a token list ("today, tomorrow and
	// next friday"). Unknown tokens are dropped by the generator; an empty
	// outcome means the expression was not understood.
	tokens := splitTokens(phrase)
	result := generator.Run(generator.ToolDateList, map[string]any{"dates": tokens}, today)
	if !result.Success || len(result.Dates) == 0 {
		return nil, fmt.Errorf("unrecognized expression: %q", expr)
	}
	return result.Dates, nil
}

func match(phrase string) (string, map[string]any, bool) {
	if m := rePeriod.FindStringSubmatch(phrase); m != nil {
		return generator.ToolPeriod, map[string]any{"period": periodOf(m[1])}, true
	}
	if m := reWeeks.FindStringSubmatch(phrase); m != nil {
		count, err := parseCount(m[2])
		if err != nil {
			return "", nil, false
		}
		return generator.ToolWeeks, map[string]any{"period": periodOf(m[3]), "count": count, "position": m[1]}, true
	}
	if m := reWorkingDays.FindStringSubmatch(phrase); m != nil {
		count, err := parseCount(m[2])
		if err != nil {
			return "", nil, false
		}
		return generator.ToolWorkingDays, map[string]any{"period": periodOf(m[3]), "count": count, "position": m[1]}, true
	}
	// "first three days" counts working days; the stricter phrasing above
	// wins when the caller says "working" explicitly.
	if m := reDays.FindStringSubmatch(phrase); m != nil {
		count, err := parseCount(m[2])
		if err != nil {
			return "", nil, false
		}
		return generator.ToolWorkingDays, map[string]any{"period": periodOf(m[3]), "count": count, "position": m[1]}, true
	}
	if m := reWeekdayOf.FindStringSubmatch(phrase); m != nil {
		return generator.ToolWeekday, map[string]any{"period": periodOf(m[2]), "weekday": m[1]}, true
	}
	if m := reDayRange.FindStringSubmatch(phrase); m != nil {
		startDay, _ := strconv.Atoi(m[1])
		endDay, _ := strconv.Atoi(m[2])
		return generator.ToolDayRange, map[string]any{"period": periodOf(m[3]), "start_day": startDay, "end_day": endDay}, true
	}
	if m := reHalf.FindStringSubmatch(phrase); m != nil {
		return generator.ToolHalfMonth, map[string]any{"period": periodOf(m[2]), "half": m[1]}, true
	}
	if m := reAltWorking.FindStringSubmatch(phrase); m != nil {
		return generator.ToolAlternate, map[string]any{"period": periodOf(m[1]), "basis": "working"}, true
	}
	if m := reAlternate.FindStringSubmatch(phrase); m != nil {
		return generator.ToolAlternate, map[string]any{"period": periodOf(m[1]), "basis": "calendar"}, true
	}
	if m := reExcept.FindStringSubmatch(phrase); m != nil {
		return generator.ToolExcept, map[string]any{"period": periodOf(m[1]), "exclude_day": m[2]}, true
	}
	if m := reWeekends.FindStringSubmatch(phrase); m != nil {
		return generator.ToolWeekends, map[string]any{"period": periodOf(m[1])}, true
	}
	if reRestOfMonth.MatchString(phrase) {
		return generator.ToolRestOfMonth, map[string]any{}, true
	}
	if m := reWeekPeriod.FindStringSubmatch(phrase); m != nil {
		week := constants.WeekThisWeek
		if m[1] == "next" {
			week = constants.WeekNextWeek
		}
		return generator.ToolWeekPeriod, map[string]any{"week": week}, true
	}
	return "", nil, false
}

func splitTokens(phrase string) []string {
	replaced := strings.NewReplacer(",", "\n", " and ", "\n").Replace(phrase)
	var tokens []string
	for _, part := range strings.Split(replaced, "\n") {
		if part = strings.TrimSpace(part); part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}
