package expression

import (
	"fmt"
	"strings"

	"attendly/internal/constants"
)

// Synthesize rebuilds a natural-language expression from a tool call's
// params. It is the bridge of the fallback chain: when a proposed tool call
// cannot be dispatched, the params are re-phrased and pushed through Resolve
// so a near-miss proposal still lands on the same calendar semantics. The
// result is best-effort; an empty string means nothing could be synthesized.
func Synthesize(tool string, params map[string]any) string {
	period := phrasePeriod(str(params, "period"))

	if tokens := strs(params, "dates"); len(tokens) > 0 {
		return strings.Join(tokens, ", ")
	}
	if count, ok := num(params, "count"); ok {
		pos := str(params, "position")
		if pos == "" {
			pos = constants.PositionFirst
		}
		if strings.Contains(tool, "week") {
			return fmt.Sprintf("%s %d weeks of %s", pos, count, period)
		}
		return fmt.Sprintf("%s %d working days of %s", pos, count, period)
	}
	if startDay, ok := num(params, "start_day"); ok {
		if endDay, ok := num(params, "end_day"); ok {
			return fmt.Sprintf("days %d to %d of %s", startDay, endDay, period)
		}
	}
	if half := str(params, "half"); half != "" {
		return fmt.Sprintf("%s half of %s", half, period)
	}
	if wd := str(params, "weekday"); wd != "" {
		return fmt.Sprintf("every %s of %s", wd, period)
	}
	if wd := str(params, "exclude_day"); wd != "" {
		return fmt.Sprintf("%s except %ss", period, wd)
	}
	if week := str(params, "week"); week != "" {
		return strings.ReplaceAll(week, "_", " ")
	}
	if strings.Contains(tool, "weekend") {
		return fmt.Sprintf("weekends of %s", period)
	}
	if strings.Contains(tool, "rest") {
		return "rest of month"
	}
	if str(params, "period") != "" {
		return period
	}
	return ""
}

func phrasePeriod(period string) string {
	if period == constants.PeriodNextMonth {
		return "next month"
	}
	return "this month"
}

func str(params map[string]any, key string) string {
	if s, ok := params[key].(string); ok {
		return s
	}
	return ""
}

func strs(params map[string]any, key string) []string {
	switch list := params[key].(type) {
	case []string:
		return list
	case []any:
		var out []string
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func num(params map[string]any, key string) (int, bool) {
	switch n := params[key].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
