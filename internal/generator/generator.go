// Package generator expands calendar parameters into concrete date sets.
//
// Every generator is a pure function of its params and the caller-supplied
// reference date: no clock access, no I/O. Identical inputs always produce
// identical outputs, which is what keeps plan resolution auditable.
package generator

import (
	"fmt"
	"time"
)

// Result is the outcome of running one generator.
type Result struct {
	Success     bool     `json:"success"`
	Dates       []string `json:"dates"` // YYYY-MM-DD, strictly ascending, unique
	Description string   `json:"description"`
	Error       string   `json:"error,omitempty"`
}

// Generator tool names. Dispatch is a closed enumeration: unknown names are
// rejected at the boundary, never defaulted.
const (
	ToolDateList          = "expand_date_list"
	ToolPeriod            = "expand_period"
	ToolWeeks             = "expand_weeks"
	ToolWorkingDays       = "expand_working_days"
	ToolWeekday           = "expand_weekday"
	ToolWeekdays          = "expand_weekdays"
	ToolDayRange          = "expand_day_range"
	ToolAlternate         = "expand_alternate"
	ToolHalfMonth         = "expand_half_month"
	ToolExcept            = "expand_except"
	ToolWeekEdge          = "expand_week_edge"
	ToolEveryNth          = "expand_every_nth"
	ToolWeekPeriod        = "expand_week_period"
	ToolRestOfMonth       = "expand_rest_of_month"
	ToolWeekends          = "expand_weekends"
	ToolAnchorRange       = "expand_anchor_range"
	ToolHalfMonthExcept   = "expand_half_month_except"
	ToolRangeExcept       = "expand_range_except"
	ToolRangeWeekdays     = "expand_range_weekdays"
	ToolWorkingDaysExcept = "expand_working_days_except"
	ToolOrdinalWeekdays   = "expand_ordinal_weekdays"
	ToolExceptWeeks       = "expand_except_weeks"
	ToolExceptRange       = "expand_except_range"
	ToolRangeAlternate    = "expand_range_alternate"
	ToolDaysFromAnchor    = "expand_days_from_anchor"
	ToolWeekNumbers       = "expand_week_numbers"
)

// Tools lists every known generator name, in dispatch order.
func Tools() []string {
	return []string{
		ToolDateList, ToolPeriod, ToolWeeks, ToolWorkingDays, ToolWeekday,
		ToolWeekdays, ToolDayRange, ToolAlternate, ToolHalfMonth, ToolExcept,
		ToolWeekEdge, ToolEveryNth, ToolWeekPeriod, ToolRestOfMonth,
		ToolWeekends, ToolAnchorRange, ToolHalfMonthExcept, ToolRangeExcept,
		ToolRangeWeekdays, ToolWorkingDaysExcept, ToolOrdinalWeekdays,
		ToolExceptWeeks, ToolExceptRange, ToolRangeAlternate,
		ToolDaysFromAnchor, ToolWeekNumbers,
	}
}

// Known reports whether tool names a registered generator.
func Known(tool string) bool {
	for _, t := range Tools() {
		if t == tool {
			return true
		}
	}
	return false
}

// Run dispatches a tool call to its generator. All failure is returned as
// data; Run never panics on malformed params.
func Run(tool string, params map[string]any, today time.Time) Result {
	if params == nil {
		params = map[string]any{}
	}
	run, ok := registry[tool]
	if !ok {
		return failure(fmt.Errorf("unknown tool: %q", tool))
	}
	return run(params, today)
}

type runFunc func(params map[string]any, today time.Time) Result

var registry = map[string]runFunc{
	ToolDateList:          runDateList,
	ToolPeriod:            runPeriod,
	ToolWeeks:             runWeeks,
	ToolWorkingDays:       runWorkingDays,
	ToolWeekday:           runWeekday,
	ToolWeekdays:          runWeekdays,
	ToolDayRange:          runDayRange,
	ToolAlternate:         runAlternate,
	ToolHalfMonth:         runHalfMonth,
	ToolExcept:            runExcept,
	ToolWeekEdge:          runWeekEdge,
	ToolEveryNth:          runEveryNth,
	ToolWeekPeriod:        runWeekPeriod,
	ToolRestOfMonth:       runRestOfMonth,
	ToolWeekends:          runWeekends,
	ToolAnchorRange:       runAnchorRange,
	ToolHalfMonthExcept:   runHalfMonthExcept,
	ToolRangeExcept:       runRangeExcept,
	ToolRangeWeekdays:     runRangeWeekdays,
	ToolWorkingDaysExcept: runWorkingDaysExcept,
	ToolOrdinalWeekdays:   runOrdinalWeekdays,
	ToolExceptWeeks:       runExceptWeeks,
	ToolExceptRange:       runExceptRange,
	ToolRangeAlternate:    runRangeAlternate,
	ToolDaysFromAnchor:    runDaysFromAnchor,
	ToolWeekNumbers:       runWeekNumbers,
}

func failure(err error) Result {
	return Result{Success: false, Error: err.Error()}
}
