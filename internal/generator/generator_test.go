package generator

import (
	"testing"
	"time"

	"attendly/internal/dates"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := dates.Parse(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func assertDates(t *testing.T, got Result, want []string) {
	t.Helper()
	if !got.Success {
		t.Fatalf("generator failed: %s", got.Error)
	}
	if len(got.Dates) != len(want) {
		t.Fatalf("got %d dates %v, want %d %v", len(got.Dates), got.Dates, len(want), want)
	}
	for i := range want {
		if got.Dates[i] != want[i] {
			t.Errorf("dates[%d] = %q, want %q", i, got.Dates[i], want[i])
		}
	}
}

// March 2026 starts on a Sunday: Mondays are 2, 9, 16, 23, 30 and Fridays
// are 6, 13, 20, 27. The month has 22 working days.

func TestRunBaseGenerators(t *testing.T) {
	wednesday := day(t, "2026-02-25")

	tests := []struct {
		name   string
		tool   string
		params map[string]any
		today  time.Time
		want   []string
	}{
		{
			name:   "explicit date list drops unknown tokens",
			tool:   ToolDateList,
			params: map[string]any{"dates": []any{"2026-03-02", "today", "next friday", "gibberish"}},
			today:  wednesday,
			want:   []string{"2026-02-25", "2026-02-27", "2026-03-02"},
		},
		{
			name:   "first two weeks of next month",
			tool:   ToolWeeks,
			params: map[string]any{"period": "next_month", "count": 2, "position": "first"},
			today:  wednesday,
			want: []string{
				"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05", "2026-03-06",
				"2026-03-09", "2026-03-10", "2026-03-11", "2026-03-12", "2026-03-13",
			},
		},
		{
			name:   "first ten working days of next month",
			tool:   ToolWorkingDays,
			params: map[string]any{"period": "next_month", "count": 10, "position": "first"},
			today:  wednesday,
			want: []string{
				"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05", "2026-03-06",
				"2026-03-09", "2026-03-10", "2026-03-11", "2026-03-12", "2026-03-13",
			},
		},
		{
			name:   "last three working days of this month",
			tool:   ToolWorkingDays,
			params: map[string]any{"count": 3, "position": "last"},
			today:  wednesday,
			want:   []string{"2026-02-25", "2026-02-26", "2026-02-27"},
		},
		{
			name:   "every friday of next month",
			tool:   ToolWeekday,
			params: map[string]any{"period": "next_month", "weekday": "friday"},
			today:  wednesday,
			want:   []string{"2026-03-06", "2026-03-13", "2026-03-20", "2026-03-27"},
		},
		{
			name:   "mondays and wednesdays",
			tool:   ToolWeekdays,
			params: map[string]any{"period": "next_month", "weekdays": []any{"monday", "wednesday"}},
			today:  wednesday,
			want: []string{
				"2026-03-02", "2026-03-04", "2026-03-09", "2026-03-11",
				"2026-03-16", "2026-03-18", "2026-03-23", "2026-03-25",
				"2026-03-30",
			},
		},
		{
			name:   "day range clamps past month end",
			tool:   ToolDayRange,
			params: map[string]any{"start_day": 25, "end_day": 40},
			today:  wednesday, // February has 28 days; 28th is a Saturday
			want:   []string{"2026-02-25", "2026-02-26", "2026-02-27"},
		},
		{
			name:   "alternate calendar days",
			tool:   ToolAlternate,
			params: map[string]any{"period": "next_month", "basis": "calendar"},
			today:  wednesday,
			want: []string{
				"2026-03-03", "2026-03-05", "2026-03-09", "2026-03-11", "2026-03-13",
				"2026-03-17", "2026-03-19", "2026-03-23", "2026-03-25", "2026-03-27",
				"2026-03-31",
			},
		},
		{
			name:   "alternate working days",
			tool:   ToolAlternate,
			params: map[string]any{"period": "next_month", "basis": "working"},
			today:  wednesday,
			want: []string{
				"2026-03-02", "2026-03-04", "2026-03-06", "2026-03-10", "2026-03-12",
				"2026-03-16", "2026-03-18", "2026-03-20", "2026-03-24", "2026-03-26",
				"2026-03-30",
			},
		},
		{
			name:   "first half of next month",
			tool:   ToolHalfMonth,
			params: map[string]any{"period": "next_month", "half": "first"},
			today:  wednesday,
			want: []string{
				"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05", "2026-03-06",
				"2026-03-09", "2026-03-10", "2026-03-11", "2026-03-12", "2026-03-13",
			},
		},
		{
			name:   "first working day of each week",
			tool:   ToolWeekEdge,
			params: map[string]any{"period": "next_month", "position": "first"},
			today:  wednesday,
			want:   []string{"2026-03-02", "2026-03-09", "2026-03-16", "2026-03-23", "2026-03-30"},
		},
		{
			name:   "every seventh day from day two",
			tool:   ToolEveryNth,
			params: map[string]any{"period": "next_month", "n": 7, "start_day": 2},
			today:  wednesday,
			want:   []string{"2026-03-02", "2026-03-09", "2026-03-16", "2026-03-23", "2026-03-30"},
		},
		{
			name:   "next week",
			tool:   ToolWeekPeriod,
			params: map[string]any{"week": "next_week"},
			today:  wednesday,
			want:   []string{"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05", "2026-03-06"},
		},
		{
			name:   "rest of month starts tomorrow",
			tool:   ToolRestOfMonth,
			params: map[string]any{},
			today:  day(t, "2026-03-25"),
			want:   []string{"2026-03-26", "2026-03-27", "2026-03-30", "2026-03-31"},
		},
		{
			name:   "weekends keep saturdays and sundays",
			tool:   ToolWeekends,
			params: map[string]any{"period": "next_month"},
			today:  wednesday,
			want: []string{
				"2026-03-01", "2026-03-07", "2026-03-08", "2026-03-14", "2026-03-15",
				"2026-03-21", "2026-03-22", "2026-03-28", "2026-03-29",
			},
		},
		{
			name:   "working days after the second friday",
			tool:   ToolAnchorRange,
			params: map[string]any{"period": "next_month", "weekday": "friday", "occurrence": 2, "direction": "after"},
			today:  wednesday,
			want: []string{
				"2026-03-16", "2026-03-17", "2026-03-18", "2026-03-19", "2026-03-20",
				"2026-03-23", "2026-03-24", "2026-03-25", "2026-03-26", "2026-03-27",
				"2026-03-30", "2026-03-31",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDates(t, Run(tt.tool, tt.params, tt.today), tt.want)
		})
	}
}

func TestRunFailures(t *testing.T) {
	today := day(t, "2026-02-25")

	tests := []struct {
		name   string
		tool   string
		params map[string]any
	}{
		{"unknown tool", "expand_nonsense", map[string]any{}},
		{"missing required count", ToolWeeks, map[string]any{"period": "next_month"}},
		{"non-integer count", ToolWeeks, map[string]any{"count": 1.5, "position": "first"}},
		{"negative count", ToolWorkingDays, map[string]any{"count": -1}},
		{"bad position", ToolWorkingDays, map[string]any{"count": 2, "position": "middle"}},
		{"bad weekday", ToolWeekday, map[string]any{"weekday": "someday"}},
		{"bad period", ToolPeriod, map[string]any{"period": "last_month"}},
		{"reversed day range", ToolDayRange, map[string]any{"start_day": 20, "end_day": 5}},
		{"bad half", ToolHalfMonth, map[string]any{"half": "third"}},
		{"bad basis", ToolAlternate, map[string]any{"basis": "lunar"}},
		{"params wrong shape", ToolDateList, map[string]any{"dates": "2026-03-02"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Run(tt.tool, tt.params, today)
			if result.Success {
				t.Fatalf("expected failure, got dates %v", result.Dates)
			}
			if result.Error == "" {
				t.Error("failure result should carry an error message")
			}
		})
	}
}

func TestRunNilParams(t *testing.T) {
	result := Run(ToolPeriod, nil, day(t, "2026-03-10"))
	if !result.Success {
		t.Fatalf("nil params should default, got: %s", result.Error)
	}
	if len(result.Dates) != 22 {
		t.Errorf("March 2026 has 22 working days, got %d", len(result.Dates))
	}
}

func TestOutputInvariants(t *testing.T) {
	today := day(t, "2026-02-25")

	// Exercise every registered generator with params that succeed, then
	// check the shared output contract.
	calls := map[string]map[string]any{
		ToolDateList:          {"dates": []any{"2026-03-09", "2026-03-02", "2026-03-02"}},
		ToolPeriod:            {"period": "next_month"},
		ToolWeeks:             {"period": "next_month", "count": 2, "position": "first"},
		ToolWorkingDays:       {"period": "next_month", "count": 5, "position": "last"},
		ToolWeekday:           {"period": "next_month", "weekday": "friday"},
		ToolWeekdays:          {"period": "next_month", "weekdays": []any{"monday", "friday"}},
		ToolDayRange:          {"period": "next_month", "start_day": 5, "end_day": 15},
		ToolAlternate:         {"period": "next_month", "basis": "working"},
		ToolHalfMonth:         {"period": "next_month", "half": "second"},
		ToolExcept:            {"period": "next_month", "exclude_day": "friday"},
		ToolWeekEdge:          {"period": "next_month", "position": "last"},
		ToolEveryNth:          {"period": "next_month", "n": 3},
		ToolWeekPeriod:        {"week": "this_week"},
		ToolRestOfMonth:       {},
		ToolAnchorRange:       {"period": "next_month", "weekday": "monday", "direction": "after"},
		ToolHalfMonthExcept:   {"period": "next_month", "half": "first", "exclude_day": "friday"},
		ToolRangeExcept:       {"period": "next_month", "start_day": 1, "end_day": 14, "exclude_days": []any{"friday"}},
		ToolRangeWeekdays:     {"period": "next_month", "start_day": 1, "end_day": 15, "weekdays": []any{"monday", "wednesday"}},
		ToolWorkingDaysExcept: {"period": "next_month", "count": 5, "position": "first", "exclude_days": []any{"monday"}},
		ToolOrdinalWeekdays:   {"period": "next_month", "selections": []any{map[string]any{"weekday": "monday", "occurrence": 1}}},
		ToolExceptWeeks:       {"period": "next_month", "exclude_weeks": []any{2}},
		ToolExceptRange:       {"period": "next_month", "start_day": 10, "end_day": 20},
		ToolRangeAlternate:    {"period": "next_month", "start_day": 1, "end_day": 10, "basis": "calendar"},
		ToolDaysFromAnchor:    {"period": "next_month", "weekday": "monday", "count": 3, "direction": "after"},
		ToolWeekNumbers:       {"period": "next_month", "weeks": []any{1, -1}},
	}
	weekendAware := map[string]bool{ToolWeekends: true}

	for _, tool := range Tools() {
		params, ok := calls[tool]
		if !ok {
			if !weekendAware[tool] {
				t.Errorf("no invariant coverage for %s", tool)
			}
			continue
		}
		t.Run(tool, func(t *testing.T) {
			result := Run(tool, params, today)
			if !result.Success {
				t.Fatalf("generator failed: %s", result.Error)
			}
			seen := map[string]bool{}
			for i, s := range result.Dates {
				d, err := dates.Parse(s)
				if err != nil {
					t.Fatalf("non-canonical date %q: %v", s, err)
				}
				if seen[s] {
					t.Errorf("duplicate date %s", s)
				}
				seen[s] = true
				if i > 0 && result.Dates[i-1] >= s {
					t.Errorf("dates not strictly ascending at %d: %s >= %s", i, result.Dates[i-1], s)
				}
				if dates.IsWeekend(d) {
					t.Errorf("%s produced weekend date %s", tool, s)
				}
			}
		})
	}
}

func TestEmptyResultIsSuccessWithEmptySlice(t *testing.T) {
	// Rest of month on the last day of the month is empty, not a failure.
	result := Run(ToolRestOfMonth, nil, day(t, "2026-03-31"))
	if !result.Success {
		t.Fatalf("expected success: %s", result.Error)
	}
	if result.Dates == nil {
		t.Error("dates should be an empty slice, not nil")
	}
	if len(result.Dates) != 0 {
		t.Errorf("expected no dates, got %v", result.Dates)
	}
}

func TestKnown(t *testing.T) {
	for _, tool := range Tools() {
		if !Known(tool) {
			t.Errorf("Known(%q) = false", tool)
		}
	}
	if Known("expand_nonsense") {
		t.Error("Known should reject unregistered names")
	}
}
