package dates

import (
	"testing"
	"time"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", s, err)
	}
	return d
}

func TestParseRejectsBadFormats(t *testing.T) {
	bad := []string{"", "2026/03/02", "02-03-2026", "2026-13-01", "march 2"}
	for _, s := range bad {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) should have failed", s)
		}
	}
	if _, err := Parse("2026-03-02"); err != nil {
		t.Errorf("Parse rejected a valid date: %v", err)
	}
}

func TestFormatAllSortsAndDedupes(t *testing.T) {
	in := []time.Time{
		mustParse(t, "2026-03-09"),
		mustParse(t, "2026-03-02"),
		mustParse(t, "2026-03-09"),
	}
	got := FormatAll(in)
	want := []string{"2026-03-02", "2026-03-09"}
	if len(got) != len(want) {
		t.Fatalf("FormatAll returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FormatAll[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolvePeriod(t *testing.T) {
	today := mustParse(t, "2026-02-25") // Wednesday

	tests := []struct {
		period     string
		wantStart  string
		wantEnd    string
		shouldFail bool
	}{
		{"this_month", "2026-02-01", "2026-02-28", false},
		{"next_month", "2026-03-01", "2026-03-31", false},
		{"", "2026-02-01", "2026-02-28", false}, // empty defaults to this_month
		{"last_month", "", "", true},
	}
	for _, tt := range tests {
		start, end, err := ResolvePeriod(tt.period, today)
		if tt.shouldFail {
			if err == nil {
				t.Errorf("ResolvePeriod(%q) should have failed", tt.period)
			}
			continue
		}
		if err != nil {
			t.Errorf("ResolvePeriod(%q) failed: %v", tt.period, err)
			continue
		}
		if Format(start) != tt.wantStart || Format(end) != tt.wantEnd {
			t.Errorf("ResolvePeriod(%q) = %s..%s, want %s..%s",
				tt.period, Format(start), Format(end), tt.wantStart, tt.wantEnd)
		}
	}
}

func TestResolveWeekAnchorsToMonday(t *testing.T) {
	today := mustParse(t, "2026-02-25") // Wednesday

	start, end, err := ResolveWeek("this_week", today)
	if err != nil {
		t.Fatalf("ResolveWeek failed: %v", err)
	}
	if Format(start) != "2026-02-23" || Format(end) != "2026-02-27" {
		t.Errorf("this_week = %s..%s, want 2026-02-23..2026-02-27", Format(start), Format(end))
	}

	start, end, err = ResolveWeek("next_week", today)
	if err != nil {
		t.Fatalf("ResolveWeek failed: %v", err)
	}
	if Format(start) != "2026-03-02" || Format(end) != "2026-03-06" {
		t.Errorf("next_week = %s..%s, want 2026-03-02..2026-03-06", Format(start), Format(end))
	}

	if _, _, err := ResolveWeek("last_week", today); err == nil {
		t.Error("ResolveWeek should reject unknown week keywords")
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in   string
		want time.Weekday
		ok   bool
	}{
		{"monday", time.Monday, true},
		{"Mon", time.Monday, true},
		{"  FRIDAY ", time.Friday, true},
		{"tues", time.Tuesday, true},
		{"0", time.Sunday, true},
		{"6", time.Saturday, true},
		{"7", 0, false},
		{"someday", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseWeekday(tt.in)
		if tt.ok != (err == nil) {
			t.Errorf("ParseWeekday(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseWeekday(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseToken(t *testing.T) {
	today := mustParse(t, "2026-02-25") // Wednesday

	tests := []struct {
		token string
		want  string
		ok    bool
	}{
		{"2026-03-02", "2026-03-02", true},
		{"today", "2026-02-25", true},
		{"tomorrow", "2026-02-26", true},
		{"next friday", "2026-02-27", true},
		{"next wednesday", "2026-03-04", true}, // strictly after today
		{"someday", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseToken(tt.token, today)
		if ok != tt.ok {
			t.Errorf("ParseToken(%q) ok = %v, want %v", tt.token, ok, tt.ok)
			continue
		}
		if ok && Format(got) != tt.want {
			t.Errorf("ParseToken(%q) = %s, want %s", tt.token, Format(got), tt.want)
		}
	}
}

func TestNthWeekday(t *testing.T) {
	start := mustParse(t, "2026-03-01")
	end := mustParse(t, "2026-03-31")

	tests := []struct {
		wd   time.Weekday
		n    int
		want string
		ok   bool
	}{
		{time.Friday, 1, "2026-03-06", true},
		{time.Friday, 2, "2026-03-13", true},
		{time.Friday, -1, "2026-03-27", true},
		{time.Monday, 5, "2026-03-30", true},
		{time.Friday, 5, "", false}, // only four Fridays in March 2026
		{time.Friday, 0, "", false},
	}
	for _, tt := range tests {
		got, err := NthWeekday(start, end, tt.wd, tt.n)
		if tt.ok != (err == nil) {
			t.Errorf("NthWeekday(%v, %d) error = %v, want ok=%v", tt.wd, tt.n, err, tt.ok)
			continue
		}
		if tt.ok && Format(got) != tt.want {
			t.Errorf("NthWeekday(%v, %d) = %s, want %s", tt.wd, tt.n, Format(got), tt.want)
		}
	}
}

func TestWeekChunkHelpers(t *testing.T) {
	if got := WeekOfMonth(1); got != 1 {
		t.Errorf("WeekOfMonth(1) = %d, want 1", got)
	}
	if got := WeekOfMonth(7); got != 1 {
		t.Errorf("WeekOfMonth(7) = %d, want 1", got)
	}
	if got := WeekOfMonth(8); got != 2 {
		t.Errorf("WeekOfMonth(8) = %d, want 2", got)
	}
	if got := WeekCount(31); got != 5 {
		t.Errorf("WeekCount(31) = %d, want 5", got)
	}
	if got := WeekCount(28); got != 4 {
		t.Errorf("WeekCount(28) = %d, want 4", got)
	}
	if got := NormalizeWeekIndex(-1, 5); got != 5 {
		t.Errorf("NormalizeWeekIndex(-1, 5) = %d, want 5", got)
	}
	if got := NormalizeWeekIndex(2, 5); got != 2 {
		t.Errorf("NormalizeWeekIndex(2, 5) = %d, want 2", got)
	}
	if got := NormalizeWeekIndex(6, 5); got != 0 {
		t.Errorf("NormalizeWeekIndex(6, 5) = %d, want 0", got)
	}
	if got := NormalizeWeekIndex(-6, 5); got != 0 {
		t.Errorf("NormalizeWeekIndex(-6, 5) = %d, want 0", got)
	}
}
