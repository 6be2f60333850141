package constants

const (
	// DateFormat is the canonical calendar-date layout used across the engine.
	DateFormat = "2006-01-02"

	// DayNameFormat renders a full weekday name for resolved changes.
	DayNameFormat = "Monday"

	// EditWindowDays is how far past today a non-admin may modify entries.
	EditWindowDays = 90
)

const (
	PeriodThisMonth = "this_month"
	PeriodNextMonth = "next_month"

	WeekThisWeek = "this_week"
	WeekNextWeek = "next_week"

	PositionFirst = "first"
	PositionLast  = "last"

	HalfFirst  = "first"
	HalfSecond = "second"
)
