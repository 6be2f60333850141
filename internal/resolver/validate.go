package resolver

import (
	"fmt"
	"time"

	"attendly/internal/constants"
	"attendly/internal/dates"
	"attendly/internal/models"
	"attendly/internal/plan"
)

// EditWindow returns the range of dates a non-admin caller may modify: from
// the first day of the reference month through EditWindowDays forward.
// Administrators bypass the window entirely.
func EditWindow(today time.Time) (start, end time.Time) {
	return dates.MonthStart(today), today.AddDate(0, 0, constants.EditWindowDays)
}

// resolveDate applies the per-date filters and validity classification for
// one (action, date) pair. include=false means the date was filtered out
// entirely (status filter or reference condition); classification failures
// keep the date in the output, marked invalid with a distinct reason.
func (r *Resolver) resolveDate(
	date string,
	action plan.Action,
	opts Options,
	holidays map[string]bool,
	ownEntries map[string]models.Entry,
	refEntries map[string]map[string]bool,
) (ResolvedChange, bool) {
	if !statusFilterMatches(action.FilterByCurrentStatus, date, ownEntries) {
		return ResolvedChange{}, false
	}
	if !referenceConditionMatches(action, date, refEntries) {
		return ResolvedChange{}, false
	}

	change := ResolvedChange{
		Date:   date,
		Status: changeStatus(action),
		Note:   action.Note,
	}

	d, err := dates.Parse(date)
	if err != nil {
		change.ValidationMessage = fmt.Sprintf("invalid date: %v", err)
		return change, true
	}
	change.Day = d.Format(constants.DayNameFormat)

	// Half-day fields ride along only on half-day leave, with documented
	// defaults when the proposal omits them.
	if change.Status == models.StatusLeave && action.LeaveDuration == models.LeaveDurationHalf {
		change.LeaveDuration = models.LeaveDurationHalf
		change.HalfDayPortion = action.HalfDayPortion
		if change.HalfDayPortion == "" {
			change.HalfDayPortion = models.PortionFirstHalf
		}
		change.WorkingPortion = action.WorkingPortion
		if change.WorkingPortion == "" {
			change.WorkingPortion = models.WorkingPortionWFH
		}
	}

	if valid, reason := ClassifyDate(d, opts, holidays); !valid {
		change.ValidationMessage = reason
		return change, true
	}

	change.Valid = true
	return change, true
}

// ClassifyDate decides whether a date is actionable for the caller. Each
// failure mode carries its own reason so the client can explain the
// rejection per date.
func ClassifyDate(d time.Time, opts Options, holidays map[string]bool) (bool, string) {
	if dates.IsWeekend(d) {
		return false, fmt.Sprintf("%s falls on a weekend", dates.Format(d))
	}
	if holidays[dates.Format(d)] {
		return false, fmt.Sprintf("%s is a holiday", dates.Format(d))
	}
	if opts.IsAdmin {
		return true, ""
	}
	start, end := EditWindow(opts.Today)
	if d.Before(start) {
		return false, fmt.Sprintf("%s is before the editable window starting %s", dates.Format(d), dates.Format(start))
	}
	if d.After(end) {
		return false, fmt.Sprintf("%s is beyond the editable window ending %s", dates.Format(d), dates.Format(end))
	}
	return true, ""
}

func changeStatus(action plan.Action) models.Status {
	if action.Type == models.ActionClear {
		return models.StatusClear
	}
	return action.Status
}

// statusFilterMatches checks filterByCurrentStatus against the caller's
// existing entry for the date; "wfh" means no entry exists.
func statusFilterMatches(filter, date string, ownEntries map[string]models.Entry) bool {
	if filter == "" {
		return true
	}
	entry, exists := ownEntries[date]
	if filter == models.WorkingPortionWFH {
		return !exists
	}
	return exists && entry.Status == models.Status(filter)
}

// referenceConditionMatches checks the third-party presence filter:
// "present" requires the reference user to have an office entry on the date,
// "absent" the opposite. An unresolvable reference user has an empty office
// set and therefore reads as absent everywhere.
func referenceConditionMatches(action plan.Action, date string, refEntries map[string]map[string]bool) bool {
	if action.ReferenceUser == "" {
		return true
	}
	office := refEntries[action.ReferenceUser][date]
	if action.ReferenceCondition == "absent" {
		return !office
	}
	return office
}
