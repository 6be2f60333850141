package models

type Status string

const (
	StatusOffice Status = "office"
	StatusLeave  Status = "leave"
	// StatusClear only appears in change-sets; it deletes the entry for a
	// date and is never stored.
	StatusClear Status = "clear"
)

// KnownStatus reports whether s is a status the engine understands.
func KnownStatus(s Status) bool {
	switch s {
	case StatusOffice, StatusLeave, StatusClear:
		return true
	default:
		return false
	}
}

const (
	LeaveDurationFull = "full"
	LeaveDurationHalf = "half"
)

const (
	PortionFirstHalf  = "first-half"
	PortionSecondHalf = "second-half"
)

const (
	WorkingPortionWFH    = "wfh"
	WorkingPortionOffice = "office"
)

type ActionType string

const (
	ActionSet   ActionType = "set"
	ActionClear ActionType = "clear"
)
