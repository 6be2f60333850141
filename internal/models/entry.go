package models

import "time"

// Entry represents one user's attendance record for a single day
type Entry struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Date          string     `json:"date"` // YYYY-MM-DD format
	Status        Status     `json:"status"`
	Note          string     `json:"note,omitempty"`
	LeaveDuration string     `json:"leave_duration,omitempty"`
	HalfDayPortion string    `json:"half_day_portion,omitempty"`
	WorkingPortion string    `json:"working_portion,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

// IsHalfDayLeave reports whether the entry is a half-day leave, which is the
// only case where the half-day fields are meaningful.
func (e Entry) IsHalfDayLeave() bool {
	return e.Status == StatusLeave && e.LeaveDuration == LeaveDurationHalf
}

// Holiday represents a company holiday on which entries are not expected
type Holiday struct {
	Date string `json:"date" yaml:"date"` // YYYY-MM-DD format
	Name string `json:"name" yaml:"name"`
}

// User represents a tracked person in the directory
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
