// Package committer applies a user-approved change-set as one atomic batch.
package committer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"attendly/internal/dates"
	"attendly/internal/logger"
	"attendly/internal/models"
	"attendly/internal/resolver"
)

// Store is the single write surface the committer needs: every upsert and
// delete in one call either all apply or none do.
type Store interface {
	ApplyChanges(userID string, upserts []models.Entry, deletes []string) error
}

// ChangeItem is one approved change as re-submitted by the client.
type ChangeItem struct {
	Date           string `json:"date"`
	Status         string `json:"status"`
	Note           string `json:"note,omitempty"`
	LeaveDuration  string `json:"leave_duration,omitempty"`
	HalfDayPortion string `json:"half_day_portion,omitempty"`
	WorkingPortion string `json:"working_portion,omitempty"`
}

// ItemResult reports the outcome for one change item.
type ItemResult struct {
	Date    string `json:"date"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Result summarizes a commit: business-rule rejections are per-item, a
// storage failure aborts everything.
type Result struct {
	Processed int          `json:"processed"`
	Failed    int          `json:"failed"`
	Items     []ItemResult `json:"items"`
}

// Options carries caller identity and the reference date for the window
// re-check.
type Options struct {
	Today   time.Time
	UserID  string
	IsAdmin bool
	Now     time.Time // entry timestamps; defaults to Today when zero
}

// Commit re-validates each item and applies the accepted subset as one
// transaction. The change-set was already filtered to valid==true by the
// caller; re-validation here defends against a stale or tampered list.
func Commit(items []ChangeItem, store Store, opts Options) (Result, error) {
	if opts.Today.IsZero() {
		return Result{}, fmt.Errorf("reference date is required")
	}
	now := opts.Now
	if now.IsZero() {
		now = opts.Today
	}

	result := Result{Items: make([]ItemResult, 0, len(items))}
	var upserts []models.Entry
	var deletes []string

	for _, item := range items {
		if msg, ok := validateItem(item, opts); !ok {
			result.Failed++
			result.Items = append(result.Items, ItemResult{Date: item.Date, Message: msg})
			continue
		}
		if models.Status(item.Status) == models.StatusClear {
			deletes = append(deletes, item.Date)
		} else {
			upserts = append(upserts, buildEntry(item, opts.UserID, now))
		}
		result.Processed++
		result.Items = append(result.Items, ItemResult{Date: item.Date, OK: true})
	}

	if len(upserts) > 0 || len(deletes) > 0 {
		if err := store.ApplyChanges(opts.UserID, upserts, deletes); err != nil {
			// Storage failures are all-or-nothing: the transaction aborted,
			// so nothing above was applied.
			return Result{}, fmt.Errorf("apply changes: %w", err)
		}
	}

	logger.Info("change-set committed",
		"user", opts.UserID,
		"processed", result.Processed,
		"failed", result.Failed,
	)
	return result, nil
}

// validateItem re-checks date format, status, and the authorization window.
func validateItem(item ChangeItem, opts Options) (string, bool) {
	d, err := dates.Parse(item.Date)
	if err != nil {
		return fmt.Sprintf("invalid date: %v", err), false
	}
	if !models.KnownStatus(models.Status(item.Status)) {
		return fmt.Sprintf("unrecognized status: %q", item.Status), false
	}
	if !opts.IsAdmin {
		start, end := resolver.EditWindow(opts.Today)
		if d.Before(start) {
			return fmt.Sprintf("%s is before the editable window starting %s", item.Date, dates.Format(start)), false
		}
		if d.After(end) {
			return fmt.Sprintf("%s is beyond the editable window ending %s", item.Date, dates.Format(end)), false
		}
	}
	return "", true
}

func buildEntry(item ChangeItem, userID string, now time.Time) models.Entry {
	entry := models.Entry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Date:      item.Date,
		Status:    models.Status(item.Status),
		Note:      item.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// Half-day fields are stored only for half-day leave; anything else is
	// explicitly unset so a re-used date cannot keep stale portions.
	if entry.Status == models.StatusLeave && item.LeaveDuration == models.LeaveDurationHalf {
		entry.LeaveDuration = models.LeaveDurationHalf
		entry.HalfDayPortion = item.HalfDayPortion
		if entry.HalfDayPortion == "" {
			entry.HalfDayPortion = models.PortionFirstHalf
		}
		entry.WorkingPortion = item.WorkingPortion
		if entry.WorkingPortion == "" {
			entry.WorkingPortion = models.WorkingPortionWFH
		}
	}
	return entry
}
