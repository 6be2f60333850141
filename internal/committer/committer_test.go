package committer

import (
	"fmt"
	"testing"
	"time"

	"attendly/internal/models"
)

type fakeStore struct {
	err     error
	calls   int
	userID  string
	upserts []models.Entry
	deletes []string
}

func (f *fakeStore) ApplyChanges(userID string, upserts []models.Entry, deletes []string) error {
	f.calls++
	f.userID = userID
	f.upserts = upserts
	f.deletes = deletes
	return f.err
}

// Friday; the non-admin window runs 2026-02-01 through 2026-05-21.
var friday = time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

func defaultOpts() Options {
	return Options{Today: friday, UserID: "me"}
}

func TestCommitAppliesBatch(t *testing.T) {
	store := &fakeStore{}
	items := []ChangeItem{
		{Date: "2026-02-23", Status: "office", Note: "sprint start"},
		{Date: "2026-02-24", Status: "leave"},
		{Date: "2026-02-25", Status: "clear"},
	}

	result, err := Commit(items, store, defaultOpts())
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if result.Processed != 3 || result.Failed != 0 {
		t.Errorf("processed=%d failed=%d, want 3/0", result.Processed, result.Failed)
	}
	if store.calls != 1 {
		t.Fatalf("expected one ApplyChanges call, got %d", store.calls)
	}
	if store.userID != "me" {
		t.Errorf("userID = %q", store.userID)
	}
	if len(store.upserts) != 2 {
		t.Fatalf("upserts = %+v", store.upserts)
	}
	if len(store.deletes) != 1 || store.deletes[0] != "2026-02-25" {
		t.Fatalf("deletes = %v", store.deletes)
	}

	first := store.upserts[0]
	if first.ID == "" {
		t.Error("entry should get a generated id")
	}
	if first.UserID != "me" || first.Date != "2026-02-23" || first.Status != models.StatusOffice {
		t.Errorf("entry = %+v", first)
	}
	if first.Note != "sprint start" {
		t.Errorf("note = %q", first.Note)
	}
	if !first.CreatedAt.Equal(friday) || !first.UpdatedAt.Equal(friday) {
		t.Errorf("timestamps should default to the reference date: %+v", first)
	}
}

func TestCommitRejectsPerItem(t *testing.T) {
	tests := []struct {
		name string
		item ChangeItem
	}{
		{"bad date", ChangeItem{Date: "03/02/2026", Status: "office"}},
		{"unknown status", ChangeItem{Date: "2026-02-23", Status: "remote"}},
		{"before window", ChangeItem{Date: "2026-01-15", Status: "office"}},
		{"beyond window", ChangeItem{Date: "2026-06-01", Status: "office"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			good := ChangeItem{Date: "2026-02-23", Status: "office"}
			result, err := Commit([]ChangeItem{tt.item, good}, store, defaultOpts())
			if err != nil {
				t.Fatalf("Commit failed: %v", err)
			}
			if result.Processed != 1 || result.Failed != 1 {
				t.Errorf("processed=%d failed=%d, want 1/1", result.Processed, result.Failed)
			}
			if result.Items[0].OK {
				t.Error("rejected item reported ok")
			}
			if result.Items[0].Message == "" {
				t.Error("rejection should carry a reason")
			}
			if !result.Items[1].OK {
				t.Errorf("good item rejected: %s", result.Items[1].Message)
			}
			// The rejected item must not leak into the batch.
			if len(store.upserts) != 1 {
				t.Errorf("upserts = %+v", store.upserts)
			}
		})
	}
}

func TestCommitAdminBypassesWindow(t *testing.T) {
	store := &fakeStore{}
	opts := defaultOpts()
	opts.IsAdmin = true

	result, err := Commit([]ChangeItem{
		{Date: "2026-01-15", Status: "office"},
		{Date: "2026-06-01", Status: "office"},
	}, store, opts)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if result.Processed != 2 || result.Failed != 0 {
		t.Errorf("processed=%d failed=%d, want 2/0", result.Processed, result.Failed)
	}
}

func TestCommitStorageFailureAbortsEverything(t *testing.T) {
	store := &fakeStore{err: fmt.Errorf("disk full")}
	_, err := Commit([]ChangeItem{{Date: "2026-02-23", Status: "office"}}, store, defaultOpts())
	if err == nil {
		t.Fatal("storage failure must fail the commit")
	}
}

func TestCommitHalfDayFields(t *testing.T) {
	t.Run("half-day leave gets defaults", func(t *testing.T) {
		store := &fakeStore{}
		_, err := Commit([]ChangeItem{
			{Date: "2026-02-23", Status: "leave", LeaveDuration: models.LeaveDurationHalf},
		}, store, defaultOpts())
		if err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		e := store.upserts[0]
		if e.LeaveDuration != models.LeaveDurationHalf {
			t.Errorf("leave duration = %q", e.LeaveDuration)
		}
		if e.HalfDayPortion != models.PortionFirstHalf || e.WorkingPortion != models.WorkingPortionWFH {
			t.Errorf("defaults not applied: %+v", e)
		}
		if !e.IsHalfDayLeave() {
			t.Error("entry should read as half-day leave")
		}
	})

	t.Run("portions are dropped outside half-day leave", func(t *testing.T) {
		store := &fakeStore{}
		_, err := Commit([]ChangeItem{
			{Date: "2026-02-23", Status: "office", LeaveDuration: models.LeaveDurationHalf, HalfDayPortion: models.PortionSecondHalf},
		}, store, defaultOpts())
		if err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		e := store.upserts[0]
		if e.LeaveDuration != "" || e.HalfDayPortion != "" || e.WorkingPortion != "" {
			t.Errorf("stale portions kept: %+v", e)
		}
	})
}

func TestCommitEmptySetSkipsStorage(t *testing.T) {
	store := &fakeStore{}
	result, err := Commit(nil, store, defaultOpts())
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if store.calls != 0 {
		t.Error("empty change-set should not touch storage")
	}
	if result.Processed != 0 || result.Failed != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestCommitRequiresReferenceDate(t *testing.T) {
	if _, err := Commit(nil, &fakeStore{}, Options{UserID: "me"}); err == nil {
		t.Fatal("zero reference date must be rejected")
	}
}

func TestCommitUsesExplicitNow(t *testing.T) {
	store := &fakeStore{}
	opts := defaultOpts()
	opts.Now = time.Date(2026, 2, 20, 14, 30, 0, 0, time.UTC)

	_, err := Commit([]ChangeItem{{Date: "2026-02-23", Status: "office"}}, store, opts)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if !store.upserts[0].CreatedAt.Equal(opts.Now) {
		t.Errorf("CreatedAt = %v, want %v", store.upserts[0].CreatedAt, opts.Now)
	}
}
