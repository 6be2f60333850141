package storage

import (
	"path/filepath"
	"testing"
	"time"

	"attendly/internal/models"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "attendly.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testEntry(userID, date string, status models.Status) models.Entry {
	now := time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)
	return models.Entry{
		ID:        userID + "-" + date,
		UserID:    userID,
		Date:      date,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSQLiteLoadBeforeInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Fatal("Load on an uninitialized path should fail")
	}
}

func TestSQLiteApplyChangesAndQuery(t *testing.T) {
	store := newTestSQLite(t)

	err := store.ApplyChanges("me", []models.Entry{
		testEntry("me", "2026-02-23", models.StatusOffice),
		testEntry("me", "2026-02-24", models.StatusLeave),
	}, nil)
	if err != nil {
		t.Fatalf("ApplyChanges failed: %v", err)
	}

	entries, err := store.EntriesByUserAndDates("me", []string{"2026-02-23", "2026-02-24", "2026-02-25"})
	if err != nil {
		t.Fatalf("EntriesByUserAndDates failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(entries), entries)
	}
	if entries[0].Date != "2026-02-23" || entries[0].Status != models.StatusOffice {
		t.Errorf("first entry = %+v", entries[0])
	}

	// Empty date set short-circuits without a query.
	entries, err = store.EntriesByUserAndDates("me", nil)
	if err != nil || entries != nil {
		t.Errorf("empty lookup = %v, %v", entries, err)
	}
}

func TestSQLiteUpsertReplacesSameDate(t *testing.T) {
	store := newTestSQLite(t)

	if err := store.ApplyChanges("me", []models.Entry{testEntry("me", "2026-02-23", models.StatusOffice)}, nil); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	replacement := testEntry("me", "2026-02-23", models.StatusLeave)
	replacement.ID = "replacement-id"
	if err := store.ApplyChanges("me", []models.Entry{replacement}, nil); err != nil {
		t.Fatalf("second apply failed: %v", err)
	}

	entry, err := store.GetEntry("me", "2026-02-23")
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if entry.Status != models.StatusLeave || entry.ID != "replacement-id" {
		t.Errorf("entry was not replaced: %+v", entry)
	}

	entries, err := store.EntriesByUserAndDates("me", []string{"2026-02-23"})
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("duplicate rows for one (user, date): %+v", entries)
	}
}

func TestSQLiteApplyChangesDeletes(t *testing.T) {
	store := newTestSQLite(t)

	if err := store.ApplyChanges("me", []models.Entry{
		testEntry("me", "2026-02-23", models.StatusOffice),
		testEntry("me", "2026-02-24", models.StatusOffice),
	}, nil); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	// One batch can mix deletes and upserts.
	if err := store.ApplyChanges("me", []models.Entry{
		testEntry("me", "2026-02-25", models.StatusLeave),
	}, []string{"2026-02-23"}); err != nil {
		t.Fatalf("mixed batch failed: %v", err)
	}

	if _, err := store.GetEntry("me", "2026-02-23"); err == nil {
		t.Error("deleted entry still present")
	}
	if _, err := store.GetEntry("me", "2026-02-24"); err != nil {
		t.Errorf("untouched entry lost: %v", err)
	}
	if _, err := store.GetEntry("me", "2026-02-25"); err != nil {
		t.Errorf("upserted entry missing: %v", err)
	}
}

func TestSQLiteEntriesAreScopedByUser(t *testing.T) {
	store := newTestSQLite(t)

	if err := store.ApplyChanges("me", []models.Entry{testEntry("me", "2026-02-23", models.StatusOffice)}, nil); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if err := store.ApplyChanges("them", []models.Entry{testEntry("them", "2026-02-23", models.StatusLeave)}, nil); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	entries, err := store.EntriesByUserAndDates("me", []string{"2026-02-23"})
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Status != models.StatusOffice {
		t.Errorf("cross-user leak: %+v", entries)
	}

	all, err := store.EntriesByRange("2026-02-01", "2026-02-28")
	if err != nil {
		t.Fatalf("range lookup failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("range should span users: %+v", all)
	}
}

func TestSQLiteHolidays(t *testing.T) {
	store := newTestSQLite(t)

	if err := store.AddHoliday(models.Holiday{Date: "2026-03-04", Name: "Founders Day"}); err != nil {
		t.Fatalf("AddHoliday failed: %v", err)
	}
	if err := store.AddHoliday(models.Holiday{Date: "2026-01-01", Name: "New Year"}); err != nil {
		t.Fatalf("AddHoliday failed: %v", err)
	}
	// Re-adding the same date overwrites instead of duplicating.
	if err := store.AddHoliday(models.Holiday{Date: "2026-03-04", Name: "Founders Day (observed)"}); err != nil {
		t.Fatalf("AddHoliday failed: %v", err)
	}

	holidays, err := store.Holidays()
	if err != nil {
		t.Fatalf("Holidays failed: %v", err)
	}
	if len(holidays) != 2 {
		t.Fatalf("got %d holidays, want 2: %+v", len(holidays), holidays)
	}
	if holidays[0].Date != "2026-01-01" {
		t.Errorf("holidays not ordered by date: %+v", holidays)
	}
	if holidays[1].Name != "Founders Day (observed)" {
		t.Errorf("overwrite lost: %+v", holidays[1])
	}
}

func TestSQLiteUsers(t *testing.T) {
	store := newTestSQLite(t)

	now := time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)
	if err := store.AddUser(models.User{ID: "u1", Name: "Priya Sharma", IsAdmin: true, CreatedAt: now}); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}
	if err := store.AddUser(models.User{ID: "u2", Name: "Alex Chen", CreatedAt: now}); err != nil {
		t.Fatalf("AddUser failed: %v", err)
	}

	users, err := store.Users()
	if err != nil {
		t.Fatalf("Users failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users: %+v", len(users), users)
	}
	if users[0].Name != "Alex Chen" {
		t.Errorf("users not ordered by name: %+v", users)
	}
	if !users[1].IsAdmin {
		t.Errorf("admin flag lost: %+v", users[1])
	}
	if !users[1].CreatedAt.Equal(now) {
		t.Errorf("created_at round trip: %v", users[1].CreatedAt)
	}
}
