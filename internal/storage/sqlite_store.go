package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"attendly/internal/models"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	is_admin INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS entries (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	date TEXT NOT NULL,
	status TEXT NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	leave_duration TEXT NOT NULL DEFAULT '',
	half_day_portion TEXT NOT NULL DEFAULT '',
	working_portion TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE(user_id, date)
);
CREATE TABLE IF NOT EXISTS holidays (
	date TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT ''
);
`

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'attendly init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetEntry(userID, date string) (models.Entry, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, date, status, note, leave_duration, half_day_portion, working_portion, created_at, updated_at
		FROM entries WHERE user_id = ? AND date = ?`, userID, date)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return models.Entry{}, fmt.Errorf("no entry for %s on %s", userID, date)
	}
	return entry, err
}

func (s *SQLiteStore) EntriesByUserAndDates(userID string, dates []string) ([]models.Entry, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(dates))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, 0, len(dates)+1)
	args = append(args, userID)
	for _, d := range dates {
		args = append(args, d)
	}

	rows, err := s.db.Query(`
		SELECT id, user_id, date, status, note, leave_duration, half_day_portion, working_portion, created_at, updated_at
		FROM entries WHERE user_id = ? AND date IN (`+placeholders+`) ORDER BY date`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (s *SQLiteStore) EntriesByRange(start, end string) ([]models.Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, date, status, note, leave_duration, half_day_portion, working_portion, created_at, updated_at
		FROM entries WHERE date >= ? AND date <= ? ORDER BY date, user_id`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (s *SQLiteStore) ApplyChanges(userID string, upserts []models.Entry, deletes []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, date := range deletes {
		if _, err := tx.Exec("DELETE FROM entries WHERE user_id = ? AND date = ?", userID, date); err != nil {
			return err
		}
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO entries (
			id, user_id, date, status, note, leave_duration, half_day_portion, working_portion, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range upserts {
		// Replace any existing row for the same (user, date) so the unique
		// constraint never aborts a legitimate overwrite.
		if _, err := tx.Exec("DELETE FROM entries WHERE user_id = ? AND date = ?", e.UserID, e.Date); err != nil {
			return err
		}
		_, err := stmt.Exec(
			e.ID, e.UserID, e.Date, e.Status, e.Note, e.LeaveDuration, e.HalfDayPortion, e.WorkingPortion,
			e.CreatedAt.UTC().Format(time.RFC3339), e.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) AddHoliday(h models.Holiday) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO holidays (date, name) VALUES (?, ?)", h.Date, h.Name)
	return err
}

func (s *SQLiteStore) Holidays() ([]models.Holiday, error) {
	rows, err := s.db.Query("SELECT date, name FROM holidays ORDER BY date")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []models.Holiday
	for rows.Next() {
		var h models.Holiday
		if err := rows.Scan(&h.Date, &h.Name); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

func (s *SQLiteStore) AddUser(u models.User) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO users (id, name, is_admin, created_at) VALUES (?, ?, ?, ?)",
		u.ID, u.Name, u.IsAdmin, u.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) Users() ([]models.User, error) {
	rows, err := s.db.Query("SELECT id, name, is_admin, created_at FROM users ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		var createdAt string
		if err := rows.Scan(&u.ID, &u.Name, &u.IsAdmin, &createdAt); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			u.CreatedAt = t
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.Entry, error) {
	var e models.Entry
	var createdAt, updatedAt string
	err := row.Scan(
		&e.ID, &e.UserID, &e.Date, &e.Status, &e.Note,
		&e.LeaveDuration, &e.HalfDayPortion, &e.WorkingPortion,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return models.Entry{}, err
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		e.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		e.UpdatedAt = t
	}
	return e, nil
}

func scanEntries(rows *sql.Rows) ([]models.Entry, error) {
	var entries []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
