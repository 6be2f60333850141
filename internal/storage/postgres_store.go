package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"attendly/internal/models"
	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	is_admin BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
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
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	UNIQUE(user_id, date)
);
CREATE TABLE IF NOT EXISTS holidays (
	date TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT ''
);
`

// PostgresStore backs shared, multi-user deployments where a local file is
// not enough.
type PostgresStore struct {
	dsn string
	db  *sql.DB
}

func NewPostgresStore(dsn string) *PostgresStore {
	return &PostgresStore{
		dsn: dsn,
	}
}

func (s *PostgresStore) Init() error {
	if err := s.open(); err != nil {
		return err
	}
	if _, err := s.db.Exec(postgresSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load() error {
	return s.open()
}

func (s *PostgresStore) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("postgres", s.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) GetEntry(userID, date string) (models.Entry, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, date, status, note, leave_duration, half_day_portion, working_portion, created_at, updated_at
		FROM entries WHERE user_id = $1 AND date = $2`, userID, date)
	entry, err := scanPGEntry(row)
	if err == sql.ErrNoRows {
		return models.Entry{}, fmt.Errorf("no entry for %s on %s", userID, date)
	}
	return entry, err
}

func (s *PostgresStore) EntriesByUserAndDates(userID string, dates []string) ([]models.Entry, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(dates))
	args := make([]any, 0, len(dates)+1)
	args = append(args, userID)
	for i, d := range dates {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, d)
	}

	rows, err := s.db.Query(`
		SELECT id, user_id, date, status, note, leave_duration, half_day_portion, working_portion, created_at, updated_at
		FROM entries WHERE user_id = $1 AND date IN (`+strings.Join(placeholders, ",")+`) ORDER BY date`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPGEntries(rows)
}

func (s *PostgresStore) EntriesByRange(start, end string) ([]models.Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, date, status, note, leave_duration, half_day_portion, working_portion, created_at, updated_at
		FROM entries WHERE date >= $1 AND date <= $2 ORDER BY date, user_id`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPGEntries(rows)
}

func (s *PostgresStore) ApplyChanges(userID string, upserts []models.Entry, deletes []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, date := range deletes {
		if _, err := tx.Exec("DELETE FROM entries WHERE user_id = $1 AND date = $2", userID, date); err != nil {
			return err
		}
	}

	for _, e := range upserts {
		_, err := tx.Exec(`
			INSERT INTO entries (
				id, user_id, date, status, note, leave_duration, half_day_portion, working_portion, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (user_id, date) DO UPDATE SET
				status = EXCLUDED.status,
				note = EXCLUDED.note,
				leave_duration = EXCLUDED.leave_duration,
				half_day_portion = EXCLUDED.half_day_portion,
				working_portion = EXCLUDED.working_portion,
				updated_at = EXCLUDED.updated_at`,
			e.ID, e.UserID, e.Date, e.Status, e.Note, e.LeaveDuration, e.HalfDayPortion, e.WorkingPortion,
			e.CreatedAt.UTC(), e.UpdatedAt.UTC(),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) AddHoliday(h models.Holiday) error {
	_, err := s.db.Exec(`
		INSERT INTO holidays (date, name) VALUES ($1, $2)
		ON CONFLICT (date) DO UPDATE SET name = EXCLUDED.name`, h.Date, h.Name)
	return err
}

func (s *PostgresStore) Holidays() ([]models.Holiday, error) {
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

func (s *PostgresStore) AddUser(u models.User) error {
	_, err := s.db.Exec(`
		INSERT INTO users (id, name, is_admin, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, is_admin = EXCLUDED.is_admin`,
		u.ID, u.Name, u.IsAdmin, u.CreatedAt.UTC(),
	)
	return err
}

func (s *PostgresStore) Users() ([]models.User, error) {
	rows, err := s.db.Query("SELECT id, name, is_admin, created_at FROM users ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		var createdAt time.Time
		if err := rows.Scan(&u.ID, &u.Name, &u.IsAdmin, &createdAt); err != nil {
			return nil, err
		}
		u.CreatedAt = createdAt
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *PostgresStore) GetConfigPath() string {
	return s.dsn
}

func scanPGEntry(row rowScanner) (models.Entry, error) {
	var e models.Entry
	var createdAt, updatedAt time.Time
	err := row.Scan(
		&e.ID, &e.UserID, &e.Date, &e.Status, &e.Note,
		&e.LeaveDuration, &e.HalfDayPortion, &e.WorkingPortion,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return models.Entry{}, err
	}
	e.CreatedAt = createdAt
	e.UpdatedAt = updatedAt
	return e, nil
}

func scanPGEntries(rows *sql.Rows) ([]models.Entry, error) {
	var entries []models.Entry
	for rows.Next() {
		e, err := scanPGEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
