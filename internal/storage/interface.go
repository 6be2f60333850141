package storage

import "attendly/internal/models"

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Entries
	GetEntry(userID, date string) (models.Entry, error)
	EntriesByUserAndDates(userID string, dates []string) ([]models.Entry, error)
	EntriesByRange(start, end string) ([]models.Entry, error)
	// ApplyChanges applies every upsert and delete in one transaction; no
	// partial visibility of a single batch is permitted.
	ApplyChanges(userID string, upserts []models.Entry, deletes []string) error

	// Holidays
	AddHoliday(models.Holiday) error
	Holidays() ([]models.Holiday, error)

	// Users
	AddUser(models.User) error
	Users() ([]models.User, error)

	// Utils
	GetConfigPath() string
}
