package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"attendly/internal/models"
)

type Store struct {
	Version  int                       `json:"version"`
	Entries  map[string]models.Entry   `json:"entries"`  // keyed user_id|date
	Holidays map[string]models.Holiday `json:"holidays"` // keyed date
	Users    map[string]models.User    `json:"users"`    // keyed id
}

type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func entryKey(userID, date string) string {
	return userID + "|" + date
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &Store{
		Version:  1,
		Entries:  make(map[string]models.Entry),
		Holidays: make(map[string]models.Holiday),
		Users:    make(map[string]models.User),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'attendly init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	// Ensure maps are initialized
	if s.store.Entries == nil {
		s.store.Entries = make(map[string]models.Entry)
	}
	if s.store.Holidays == nil {
		s.store.Holidays = make(map[string]models.Holiday)
	}
	if s.store.Users == nil {
		s.store.Users = make(map[string]models.User)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) GetEntry(userID, date string) (models.Entry, error) {
	if s.store == nil {
		return models.Entry{}, fmt.Errorf("storage not loaded")
	}
	entry, ok := s.store.Entries[entryKey(userID, date)]
	if !ok {
		return models.Entry{}, fmt.Errorf("no entry for %s on %s", userID, date)
	}
	return entry, nil
}

func (s *JSONStore) EntriesByUserAndDates(userID string, dates []string) ([]models.Entry, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	var entries []models.Entry
	for _, d := range dates {
		if entry, ok := s.store.Entries[entryKey(userID, d)]; ok {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	return entries, nil
}

func (s *JSONStore) EntriesByRange(start, end string) ([]models.Entry, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	var entries []models.Entry
	for _, entry := range s.store.Entries {
		if entry.Date >= start && entry.Date <= end {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].UserID < entries[j].UserID
	})
	return entries, nil
}

func (s *JSONStore) ApplyChanges(userID string, upserts []models.Entry, deletes []string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	// Stage against a copy so a failed save leaves the loaded state intact.
	staged := make(map[string]models.Entry, len(s.store.Entries))
	for k, v := range s.store.Entries {
		staged[k] = v
	}
	for _, d := range deletes {
		delete(staged, entryKey(userID, d))
	}
	for _, e := range upserts {
		staged[entryKey(e.UserID, e.Date)] = e
	}

	previous := s.store.Entries
	s.store.Entries = staged
	if err := s.save(); err != nil {
		s.store.Entries = previous
		return err
	}
	return nil
}

func (s *JSONStore) AddHoliday(h models.Holiday) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Holidays[h.Date] = h
	return s.save()
}

func (s *JSONStore) Holidays() ([]models.Holiday, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	holidays := make([]models.Holiday, 0, len(s.store.Holidays))
	for _, h := range s.store.Holidays {
		holidays = append(holidays, h)
	}
	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Date < holidays[j].Date })
	return holidays, nil
}

func (s *JSONStore) AddUser(u models.User) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Users[u.ID] = u
	return s.save()
}

func (s *JSONStore) Users() ([]models.User, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	users := make([]models.User, 0, len(s.store.Users))
	for _, u := range s.store.Users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

// GetConfigPath returns the path to the underlying storage file.
//
// Concurrency note:
//   - JSONStore is not safe for concurrent use by multiple goroutines without
//     external synchronization.
//   - Running multiple attendly processes that share the same storage path at
//     the same time is not supported and may lead to data loss or corruption.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
