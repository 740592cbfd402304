package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Slot keys shared with the codec and the daily marker.
const (
	KeyData     = "kids-timer-data"
	KeyLastDate = "kids-timer-last-date"
)

// Get returns the value stored under key. ok is false when the slot is empty.
func (s *Store) Get(key string) (value string, ok bool, err error) {
	err = s.db.QueryRow(`SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get slot %q: %w", key, err)
	}
	return value, true, nil
}

// Set replaces the whole value under key in a single statement.
func (s *Store) Set(key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now,
	)
	if err != nil {
		return fmt.Errorf("set slot %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete slot %q: %w", key, err)
	}
	return nil
}

// Clear removes both kids-timer slots. It is the host-level reset.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM slots WHERE key IN (?, ?)`, KeyData, KeyLastDate)
	if err != nil {
		return fmt.Errorf("clear slots: %w", err)
	}
	return nil
}

// UpdatedAt returns when key was last written, or the zero time if never.
func (s *Store) UpdatedAt(key string) (time.Time, error) {
	var raw string
	err := s.db.QueryRow(`SELECT updated_at FROM slots WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("get slot %q updated_at: %w", key, err)
	}
	t, _ := time.Parse(time.RFC3339, raw)
	return t, nil
}
