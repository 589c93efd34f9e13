package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jfxdev02-arch/mergcrush/internal/progress"
)

// GetInt reads an integer value. Missing keys return def.
func (s *Store) GetInt(key string, def int) (int, error) {
	var value int
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot read key %s: %w", key, err)
	}
	return value, nil
}

// SetInt writes an integer value, replacing any previous one.
func (s *Store) SetInt(key string, value int) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write key %s: %w", key, err)
	}
	return nil
}

// Delete removes a key. Missing keys are not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("storage: cannot delete key %s: %w", key, err)
	}
	return nil
}

// Ensure Store implements progress.KV
var _ progress.KV = (*Store)(nil)
