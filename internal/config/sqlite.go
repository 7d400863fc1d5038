package config

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const settingsSchema = `
CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

var _ ListStore = (*SQLiteStore)(nil)

// SQLiteStore keeps settings in a sqlite table.
type SQLiteStore struct {
	db  *sql.DB
	log zerolog.Logger
}

func OpenSQLite(path string, log zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(settingsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init settings schema: %w", err)
	}
	return &SQLiteStore{db: db, log: log.With().Str("store", "sqlite").Logger()}, nil
}

func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, true, nil
}

const upsert = `
	INSERT INTO settings (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at`

func (s *SQLiteStore) Set(key, value string) error {
	_, err := s.db.Exec(upsert, key, value, time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// SetAll writes every value in one transaction.
func (s *SQLiteStore) SetAll(values map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin settings tx: %w", err)
	}
	now := time.Now().Format(time.RFC3339)
	for k, v := range values {
		if _, err := tx.Exec(upsert, k, v, now); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.log.Warn().Err(rbErr).Msg("rollback failed")
			}
			return fmt.Errorf("failed to set setting %s: %w", k, err)
		}
	}
	return tx.Commit()
}

// All returns every stored setting.
func (s *SQLiteStore) All() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("failed to get all settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			s.log.Warn().Err(err).Msg("Failed to scan setting row")
			continue
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
