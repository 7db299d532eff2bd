package keys

import (
	"database/sql"
	"fmt"
)

// SQLite is a fallback secret store for hosts without an OS keychain,
// such as the headless box the daemon runs on. The file should be
// readable only by the operator.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS secrets (
		    service TEXT PRIMARY KEY,
		    value TEXT NOT NULL,
		    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate secrets: %w", err)
	}
	return nil
}

func (s *SQLite) Get(service string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM secrets WHERE service = ?`, service).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLite) Set(service, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO secrets (service, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(service) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, service, value)
	return err
}
