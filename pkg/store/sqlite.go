package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/richard-senior/spiro/internal/logger"
	_ "modernc.org/sqlite"
)

const tableName = "kv"

// SQLiteStore keeps values in a single sqlite table keyed by name
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path.
// ":memory:" gives a private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every pooled connection to :memory: would otherwise see its own empty database
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("Database initialized successfully", path)
	return s, nil
}

func (s *SQLiteStore) createTable() error {
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (key TEXT NOT NULL, value BLOB, PRIMARY KEY (key))", tableName)
	logger.Debug("Creating table with SQL", query)
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}
	return nil
}

func (s *SQLiteStore) Get(key string) ([]byte, error) {
	query := fmt.Sprintf("SELECT value FROM %s WHERE key = ?", tableName)
	logger.Debug("Get SQL", query)

	var value []byte
	err := s.db.QueryRow(query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from %s: %w", key, tableName, err)
	}
	return value, nil
}

func (s *SQLiteStore) Set(key string, value []byte) error {
	query := fmt.Sprintf("INSERT INTO %s (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value", tableName)
	logger.Debug("Upsert SQL", query)

	if _, err := s.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to write %s to %s: %w", key, tableName, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(key string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE key = ?", tableName)
	if _, err := s.db.Exec(query, key); err != nil {
		return fmt.Errorf("failed to delete %s from %s: %w", key, tableName, err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the location the store was opened with
func (s *SQLiteStore) Path() string {
	return s.path
}
