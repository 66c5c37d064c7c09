// Package storage keeps a history of layout guide runs in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// go-sqlite3 connection parameters. File databases also get WAL and a busy
// timeout so a second CLI invocation waits instead of failing.
var (
	basePragmas = []string{"_foreign_keys=on"}
	filePragmas = []string{"_journal_mode=WAL", "_busy_timeout=5000"}
)

// SQLiteStorage implements service.RunStorage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// dataSourceName builds the go-sqlite3 DSN for path.
func dataSourceName(path string) string {
	params := basePragmas
	if path != MemoryPath {
		params = append(append([]string{}, filePragmas...), basePragmas...)
	}
	return path + "?" + strings.Join(params, "&")
}

// NewSQLiteStorage opens the history database at dbPath, creating its
// directory when needed. The schema is not migrated; see Open.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dataSourceName(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps an in-memory database alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Open opens the database at dbPath and migrates it to the current schema.
func Open(ctx context.Context, dbPath string) (*SQLiteStorage, error) {
	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// Path returns the database location.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
