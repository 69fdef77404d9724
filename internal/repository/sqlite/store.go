package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"fastodo/internal/errors"
	"fastodo/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store is a key-value store backed by the kv_store table.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at dbPath and applies pending migrations.
// The parent directory is created with dirPerms when missing.
func Open(ctx context.Context, dbPath string, dirPerms os.FileMode) (*Store, error) {
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), dirPerms); err != nil {
			return nil, errors.NewStorageError("create database directory", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, HandleDatabaseError("open database", err)
	}
	// Every connection to :memory: would see its own empty database.
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, HandleDatabaseError("run migrations", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Entry returns the row stored under key, or sql.ErrNoRows.
func (s *Store) Entry(ctx context.Context, key string) (*Entry, error) {
	query := `SELECT key, value, updated_at FROM kv_store WHERE key = ?`
	return QuerySingle(ctx, s.db, query, ScanEntry, key)
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	entry, err := s.Entry(ctx, key)
	if IsNoRows(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set inserts or replaces the value under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	query := `
	INSERT INTO kv_store (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	return ExecuteSingleRow(ctx, s.db, query, key, key, value, FormatTimeForDB(s.now()))
}
