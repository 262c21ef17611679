// Package storage persists extracted statements in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/Veraticus/alertledger/internal/common"
	"github.com/Veraticus/alertledger/internal/pagination"
)

// SQLiteStorage implements service.Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	now    func() time.Time
	newID  func() (uuid.UUID, error)
	dbPath string
	limits pagination.Limits
}

// NewSQLiteStorage opens (creating if needed) the database at dbPath.
// Use ":memory:" for a throwaway database.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps :memory: databases alive and serialises writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
		newID:  uuid.NewV7,
		limits: pagination.DefaultLimits(),
	}, nil
}

// SetClock replaces the clock used to stamp CreatedAt on new statements.
func (s *SQLiteStorage) SetClock(now func() time.Time) {
	s.now = now
}

// SetLimits replaces the page size bounds applied by ListStatements.
func (s *SQLiteStorage) SetLimits(limits pagination.Limits) {
	s.limits = limits
}

// Path returns the database location.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// wrapError marks SQLite lock contention as common.ErrDatabaseBusy so that
// callers can retry it.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
		return fmt.Errorf("%s: %w: %w", op, common.ErrDatabaseBusy, err)
	}
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrCorrupt {
		return fmt.Errorf("%s: %w: %w", op, common.ErrDatabaseCorrupted, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
