package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/alertledger/internal/common"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial statements schema",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS statements (
					id TEXT PRIMARY KEY,
					account_id TEXT NOT NULL,
					hash TEXT UNIQUE NOT NULL,
					amount TEXT NOT NULL,
					amount_value REAL NOT NULL,
					currency TEXT NOT NULL,
					direction TEXT NOT NULL CHECK (direction IN ('debit', 'credit')),
					date_ms INTEGER NOT NULL,
					description TEXT NOT NULL,
					balance TEXT,
					reference_id TEXT NOT NULL DEFAULT '',
					confidence REAL NOT NULL DEFAULT 0,
					raw_text TEXT NOT NULL,
					created_ms INTEGER NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_statements_account_created
					ON statements(account_id, created_ms DESC, id DESC)`,
				`CREATE INDEX IF NOT EXISTS idx_statements_account_date
					ON statements(account_id, date_ms DESC)`,
				`CREATE INDEX IF NOT EXISTS idx_statements_account_direction
					ON statements(account_id, direction)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Record statement source",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`ALTER TABLE statements ADD COLUMN source TEXT NOT NULL DEFAULT 'alert'`,
			)
		},
	},
	{
		Version:     3,
		Description: "Flag statements whose date was not in the alert",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`ALTER TABLE statements ADD COLUMN date_inferred INTEGER NOT NULL DEFAULT 0`,
			)
		},
	},
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", query, err)
		}
	}
	return nil
}

// SchemaVersion reports the database's PRAGMA user_version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Migrate applies every pending migration, each in its own transaction.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if currentVersion > ExpectedSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d",
			currentVersion, ExpectedSchemaVersion)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		common.LogInfo("Applied migration", common.Fields{
			"version":     migration.Version,
			"description": migration.Description,
		})
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
