package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/alertledger/internal/common"
	"github.com/Veraticus/alertledger/internal/model"
)

// createTestStorage opens a migrated database in a temp dir.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

// fixedClock returns a clock that advances by step on every call.
func fixedClock(start time.Time, step time.Duration) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(step)
		return now
	}
}

func testStatement(i int) *model.Statement {
	return &model.Statement{
		Amount:      decimal.NewFromInt(int64(100 + i)),
		Currency:    "INR",
		Direction:   model.DirectionDebit,
		Date:        time.Date(2025, 9, 1+i%28, 0, 0, 0, 0, time.UTC),
		Description: "Debit transaction",
		Confidence:  0.95,
		RawText:     fmt.Sprintf("INR %d debited from a/c", 100+i),
	}
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		store := createTestStorage(t)
		assert.FileExists(t, store.Path())
	})

	t.Run("rejects empty path", func(t *testing.T) {
		_, err := NewSQLiteStorage("  ")
		assert.ErrorIs(t, err, ErrEmptyString)
	})

	t.Run("in memory", func(t *testing.T) {
		store, err := NewSQLiteStorage(":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
		require.NoError(t, store.Migrate(context.Background()))
	})
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, wrapError("op", nil))

	busy := wrapError("insert", sqlite3.Error{Code: sqlite3.ErrBusy})
	assert.ErrorIs(t, busy, common.ErrDatabaseBusy)
	assert.True(t, common.IsRetryable(busy))

	locked := wrapError("insert", sqlite3.Error{Code: sqlite3.ErrLocked})
	assert.ErrorIs(t, locked, common.ErrDatabaseBusy)

	corrupt := wrapError("scan", sqlite3.Error{Code: sqlite3.ErrCorrupt})
	assert.ErrorIs(t, corrupt, common.ErrDatabaseCorrupted)

	other := wrapError("insert", errors.New("boom"))
	assert.False(t, common.IsRetryable(other))
	assert.Equal(t, "insert: boom", other.Error())
}
