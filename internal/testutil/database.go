// Package testutil provides shared test fixtures: an in-memory ledger and
// statement builders.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/alertledger/internal/model"
	"github.com/Veraticus/alertledger/internal/storage"
)

// TestDB is a migrated in-memory database.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database.
// It automatically handles migrations and cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// NewStatement returns a valid debit statement whose fields vary with n.
func NewStatement(n int) *model.Statement {
	return &model.Statement{
		Amount:      decimal.NewFromInt(int64(100 * (n + 1))),
		Currency:    "INR",
		Direction:   model.DirectionDebit,
		Date:        time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n),
		Description: "Debit transaction",
		Confidence:  0.95,
		RawText:     fmt.Sprintf("INR %d debited from a/c XX%04d", 100*(n+1), n),
	}
}

// Seed stores count statements under accountID, one millisecond apart, and
// returns them in insertion order.
func (db *TestDB) Seed(accountID string, count int) []*model.Statement {
	db.t.Helper()

	start := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	i := 0
	db.Storage.SetClock(func() time.Time {
		return start.Add(time.Duration(i) * time.Millisecond)
	})
	defer db.Storage.SetClock(time.Now)

	stmts := make([]*model.Statement, 0, count)
	for ; i < count; i++ {
		stmt := NewStatement(i)
		if _, err := db.Storage.SaveStatement(context.Background(), accountID, stmt); err != nil {
			db.t.Fatalf("failed to seed statement %d: %v", i, err)
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}
