package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_Idempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestMigrate_VersionsAreSequential(t *testing.T) {
	require.Len(t, migrations, ExpectedSchemaVersion)
	for i, m := range migrations {
		assert.Equal(t, i+1, m.Version, m.Description)
		assert.NotEmpty(t, m.Description)
	}
}

func TestMigrate_SourceColumnDefault(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, `
		INSERT INTO statements (id, account_id, hash, amount, amount_value, currency, direction,
			date_ms, description, raw_text, created_ms)
		VALUES ('legacy', 'acc', 'h', '1', 1, 'INR', 'debit', 0, 'Debit transaction', 'x', 0)`)
	require.NoError(t, err)

	stmt, err := store.GetStatement(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, "alert", stmt.Source)
	assert.False(t, stmt.DateInferred)
}

func TestMigrate_RejectsNewerSchema(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", ExpectedSchemaVersion+1))
	require.NoError(t, err)

	err = store.Migrate(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestMigrate_NilContext(t *testing.T) {
	store := createTestStorage(t)
	//nolint:staticcheck // exercising nil context validation
	assert.ErrorIs(t, store.Migrate(nil), ErrNilContext)
}
