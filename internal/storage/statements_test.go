package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/alertledger/internal/common"
	"github.com/Veraticus/alertledger/internal/model"
	"github.com/Veraticus/alertledger/internal/pagination"
)

func TestSaveStatement_AssignsIdentity(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	now := time.Date(2025, 9, 12, 10, 30, 15, 123456789, time.UTC)
	store.SetClock(func() time.Time { return now })

	stmt := testStatement(0)
	inserted, err := store.SaveStatement(ctx, "acc", stmt)
	require.NoError(t, err)
	assert.True(t, inserted)

	assert.NotEmpty(t, stmt.ID)
	assert.Equal(t, "acc", stmt.AccountID)
	assert.Equal(t, now.Truncate(time.Millisecond), stmt.CreatedAt)
	assert.Equal(t, model.SourceAlert, stmt.Source)
	assert.Equal(t, stmt.GenerateHash(), stmt.Hash)
}

func TestSaveStatement_RoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	ist := time.FixedZone("IST", 5*60*60+30*60)
	balance := decimal.RequireFromString("23540.50")
	stmt := &model.Statement{
		Amount:      decimal.RequireFromString("1250.00"),
		Currency:    "INR",
		Direction:   model.DirectionCredit,
		Date:        time.Date(2025, 9, 12, 0, 0, 0, 0, ist),
		Description: "Credit transaction",
		Balance:     &balance,
		ReferenceID: "512345678901",
		Confidence:  0.85,
		RawText:     "INR 1,250.00 credited. UPI Ref 512345678901",
	}

	_, err := store.SaveStatement(ctx, "acc", stmt)
	require.NoError(t, err)

	got, err := store.GetStatement(ctx, stmt.ID)
	require.NoError(t, err)

	assert.Equal(t, stmt.ID, got.ID)
	assert.Equal(t, "acc", got.AccountID)
	assert.True(t, stmt.Amount.Equal(got.Amount))
	assert.Equal(t, "INR", got.Currency)
	assert.Equal(t, model.DirectionCredit, got.Direction)
	assert.True(t, stmt.Date.Equal(got.Date))
	require.NotNil(t, got.Balance)
	assert.True(t, balance.Equal(*got.Balance))
	assert.Equal(t, "512345678901", got.ReferenceID)
	assert.InDelta(t, 0.85, got.Confidence, 1e-9)
	assert.Equal(t, stmt.RawText, got.RawText)
	assert.True(t, stmt.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, stmt.Hash, got.Hash)
	assert.False(t, got.DateInferred)
}

func TestSaveStatement_InferredDate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	first := testStatement(2)
	first.DateInferred = true
	inserted, err := store.SaveStatement(ctx, "acc", first)
	require.NoError(t, err)
	require.True(t, inserted)

	got, err := store.GetStatement(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, got.DateInferred)

	later := testStatement(2)
	later.DateInferred = true
	later.Date = first.Date.AddDate(0, 0, 1)
	inserted, err = store.SaveStatement(ctx, "acc", later)
	require.NoError(t, err)
	assert.False(t, inserted, "an undated alert seen on another day is a duplicate")
}

func TestSaveStatement_Deduplicates(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	inserted, err := store.SaveStatement(ctx, "acc", testStatement(1))
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = store.SaveStatement(ctx, "acc", testStatement(1))
	require.NoError(t, err)
	assert.False(t, inserted)

	inserted, err = store.SaveStatement(ctx, "other", testStatement(1))
	require.NoError(t, err)
	assert.True(t, inserted, "same alert under another account is distinct")

	count, err := store.CountStatements(ctx, "acc")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSaveStatement_Validation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.SaveStatement(ctx, "", testStatement(0))
	assert.ErrorIs(t, err, ErrEmptyString)

	_, err = store.SaveStatement(ctx, "acc", nil)
	assert.ErrorIs(t, err, ErrNilParameter)

	bad := testStatement(0)
	bad.Direction = "sideways"
	_, err = store.SaveStatement(ctx, "acc", bad)
	assert.ErrorIs(t, err, ErrInvalidStatement)
}

func TestSaveStatements_Batch(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	batch := []*model.Statement{testStatement(0), testStatement(1), testStatement(0)}
	inserted, err := store.SaveStatements(ctx, "acc", batch)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	t.Run("invalid entry aborts the batch", func(t *testing.T) {
		bad := testStatement(5)
		bad.Currency = ""
		_, err := store.SaveStatements(ctx, "acc", []*model.Statement{testStatement(4), bad})
		require.ErrorIs(t, err, ErrInvalidStatement)

		count, err := store.CountStatements(ctx, "acc")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestGetStatement_NotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetStatement(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListStatements_SharedTimestamp(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	ts := time.Date(2025, 9, 12, 10, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return ts })

	for i := 0; i < 25; i++ {
		stmt := testStatement(i)
		stmt.ID = fmt.Sprintf("id-%02d", i)
		inserted, err := store.SaveStatement(ctx, "acc", stmt)
		require.NoError(t, err)
		require.True(t, inserted)
	}

	var order []string
	cursor := ""
	pages := 0
	for {
		page, err := store.ListStatements(ctx, "acc", model.Filter{}, cursor, 10)
		require.NoError(t, err)
		pages++
		for _, s := range page.Statements {
			order = append(order, s.ID)
		}
		if !page.HasMore() {
			break
		}
		cursor = page.NextCursor
		require.Less(t, pages, 4)
	}

	assert.Equal(t, 3, pages)
	require.Len(t, order, 25)
	for i, id := range order {
		assert.Equal(t, fmt.Sprintf("id-%02d", 24-i), id)
	}
}

func TestListStatements_NewestFirst(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	store.SetClock(fixedClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Second))

	var ids []string
	for i := 0; i < 7; i++ {
		stmt := testStatement(i)
		_, err := store.SaveStatement(ctx, "acc", stmt)
		require.NoError(t, err)
		ids = append(ids, stmt.ID)
	}

	page, err := store.ListStatements(ctx, "acc", model.Filter{}, "", 5)
	require.NoError(t, err)
	require.Len(t, page.Statements, 5)
	assert.Equal(t, ids[6], page.Statements[0].ID)
	assert.Equal(t, ids[2], page.Statements[4].ID)
	assert.Equal(t, 5, page.Limit)

	next := pagination.DecodeCursor(page.NextCursor)
	assert.Equal(t, ids[2], next.ID)

	page, err = store.ListStatements(ctx, "acc", model.Filter{}, page.NextCursor, 5)
	require.NoError(t, err)
	require.Len(t, page.Statements, 2)
	assert.Equal(t, ids[1], page.Statements[0].ID)
	assert.Empty(t, page.NextCursor)
}

func TestListStatements_Filters(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	store.SetClock(fixedClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Millisecond))

	for i := 0; i < 10; i++ {
		stmt := testStatement(i)
		if i%2 == 1 {
			stmt.Direction = model.DirectionCredit
		}
		_, err := store.SaveStatement(ctx, "acc", stmt)
		require.NoError(t, err)
	}
	_, err := store.SaveStatement(ctx, "other", testStatement(0))
	require.NoError(t, err)

	credit := model.DirectionCredit
	from := time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC)
	minAmount := decimal.NewFromInt(104)
	maxAmount := decimal.NewFromInt(108)

	tests := []struct {
		name   string
		filter model.Filter
		want   []int64
	}{
		{name: "none", filter: model.Filter{}, want: []int64{109, 108, 107, 106, 105, 104, 103, 102, 101, 100}},
		{name: "direction", filter: model.Filter{Direction: &credit}, want: []int64{109, 107, 105, 103, 101}},
		{name: "date range", filter: model.Filter{DateFrom: &from, DateTo: &to}, want: []int64{107, 106, 105, 104, 103, 102}},
		{name: "amount range", filter: model.Filter{AmountMin: &minAmount, AmountMax: &maxAmount}, want: []int64{108, 107, 106, 105, 104}},
		{name: "combined", filter: model.Filter{Direction: &credit, AmountMin: &minAmount, DateTo: &to}, want: []int64{107, 105}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := store.ListStatements(ctx, "acc", tt.filter, "", 50)
			require.NoError(t, err)

			got := make([]int64, 0, len(page.Statements))
			for _, s := range page.Statements {
				got = append(got, s.Amount.IntPart())
			}
			assert.Equal(t, tt.want, got)
			assert.Empty(t, page.NextCursor)
		})
	}
}

func TestListStatements_MalformedCursorStartsOver(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.SaveStatement(ctx, "acc", testStatement(i))
		require.NoError(t, err)
	}

	page, err := store.ListStatements(ctx, "acc", model.Filter{}, "not-base64!!", 10)
	require.NoError(t, err)
	assert.Len(t, page.Statements, 3)
}

func TestListStatements_Limits(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	store.SetLimits(pagination.Limits{Default: 2, Max: 4})

	for i := 0; i < 6; i++ {
		_, err := store.SaveStatement(ctx, "acc", testStatement(i))
		require.NoError(t, err)
	}

	page, err := store.ListStatements(ctx, "acc", model.Filter{}, "", 0)
	require.NoError(t, err)
	assert.Len(t, page.Statements, 2)
	assert.Equal(t, 2, page.Limit)

	page, err = store.ListStatements(ctx, "acc", model.Filter{}, "", 100)
	require.NoError(t, err)
	assert.Len(t, page.Statements, 4)
	assert.True(t, page.HasMore())
}

func TestRenderQuery(t *testing.T) {
	debit := model.DirectionDebit
	from := time.UnixMilli(1000).UTC()
	cursor := pagination.Cursor{Timestamp: time.UnixMilli(5000).UTC(), ID: "m"}

	query, args := renderQuery("acc", pagination.BuildQuery(model.Filter{Direction: &debit, DateFrom: &from}, &cursor, 10))

	assert.Contains(t, query, "account_id = ? AND direction = ? AND date_ms >= ? AND (created_ms < ? OR (created_ms = ? AND id < ?))")
	assert.Contains(t, query, "ORDER BY created_ms DESC, id DESC LIMIT ?")
	assert.Equal(t, []any{"acc", "debit", int64(1000), int64(5000), int64(5000), "m", 11}, args)
}
