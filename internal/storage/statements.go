package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/alertledger/internal/common"
	"github.com/Veraticus/alertledger/internal/model"
	"github.com/Veraticus/alertledger/internal/pagination"
	"github.com/Veraticus/alertledger/internal/service"
)

const statementColumns = `id, account_id, hash, amount, currency, direction, date_ms, date_inferred,
	description, balance, reference_id, confidence, raw_text, source, created_ms`

// columnFor maps query fields onto statement columns.
var columnFor = map[pagination.Field]string{
	pagination.FieldDirection: "direction",
	pagination.FieldDate:      "date_ms",
	pagination.FieldAmount:    "amount_value",
	pagination.FieldCreatedAt: "created_ms",
	pagination.FieldID:        "id",
}

// SaveStatement stores stmt under accountID. It fills in ID, CreatedAt, Hash
// and Source when unset and reports false if an identical statement already
// exists.
func (s *SQLiteStorage) SaveStatement(ctx context.Context, accountID string, stmt *model.Statement) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return false, err
	}
	if err := validateStatement(stmt); err != nil {
		return false, err
	}

	return s.insertStatement(ctx, s.db, accountID, stmt)
}

// SaveStatements stores a batch in one transaction and returns how many rows
// were new.
func (s *SQLiteStorage) SaveStatements(ctx context.Context, accountID string, stmts []*model.Statement) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return 0, err
	}
	for i, stmt := range stmts {
		if err := validateStatement(stmt); err != nil {
			return 0, fmt.Errorf("statement at index %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, wrapError("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for _, stmt := range stmts {
		ok, err := s.insertStatement(ctx, tx, accountID, stmt)
		if err != nil {
			return 0, err
		}
		if ok {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, wrapError("failed to commit statements", err)
	}
	return inserted, nil
}

func (s *SQLiteStorage) insertStatement(ctx context.Context, db execer, accountID string, stmt *model.Statement) (bool, error) {
	stmt.AccountID = accountID
	if stmt.ID == "" {
		id, err := s.newID()
		if err != nil {
			return false, fmt.Errorf("failed to generate statement id: %w", err)
		}
		stmt.ID = id.String()
	}
	if stmt.CreatedAt.IsZero() {
		stmt.CreatedAt = s.now().UTC().Truncate(time.Millisecond)
	}
	if stmt.Source == "" {
		stmt.Source = model.SourceAlert
	}
	stmt.Hash = stmt.GenerateHash()

	var balance sql.NullString
	if stmt.Balance != nil {
		balance = sql.NullString{String: stmt.Balance.String(), Valid: true}
	}

	result, err := db.ExecContext(ctx, `
		INSERT OR IGNORE INTO statements (
			id, account_id, hash, amount, amount_value, currency, direction, date_ms,
			date_inferred, description, balance, reference_id, confidence, raw_text, source, created_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stmt.ID,
		accountID,
		stmt.Hash,
		stmt.Amount.String(),
		stmt.Amount.InexactFloat64(),
		stmt.Currency,
		string(stmt.Direction),
		stmt.Date.UnixMilli(),
		stmt.DateInferred,
		stmt.Description,
		balance,
		stmt.ReferenceID,
		stmt.Confidence,
		stmt.RawText,
		stmt.Source,
		stmt.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return false, wrapError("failed to insert statement", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected == 1, nil
}

// GetStatement retrieves a single statement by ID.
func (s *SQLiteStorage) GetStatement(ctx context.Context, id string) (*model.Statement, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+statementColumns+` FROM statements WHERE id = ?`, id)
	stmt, err := scanStatement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("statement %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

// CountStatements returns how many statements accountID owns.
func (s *SQLiteStorage) CountStatements(ctx context.Context, accountID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM statements WHERE account_id = ?`, accountID).Scan(&count)
	if err != nil {
		return 0, wrapError("failed to count statements", err)
	}
	return count, nil
}

// ListStatements returns one page of accountID's statements, newest first.
// An empty or malformed cursor starts from the first page.
func (s *SQLiteStorage) ListStatements(ctx context.Context, accountID string, filter model.Filter, cursor string, limit int) (*service.Page, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return nil, err
	}

	limit = s.limits.Normalize(limit)
	decoded := pagination.DecodeCursor(cursor)
	bounds := pagination.BuildQuery(filter, &decoded, limit)

	query, args := renderQuery(accountID, bounds)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError("failed to query statements", err)
	}
	defer func() { _ = rows.Close() }()

	stmts := make([]*model.Statement, 0, bounds.FetchLimit)
	for rows.Next() {
		stmt, err := scanStatement(rows)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statements: %w", err)
	}

	page, next := pagination.NextPage(stmts, bounds.Limit, pagination.StatementKey)
	return &service.Page{Statements: page, NextCursor: next, Limit: limit}, nil
}

// renderQuery translates QueryBounds into a parameterised SELECT.
func renderQuery(accountID string, q pagination.QueryBounds) (string, []any) {
	where := []string{"account_id = ?"}
	args := []any{accountID}

	for _, p := range q.Predicates {
		column, ok := columnFor[p.Field]
		if !ok {
			continue
		}
		where = append(where, fmt.Sprintf("%s %s ?", column, p.Op))
		args = append(args, sqlValue(p.Value))
	}

	if q.Before != nil {
		ts := q.Before.Timestamp.UnixMilli()
		where = append(where, "(created_ms < ? OR (created_ms = ? AND id < ?))")
		args = append(args, ts, ts, q.Before.ID)
	}

	order := make([]string, 0, len(q.Order))
	for _, o := range q.Order {
		dir := "ASC"
		if o.Descending {
			dir = "DESC"
		}
		order = append(order, columnFor[o.Field]+" "+dir)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(statementColumns)
	b.WriteString(" FROM statements WHERE ")
	b.WriteString(strings.Join(where, " AND "))
	if len(order) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(order, ", "))
	}
	b.WriteString(" LIMIT ?")
	args = append(args, q.FetchLimit)

	return b.String(), args
}

func sqlValue(v any) any {
	switch val := v.(type) {
	case model.Direction:
		return string(val)
	case time.Time:
		return val.UnixMilli()
	case decimal.Decimal:
		return val.InexactFloat64()
	default:
		return v
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStatement(row rowScanner) (*model.Statement, error) {
	var (
		stmt      model.Statement
		amount    string
		direction string
		dateMS    int64
		createdMS int64
		balance   sql.NullString
	)

	err := row.Scan(
		&stmt.ID,
		&stmt.AccountID,
		&stmt.Hash,
		&amount,
		&stmt.Currency,
		&direction,
		&dateMS,
		&stmt.DateInferred,
		&stmt.Description,
		&balance,
		&stmt.ReferenceID,
		&stmt.Confidence,
		&stmt.RawText,
		&stmt.Source,
		&createdMS,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, wrapError("failed to scan statement", err)
	}

	stmt.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("statement %s: %w: amount %q", stmt.ID, common.ErrDatabaseCorrupted, amount)
	}
	if balance.Valid {
		b, err := decimal.NewFromString(balance.String)
		if err != nil {
			return nil, fmt.Errorf("statement %s: %w: balance %q", stmt.ID, common.ErrDatabaseCorrupted, balance.String)
		}
		stmt.Balance = &b
	}
	stmt.Direction = model.Direction(direction)
	stmt.Date = time.UnixMilli(dateMS).UTC()
	stmt.CreatedAt = time.UnixMilli(createdMS).UTC()

	return &stmt, nil
}
