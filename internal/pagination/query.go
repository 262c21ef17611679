package pagination

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/alertledger/internal/model"
)

// Field names a statement attribute a predicate or ordering refers to.
type Field string

// Fields understood by QueryBounds.
const (
	FieldDirection Field = "direction"
	FieldDate      Field = "date"
	FieldAmount    Field = "amount"
	FieldCreatedAt Field = "created_at"
	FieldID        Field = "id"
)

// Op is a comparison operator.
type Op string

// Supported operators.
const (
	OpEq  Op = "="
	OpGte Op = ">="
	OpLte Op = "<="
)

// Predicate compares one field against a value. Value is a model.Direction,
// a time.Time or a decimal.Decimal depending on Field.
type Predicate struct {
	Value any
	Field Field
	Op    Op
}

// Sort is one ordering term.
type Sort struct {
	Field      Field
	Descending bool
}

// QueryBounds is a storage-agnostic description of one page read.
// Predicates are ANDed together with the Before keyset condition:
//
//	created_at < Before.Timestamp OR (created_at = Before.Timestamp AND id < Before.ID)
type QueryBounds struct {
	Before     *Cursor
	Predicates []Predicate
	Order      []Sort
	// Limit is the page size; FetchLimit is Limit+1 so the caller can tell
	// whether another page exists.
	Limit      int
	FetchLimit int
}

// DefaultOrder is the only ordering listings use.
var DefaultOrder = []Sort{
	{Field: FieldCreatedAt, Descending: true},
	{Field: FieldID, Descending: true},
}

// BuildQuery turns filter criteria and an optional cursor into QueryBounds.
// A nil or sentinel cursor reads from the beginning. limit is taken as given;
// callers clamp it with Limits.Normalize first.
func BuildQuery(filter model.Filter, cursor *Cursor, limit int) QueryBounds {
	var preds []Predicate

	if filter.Direction != nil {
		preds = append(preds, Predicate{Field: FieldDirection, Op: OpEq, Value: *filter.Direction})
	}
	if filter.DateFrom != nil {
		preds = append(preds, Predicate{Field: FieldDate, Op: OpGte, Value: *filter.DateFrom})
	}
	if filter.DateTo != nil {
		preds = append(preds, Predicate{Field: FieldDate, Op: OpLte, Value: *filter.DateTo})
	}
	if filter.AmountMin != nil {
		preds = append(preds, Predicate{Field: FieldAmount, Op: OpGte, Value: *filter.AmountMin})
	}
	if filter.AmountMax != nil {
		preds = append(preds, Predicate{Field: FieldAmount, Op: OpLte, Value: *filter.AmountMax})
	}

	bounds := QueryBounds{
		Predicates: preds,
		Order:      DefaultOrder,
		Limit:      limit,
		FetchLimit: limit + 1,
	}
	if cursor != nil && !cursor.IsZero() {
		c := *cursor
		bounds.Before = &c
	}
	return bounds
}

// Matches evaluates the bounds against a single statement in memory.
func (q QueryBounds) Matches(s *model.Statement) bool {
	for _, p := range q.Predicates {
		if !p.matches(s) {
			return false
		}
	}
	if q.Before != nil && !Less(s.CreatedAt, s.ID, q.Before.Timestamp, q.Before.ID) {
		return false
	}
	return true
}

// Less reports whether the key (ts, id) is strictly smaller than
// (otherTS, otherID). Listings are descending, so smaller keys come later.
func Less(ts time.Time, id string, otherTS time.Time, otherID string) bool {
	if ts.Equal(otherTS) {
		return id < otherID
	}
	return ts.Before(otherTS)
}

func (p Predicate) matches(s *model.Statement) bool {
	switch p.Field {
	case FieldDirection:
		d, ok := p.Value.(model.Direction)
		return ok && s.Direction == d
	case FieldDate:
		t, ok := p.Value.(time.Time)
		return ok && compare(s.Date.Compare(t), p.Op)
	case FieldAmount:
		v, ok := p.Value.(decimal.Decimal)
		return ok && compare(s.Amount.Cmp(v), p.Op)
	default:
		return false
	}
}

func compare(cmp int, op Op) bool {
	switch op {
	case OpEq:
		return cmp == 0
	case OpGte:
		return cmp >= 0
	case OpLte:
		return cmp <= 0
	default:
		return false
	}
}
