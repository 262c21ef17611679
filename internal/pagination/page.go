package pagination

import (
	"slices"
	"time"

	"github.com/Veraticus/alertledger/internal/model"
)

// Limits bounds the page size a caller may request.
type Limits struct {
	Default int
	Max     int
}

// DefaultLimits returns a default page of 10 and a ceiling of 50.
func DefaultLimits() Limits {
	return Limits{Default: 10, Max: 50}
}

// Normalize maps a requested page size into [1, Max]. Non-positive requests
// get Default.
func (l Limits) Normalize(n int) int {
	if l.Default <= 0 || l.Max <= 0 || l.Default > l.Max {
		l = DefaultLimits()
	}
	if n <= 0 {
		return l.Default
	}
	return min(n, l.Max)
}

// NextPage trims rows fetched with a limit+1 read down to limit and returns
// the cursor of the last kept row. The cursor is "" when rows held no
// extra row, meaning this is the final page.
func NextPage[T any](rows []T, limit int, key func(T) (time.Time, string)) ([]T, string) {
	if limit <= 0 || len(rows) <= limit {
		return rows, ""
	}
	rows = rows[:limit]
	ts, id := key(rows[limit-1])
	return rows, EncodeCursor(ts, id)
}

// StatementKey is the key function NextPage uses for statements.
func StatementKey(s *model.Statement) (time.Time, string) {
	return s.SortKey()
}

// PageSlice runs bounds against an in-memory set of statements the same way
// a storage backend would.
func PageSlice(all []*model.Statement, bounds QueryBounds) ([]*model.Statement, string) {
	var matched []*model.Statement
	for _, s := range all {
		if bounds.Matches(s) {
			matched = append(matched, s)
		}
	}

	slices.SortFunc(matched, func(a, b *model.Statement) int {
		switch {
		case Less(a.CreatedAt, a.ID, b.CreatedAt, b.ID):
			return 1
		case Less(b.CreatedAt, b.ID, a.CreatedAt, a.ID):
			return -1
		default:
			return 0
		}
	})

	if len(matched) > bounds.FetchLimit {
		matched = matched[:bounds.FetchLimit]
	}
	return NextPage(matched, bounds.Limit, StatementKey)
}
