package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Filter narrows a statement listing. Nil fields are ignored and the
// remaining ones are combined with AND.
type Filter struct {
	Direction *Direction
	DateFrom  *time.Time
	DateTo    *time.Time
	AmountMin *decimal.Decimal
	AmountMax *decimal.Decimal
}

// IsEmpty reports whether no criteria are set.
func (f Filter) IsEmpty() bool {
	return f.Direction == nil && f.DateFrom == nil && f.DateTo == nil &&
		f.AmountMin == nil && f.AmountMax == nil
}
