package extract

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney converts a money-looking substring such as "1,234.50" into a
// decimal. Everything except ASCII digits and '.' is dropped first, so
// thousands separators and stray symbols are tolerated. It reports false when
// nothing parseable remains or when more than one decimal point survives,
// which happens when several numbers were glued together ("1.2.3").
func ParseMoney(raw string) (decimal.Decimal, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)

	if cleaned == "" || strings.Count(cleaned, ".") > 1 {
		return decimal.Zero, false
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}
