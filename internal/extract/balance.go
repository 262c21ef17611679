package extract

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// balancePatterns capture the running balance in group 2.
var balancePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(available\s*balance|avl\s*bal|avl\.?\s*bal|balance|bal|a/c\s*bal|ac\s*bal|closing\s*balance)\s*[:\-]?\s*` + optionalCurrency + `\s*` + numberExpr),
	regexp.MustCompile(`(?i)\b(available\s*balance|avl\s*bal|balance)\s*(?:is)?\s*(?:inr|rs\.?|₹)\s*` + numberExpr),
}

// ExtractBalance returns the available or closing balance mentioned in the
// text, or nil when there is none.
func ExtractBalance(normalized string) *decimal.Decimal {
	for _, re := range balancePatterns {
		m := re.FindStringSubmatch(normalized)
		if len(m) < 3 || m[2] == "" {
			continue
		}
		if value, ok := ParseMoney(m[2]); ok {
			return &value
		}
	}
	return nil
}
