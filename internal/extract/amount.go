package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyINR is the ISO code assigned whenever a rupee marker is matched.
const CurrencyINR = "INR"

// Regex fragments shared by the amount and balance tables. A bare ₹ cannot
// sit behind \b because it is not a word character.
const (
	numberExpr         = `([\d,]+(?:\.\d{1,2})?)`
	leadingCurrency    = `(₹|\b(?:inr|rs\.?))`
	trailingCurrency   = `(₹|(?:inr|rs\.?)\b)`
	optionalCurrency   = `(?:inr|rs\.?|₹)?`
	amountKeywordRegex = `\b(?:amount|amt)\s*[:\-]?\s*`
)

// amountTemplate locates an amount and the currency token next to it.
type amountTemplate struct {
	re            *regexp.Regexp
	Name          string
	CurrencyGroup int
	AmountGroup   int
}

// amountTemplates are tried in order. Keyword-anchored forms come first so a
// balance figure later in the text is not mistaken for the amount.
var amountTemplates = []amountTemplate{
	{
		Name:          "keyword-currency-amount",
		re:            regexp.MustCompile(`(?i)` + amountKeywordRegex + leadingCurrency + `\s*` + numberExpr),
		CurrencyGroup: 1,
		AmountGroup:   2,
	},
	{
		Name:          "keyword-amount-currency",
		re:            regexp.MustCompile(`(?i)` + amountKeywordRegex + numberExpr + `\s*` + trailingCurrency),
		CurrencyGroup: 2,
		AmountGroup:   1,
	},
	{
		Name:          "currency-amount",
		re:            regexp.MustCompile(`(?i)` + leadingCurrency + `\s*` + numberExpr + `(?:/-)?\b`),
		CurrencyGroup: 1,
		AmountGroup:   2,
	},
	{
		Name:          "amount-currency",
		re:            regexp.MustCompile(`(?i)\b` + numberExpr + `\s*` + trailingCurrency),
		CurrencyGroup: 2,
		AmountGroup:   1,
	},
}

// rupeeMarkers identify a matched currency token as Indian rupees.
var rupeeMarkers = []string{"₹", "rs", "inr"}

// AmountResult is the outcome of ExtractAmount. Amount is nil when no
// template produced a usable number.
type AmountResult struct {
	Amount   *decimal.Decimal
	Currency string
	Template string
}

// ExtractAmount finds the transaction amount in whitespace-normalised text.
//
// Each template is consulted once, at its first match only. A match inside a
// noise window abandons that template rather than scanning further along
// the text.
func ExtractAmount(normalized, defaultCurrency string) AmountResult {
	for _, tmpl := range amountTemplates {
		loc := tmpl.re.FindStringSubmatchIndex(normalized)
		if loc == nil {
			continue
		}

		rawAmount, ok := submatch(normalized, loc, tmpl.AmountGroup)
		if !ok {
			continue
		}

		if IsNoise(normalized, loc[0]) {
			continue
		}

		amount, ok := ParseMoney(rawAmount)
		if !ok {
			continue
		}

		rawCurrency, _ := submatch(normalized, loc, tmpl.CurrencyGroup)
		return AmountResult{
			Amount:   &amount,
			Currency: normalizeCurrency(rawCurrency, defaultCurrency),
			Template: tmpl.Name,
		}
	}

	return AmountResult{Currency: defaultCurrency}
}

func normalizeCurrency(raw, defaultCurrency string) string {
	lower := strings.ToLower(raw)
	for _, marker := range rupeeMarkers {
		if strings.Contains(lower, marker) {
			return CurrencyINR
		}
	}
	return defaultCurrency
}

// submatch returns capture group n from a FindStringSubmatchIndex result.
func submatch(s string, loc []int, n int) (string, bool) {
	if 2*n+1 >= len(loc) || loc[2*n] < 0 {
		return "", false
	}
	return s[loc[2*n]:loc[2*n+1]], true
}
