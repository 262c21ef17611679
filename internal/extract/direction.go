package extract

import (
	"math"
	"regexp"
	"strings"

	"github.com/Veraticus/alertledger/internal/model"
)

// Scoring constants for direction classification.
const (
	keywordWeight      = 2.0
	shortFormWeight    = 2.0
	refundBias         = 4.0
	failureDamping     = 0.7
	fallbackConfidence = 0.35
	confidenceOffset   = 0.35
	minConfidence      = 0.4
	maxConfidence      = 0.95
)

// directionKeyword is one row of the keyword scoring table. A keyword counts
// once when it appears anywhere in the lower-cased text.
type directionKeyword struct {
	Keyword   string
	Direction model.Direction
	Weight    float64
}

// directionKeywords is evaluated in order; order does not affect the score.
var directionKeywords = []directionKeyword{
	{Keyword: "debited", Direction: model.DirectionDebit, Weight: keywordWeight},
	{Keyword: "debit", Direction: model.DirectionDebit, Weight: keywordWeight},
	{Keyword: "dr", Direction: model.DirectionDebit, Weight: keywordWeight},
	{Keyword: "spent", Direction: model.DirectionDebit, Weight: keywordWeight},
	{Keyword: "paid", Direction: model.DirectionDebit, Weight: keywordWeight},
	{Keyword: "withdrawn", Direction: model.DirectionDebit, Weight: keywordWeight},
	{Keyword: "purchase", Direction: model.DirectionDebit, Weight: keywordWeight},
	{Keyword: "sent", Direction: model.DirectionDebit, Weight: keywordWeight},
	{Keyword: "transfer to", Direction: model.DirectionDebit, Weight: keywordWeight},
	{Keyword: "upi/pay", Direction: model.DirectionDebit, Weight: keywordWeight},
	{Keyword: "imps", Direction: model.DirectionDebit, Weight: keywordWeight},
	{Keyword: "neft", Direction: model.DirectionDebit, Weight: keywordWeight},
	{Keyword: "rtgs", Direction: model.DirectionDebit, Weight: keywordWeight},
	{Keyword: "bill", Direction: model.DirectionDebit, Weight: keywordWeight},
	{Keyword: "charged", Direction: model.DirectionDebit, Weight: keywordWeight},
	{Keyword: "fee", Direction: model.DirectionDebit, Weight: keywordWeight},

	{Keyword: "credited", Direction: model.DirectionCredit, Weight: keywordWeight},
	{Keyword: "credit", Direction: model.DirectionCredit, Weight: keywordWeight},
	{Keyword: "cr", Direction: model.DirectionCredit, Weight: keywordWeight},
	{Keyword: "received", Direction: model.DirectionCredit, Weight: keywordWeight},
	{Keyword: "refund", Direction: model.DirectionCredit, Weight: keywordWeight},
	{Keyword: "reversal", Direction: model.DirectionCredit, Weight: keywordWeight},
	{Keyword: "cashback", Direction: model.DirectionCredit, Weight: keywordWeight},
	{Keyword: "salary", Direction: model.DirectionCredit, Weight: keywordWeight},
	{Keyword: "interest", Direction: model.DirectionCredit, Weight: keywordWeight},
	{Keyword: "cash deposit", Direction: model.DirectionCredit, Weight: keywordWeight},
	{Keyword: "deposit", Direction: model.DirectionCredit, Weight: keywordWeight},
	{Keyword: "received from", Direction: model.DirectionCredit, Weight: keywordWeight},
	{Keyword: "transfer from", Direction: model.DirectionCredit, Weight: keywordWeight},
}

// directionToken is a short form that only counts as a whole word.
type directionToken struct {
	re        *regexp.Regexp
	Direction model.Direction
	Weight    float64
}

var directionTokens = []directionToken{
	{re: regexp.MustCompile(`\bdr\b`), Direction: model.DirectionDebit, Weight: shortFormWeight},
	{re: regexp.MustCompile(`\bcr\b`), Direction: model.DirectionCredit, Weight: shortFormWeight},
}

// refundKeywords force a credit reading even when the alert also mentions
// the original debit.
var refundKeywords = []string{"refund", "reversal"}

// failureKeywords damp both scores; a failed transaction is still classified.
var failureKeywords = []string{"failed", "declined", "rejected", "unsuccessful", "reversed"}

// DirectionResult is the outcome of ClassifyDirection.
type DirectionResult struct {
	Direction   model.Direction
	Confidence  float64
	DebitScore  float64
	CreditScore float64
	Failed      bool
}

// ClassifyDirection scores lower-cased alert text as a debit or a credit.
func ClassifyDirection(lower string) DirectionResult {
	var debit, credit float64

	add := func(d model.Direction, w float64) {
		if d == model.DirectionDebit {
			debit += w
		} else {
			credit += w
		}
	}

	for _, kw := range directionKeywords {
		if strings.Contains(lower, kw.Keyword) {
			add(kw.Direction, kw.Weight)
		}
	}

	for _, tok := range directionTokens {
		if tok.re.MatchString(lower) {
			add(tok.Direction, tok.Weight)
		}
	}

	if containsAny(lower, refundKeywords) {
		credit += refundBias
	}

	failed := containsAny(lower, failureKeywords)
	if failed {
		debit *= failureDamping
		credit *= failureDamping
	}

	result := DirectionResult{
		DebitScore:  debit,
		CreditScore: credit,
		Failed:      failed,
	}

	total := debit + credit
	if total == 0 {
		result.Direction = model.DirectionDebit
		result.Confidence = fallbackConfidence
		return result
	}

	result.Direction = model.DirectionDebit
	if credit > debit {
		result.Direction = model.DirectionCredit
	}
	result.Confidence = math.Min(maxConfidence, math.Max(minConfidence, math.Abs(debit-credit)/total+confidenceOffset))
	return result
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
