package extract

import (
	"strings"
	"unicode/utf8"
)

// noiseRadius is the number of characters inspected on each side of a match.
const noiseRadius = 18

// noiseHints mark numbers that identify something rather than price it:
// OTPs, reference numbers, masked accounts and cards, phone numbers.
var noiseHints = []string{
	"otp",
	"ref",
	"rrn",
	"txn",
	"txnid",
	"transaction id",
	"utr",
	"upi ref",
	"id:",
	"a/c",
	"ac:",
	"card",
	"ending",
	"mob",
	"mobile",
	"ph",
	"phone",
	"cust",
	"customer",
}

// IsNoise reports whether the match starting at byte offset matchIndex sits
// next to an identifier keyword and should therefore not be read as money.
func IsNoise(text string, matchIndex int) bool {
	window := strings.ToLower(noiseWindow(text, matchIndex))
	for _, hint := range noiseHints {
		if strings.Contains(window, hint) {
			return true
		}
	}
	return false
}

// noiseWindow returns up to noiseRadius runes either side of matchIndex.
func noiseWindow(text string, matchIndex int) string {
	matchIndex = max(0, min(matchIndex, len(text)))
	runes := []rune(text)
	center := utf8.RuneCountInString(text[:matchIndex])

	start := max(0, center-noiseRadius)
	end := min(len(runes), center+noiseRadius)
	return string(runes[start:end])
}
