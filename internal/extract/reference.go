package extract

import "regexp"

var referencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:utr|rrn|ref(?:erence)?\s*no|txn(?:\s*id)?|transaction\s*id)\s*[:\-]?\s*([a-z0-9\-]{6,})\b`),
	regexp.MustCompile(`(?i)\b(?:upi\s*ref)\s*[:\-]?\s*([a-z0-9]{6,})\b`),
}

// ExtractReference returns the UTR/RRN/reference identifier quoted in the
// text, or "" when none is present.
func ExtractReference(text string) string {
	for _, re := range referencePatterns {
		if m := re.FindStringSubmatch(text); len(m) > 1 && m[1] != "" {
			return m[1]
		}
	}
	return ""
}
