package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// yyyy-mm-dd or yyyy/mm/dd
	isoDatePattern = regexp.MustCompile(`\b(\d{4})[-/](\d{1,2})[-/](\d{1,2})\b`)

	// dd-mm-yyyy, dd/mm/yy and friends; day first as Indian banks write it
	dayFirstPattern = regexp.MustCompile(`\b(\d{1,2})[-/](\d{1,2})[-/](\d{2,4})\b`)

	// 18 Jan 2026 / 18 January 2026
	monthNamePattern = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|sept|september|oct|october|nov|november|dec|december)\s+(\d{4})\b`)

	monthMap = map[string]time.Month{
		"jan":       time.January,
		"january":   time.January,
		"feb":       time.February,
		"february":  time.February,
		"mar":       time.March,
		"march":     time.March,
		"apr":       time.April,
		"april":     time.April,
		"may":       time.May,
		"jun":       time.June,
		"june":      time.June,
		"jul":       time.July,
		"july":      time.July,
		"aug":       time.August,
		"august":    time.August,
		"sep":       time.September,
		"sept":      time.September,
		"september": time.September,
		"oct":       time.October,
		"october":   time.October,
		"nov":       time.November,
		"november":  time.November,
		"dec":       time.December,
		"december":  time.December,
	}
)

// ParseDate finds the first recognisable calendar date in text. Formats are
// tried in a fixed order (ISO, day-first numeric, day-month-name) and the
// first one whose first match is a real date wins. Two-digit years always
// land in the 2000s.
func ParseDate(text string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}

	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		if t, ok := calendarDate(atoi(m[1]), atoi(m[2]), atoi(m[3]), loc); ok {
			return t, true
		}
	}

	if m := dayFirstPattern.FindStringSubmatch(text); m != nil {
		year := atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if t, ok := calendarDate(year, atoi(m[2]), atoi(m[1]), loc); ok {
			return t, true
		}
	}

	if m := monthNamePattern.FindStringSubmatch(text); m != nil {
		month, known := monthMap[strings.ToLower(m[2])]
		if known {
			if t, ok := calendarDate(atoi(m[3]), int(month), atoi(m[1]), loc); ok {
				return t, true
			}
		}
	}

	return time.Time{}, false
}

// calendarDate builds midnight on the given day, rejecting dates that
// time.Date would silently roll over (31 Feb, month 13).
func calendarDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
