package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{name: "iso dashes", text: "debited on 2025-09-12", want: day(2025, 9, 12)},
		{name: "iso slashes short parts", text: "on 2025/9/1 at 10:00", want: day(2025, 9, 1)},
		{name: "day first four digit year", text: "debited on 12-09-2025.", want: day(2025, 9, 12)},
		{name: "day first two digit year", text: "on 05/01/24", want: day(2024, 1, 5)},
		{name: "two digit year never wraps to last century", text: "on 01/01/99", want: day(2099, 1, 1)},
		{name: "abbreviated month", text: "on 18 Jan 2026", want: day(2026, 1, 18)},
		{name: "full month", text: "3 September 2024 salary", want: day(2024, 9, 3)},
		{name: "sept", text: "on 1 sept 2024", want: day(2024, 9, 1)},
		{name: "upper case month", text: "ON 9 MAR 2023", want: day(2023, 3, 9)},
		{name: "invalid numeric date falls through", text: "31-02-2025 or 18 Jan 2026", want: day(2026, 1, 18)},
		{name: "iso preferred over day first", text: "12-09-2025 and 2024-01-02", want: day(2024, 1, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.text, time.UTC)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseDate_NoMatch(t *testing.T) {
	tests := []string{
		"",
		"INR 500 debited",
		"31-02-2025",
		"2025-13-40",
		"45 Foo 2024",
	}

	for _, text := range tests {
		_, ok := ParseDate(text, time.UTC)
		assert.False(t, ok, text)
	}
}

func TestParseDate_Location(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	got, ok := ParseDate("on 12-09-2025", ist)
	require.True(t, ok)
	assert.Equal(t, ist, got.Location())
	assert.Equal(t, 12, got.Day())
	assert.Equal(t, 0, got.Hour())

	got, ok = ParseDate("on 12-09-2025", nil)
	require.True(t, ok)
	assert.Equal(t, time.UTC, got.Location())
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
