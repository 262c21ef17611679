package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCursor_Format(t *testing.T) {
	ts := time.Date(2025, 9, 12, 10, 30, 15, 123456789, time.UTC)

	token := EncodeCursor(ts, "abc-123")

	raw, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Equal(t, "2025-09-12T10:30:15.123Z|abc-123", string(raw))
}

func TestEncodeCursor_ConvertsToUTC(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)
	ts := time.Date(2025, 1, 1, 5, 30, 0, 0, ist)

	raw, err := base64.StdEncoding.DecodeString(EncodeCursor(ts, "x"))
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01T00:00:00.000Z|x", string(raw))
}

func TestCursor_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ts   time.Time
		id   string
	}{
		{name: "uuid", ts: time.Date(2025, 9, 12, 10, 30, 15, 123000000, time.UTC), id: "0192c3a4-7d1e-7b2a-9f00-1a2b3c4d5e6f"},
		{name: "epoch millis", ts: time.UnixMilli(1).UTC(), id: "a"},
		{name: "id with spaces", ts: time.Date(2030, 12, 31, 23, 59, 59, 999000000, time.UTC), id: "some id"},
		{name: "whole second", ts: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), id: "leap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeCursor(EncodeCursor(tt.ts, tt.id))
			assert.True(t, tt.ts.Equal(got.Timestamp), "want %v got %v", tt.ts, got.Timestamp)
			assert.Equal(t, tt.id, got.ID)
			assert.False(t, got.IsZero())
		})
	}
}

func TestCursor_RoundTripTruncatesToMillis(t *testing.T) {
	ts := time.Date(2025, 9, 12, 10, 30, 15, 123999999, time.UTC)

	got := DecodeCursor(EncodeCursor(ts, "id"))

	assert.True(t, ts.Truncate(time.Millisecond).Equal(got.Timestamp))
}

func TestDecodeCursor_Malformed(t *testing.T) {
	encode := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name  string
		token string
	}{
		{name: "not base64", token: "not-base64!!"},
		{name: "missing separator", token: encode("2025-09-12T10:30:15.123Z")},
		{name: "too many separators", token: encode("2025-09-12T10:30:15.123Z|a|b")},
		{name: "empty id", token: encode("2025-09-12T10:30:15.123Z|")},
		{name: "empty timestamp", token: encode("|abc")},
		{name: "bad timestamp", token: encode("yesterday|abc")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCursor(tt.token)
			require.ErrorIs(t, err, ErrMalformedCursor)

			var got Cursor
			assert.NotPanics(t, func() { got = DecodeCursor(tt.token) })
			assert.Equal(t, Sentinel(), got)
			assert.True(t, got.IsZero())
			assert.True(t, time.Unix(0, 0).Equal(got.Timestamp))
			assert.Empty(t, got.ID)
		})
	}
}

func TestEncodeCursor_SeparatorInID(t *testing.T) {
	token := EncodeCursor(time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC), "a|b")

	_, err := ParseCursor(token)
	require.ErrorIs(t, err, ErrMalformedCursor)
	assert.True(t, DecodeCursor(token).IsZero())
}

func TestDecodeCursor_Empty(t *testing.T) {
	assert.Equal(t, Sentinel(), DecodeCursor(""))
}

func TestCursor_String(t *testing.T) {
	assert.Empty(t, Sentinel().String())

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	c := Cursor{Timestamp: ts, ID: "x"}
	assert.Equal(t, EncodeCursor(ts, "x"), c.String())
}
