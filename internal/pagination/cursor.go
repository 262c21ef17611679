// Package pagination implements keyset paging over statements ordered by
// (created_at DESC, id DESC).
package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrMalformedCursor is returned by ParseCursor for tokens that cannot be decoded.
var ErrMalformedCursor = errors.New("malformed cursor")

const (
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
	separator       = "|"
)

// Cursor marks the last row of a page. The next page starts strictly after it.
type Cursor struct {
	Timestamp time.Time
	ID        string
}

// Sentinel is the cursor DecodeCursor falls back to. Listings treat it as
// "start from the first page".
func Sentinel() Cursor {
	return Cursor{Timestamp: time.Unix(0, 0).UTC()}
}

// IsZero reports whether c is the sentinel (or the zero value).
func (c Cursor) IsZero() bool {
	return c.ID == ""
}

// String returns the opaque token form of c.
func (c Cursor) String() string {
	if c.IsZero() {
		return ""
	}
	return EncodeCursor(c.Timestamp, c.ID)
}

// EncodeCursor produces the opaque token for a (timestamp, id) pair. The id
// must not contain '|': such a token does not decode and ParseCursor rejects
// it. Statement ids are UUIDs and never do.
func EncodeCursor(ts time.Time, id string) string {
	raw := ts.UTC().Format(timestampLayout) + separator + id
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// ParseCursor decodes a token, reporting why it is unusable.
func ParseCursor(token string) (Cursor, error) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %w", ErrMalformedCursor, err)
	}

	parts := strings.Split(string(decoded), separator)
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("%w: expected 2 parts, got %d", ErrMalformedCursor, len(parts))
	}
	if parts[0] == "" || parts[1] == "" {
		return Cursor{}, fmt.Errorf("%w: empty timestamp or id", ErrMalformedCursor)
	}

	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: invalid timestamp: %w", ErrMalformedCursor, err)
	}

	return Cursor{Timestamp: ts.UTC(), ID: parts[1]}, nil
}

// DecodeCursor never fails. An empty token means the first page; a malformed
// one is logged and replaced by the Sentinel.
func DecodeCursor(token string) Cursor {
	if token == "" {
		return Sentinel()
	}
	c, err := ParseCursor(token)
	if err != nil {
		slog.Warn("Invalid pagination cursor", "error", err)
		return Sentinel()
	}
	return c
}
