// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the flow of money a statement describes.
type Direction string

// Direction constants.
const (
	DirectionDebit  Direction = "debit"
	DirectionCredit Direction = "credit"
)

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	return d == DirectionDebit || d == DirectionCredit
}

// ParseDirection converts user input into a Direction.
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if !d.Valid() {
		return "", fmt.Errorf("invalid direction %q: must be debit or credit", s)
	}
	return d, nil
}

// Statement sources.
const (
	SourceAlert = "alert"
	SourceOFX   = "ofx"
)

// Statement is a structured record extracted from a transaction alert.
type Statement struct {
	Date        time.Time        `json:"date"`
	CreatedAt   time.Time        `json:"createdAt,omitempty"`
	Balance     *decimal.Decimal `json:"balance,omitempty"`
	ID          string           `json:"id,omitempty"`
	AccountID   string           `json:"accountId,omitempty"`
	Hash        string           `json:"-"`
	Currency    string           `json:"currency"`
	Direction   Direction        `json:"type"`
	Description string           `json:"description"`
	ReferenceID string           `json:"referenceId,omitempty"`
	RawText     string           `json:"rawText,omitempty"`
	Source      string           `json:"source,omitempty"`
	Amount      decimal.Decimal  `json:"amount"`
	Confidence  float64          `json:"confidence"`

	// DateInferred is set when the alert carried no date and Date is the
	// extraction time.
	DateInferred bool `json:"dateInferred,omitempty"`
}

// GenerateHash creates a unique hash for duplicate detection. An inferred
// date is left out so the same undated alert hashes alike on any day.
func (s *Statement) GenerateHash() string {
	day := ""
	if !s.DateInferred {
		day = s.Date.Format("2006-01-02")
	}
	data := fmt.Sprintf("%s:%s:%s:%s:%s:%s",
		s.AccountID,
		day,
		s.Amount.StringFixed(2),
		s.Direction,
		s.ReferenceID,
		s.RawText)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// SortKey returns the (timestamp, id) pair listings are ordered by.
func (s *Statement) SortKey() (time.Time, string) {
	return s.CreatedAt, s.ID
}
