// Package extract turns free-form transaction alerts (bank SMS, push
// notifications, log lines) into structured statements.
//
// Every function in this package is pure: pattern tables are compiled once at
// package initialisation and never mutated, so extraction is safe to call
// from any number of goroutines.
package extract

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/alertledger/internal/model"
)

// Descriptions assigned to extracted statements.
const (
	DescriptionDebit   = "Debit transaction"
	DescriptionCredit  = "Credit transaction"
	DescriptionUnknown = "Unknown transaction"
)

// Options controls extraction policy.
type Options struct {
	// Location is the zone parsed calendar dates are placed in.
	Location *time.Location
	// Now supplies the date used when the text carries none.
	Now func() time.Time
	// DefaultCurrency is used when no rupee marker accompanies the amount.
	DefaultCurrency string
	// Strict fails on blank input or a missing amount instead of degrading.
	Strict bool
	// IncludeRawText copies the normalised input onto the statement.
	IncludeRawText bool
}

// DefaultOptions returns strict extraction with INR as the fallback currency.
func DefaultOptions() Options {
	return Options{
		Strict:          true,
		DefaultCurrency: CurrencyINR,
		Location:        time.UTC,
		Now:             time.Now,
	}
}

// Extractor applies a fixed set of Options to every alert it is given.
type Extractor struct {
	opts Options
}

// New creates an Extractor. Unset currency, location and clock fall back to
// the values from DefaultOptions; Strict and IncludeRawText are taken as given.
func New(opts Options) *Extractor {
	defaults := DefaultOptions()
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = defaults.DefaultCurrency
	}
	if opts.Location == nil {
		opts.Location = defaults.Location
	}
	if opts.Now == nil {
		opts.Now = defaults.Now
	}
	return &Extractor{opts: opts}
}

// Options returns the effective options.
func (e *Extractor) Options() Options {
	return e.opts
}

// Extract is shorthand for New(opts).Extract(text). A zero Options is not
// strict; start from DefaultOptions() to get strict extraction.
func Extract(text string, opts Options) (*model.Statement, error) {
	return New(opts).Extract(text)
}

// Extract parses a single alert.
//
// In strict mode it returns ErrEmptyInput for blank text and an
// *AmountNotFoundError when no amount can be located. Otherwise it never
// fails and degrades to a zero amount.
func (e *Extractor) Extract(text string) (*model.Statement, error) {
	if strings.TrimSpace(text) == "" {
		if e.opts.Strict {
			return nil, ErrEmptyInput
		}
		stmt := &model.Statement{
			Amount:       decimal.Zero,
			Currency:     e.opts.DefaultCurrency,
			Direction:    model.DirectionDebit,
			Date:         e.opts.Now(),
			Description:  DescriptionUnknown,
			Confidence:   0,
			DateInferred: true,
		}
		if e.opts.IncludeRawText {
			stmt.RawText = text
		}
		return stmt, nil
	}

	normalized := NormalizeWhitespace(text)
	lower := strings.ToLower(normalized)

	direction := ClassifyDirection(lower)

	amount := ExtractAmount(normalized, e.opts.DefaultCurrency)
	if amount.Amount == nil && e.opts.Strict {
		return nil, &AmountNotFoundError{Text: normalized}
	}

	date, ok := ParseDate(normalized, e.opts.Location)
	if !ok {
		date = e.opts.Now()
	}

	stmt := &model.Statement{
		Amount:       decimal.Zero,
		Currency:     amount.Currency,
		Direction:    direction.Direction,
		Date:         date,
		DateInferred: !ok,
		Description:  describe(direction.Direction),
		Confidence:   direction.Confidence,
		Balance:      ExtractBalance(normalized),
		ReferenceID:  ExtractReference(normalized),
	}
	if amount.Amount != nil {
		stmt.Amount = *amount.Amount
	}
	if e.opts.IncludeRawText {
		stmt.RawText = normalized
	}

	return stmt, nil
}

// NormalizeWhitespace collapses runs of whitespace to a single space and
// trims the ends.
func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func describe(d model.Direction) string {
	if d == model.DirectionCredit {
		return DescriptionCredit
	}
	return DescriptionDebit
}
