package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/alertledger/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidStatement = errors.New("invalid statement")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateStatement checks the fields the schema cannot enforce.
func validateStatement(stmt *model.Statement) error {
	if stmt == nil {
		return fmt.Errorf("%w: statement", ErrNilParameter)
	}
	if !stmt.Direction.Valid() {
		return fmt.Errorf("%w: direction %q", ErrInvalidStatement, stmt.Direction)
	}
	if strings.TrimSpace(stmt.Currency) == "" {
		return fmt.Errorf("%w: missing currency", ErrInvalidStatement)
	}
	if stmt.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidStatement)
	}
	if stmt.Amount.IsNegative() {
		return fmt.Errorf("%w: negative amount %s", ErrInvalidStatement, stmt.Amount)
	}
	if stmt.Confidence < 0 || stmt.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1", ErrInvalidStatement)
	}
	if strings.TrimSpace(stmt.RawText) == "" {
		return fmt.Errorf("%w: missing raw text", ErrInvalidStatement)
	}
	return nil
}
