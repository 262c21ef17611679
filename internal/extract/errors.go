package extract

import (
	"errors"
	"fmt"
)

// Extraction errors. They are only returned in strict mode.
var (
	ErrEmptyInput     = errors.New("invalid input: empty text")
	ErrAmountNotFound = errors.New("unable to extract amount")
)

// AmountNotFoundError names the normalised text no amount could be read from.
type AmountNotFoundError struct {
	Text string
}

func (e *AmountNotFoundError) Error() string {
	return fmt.Sprintf("%s from: %q", ErrAmountNotFound, e.Text)
}

func (e *AmountNotFoundError) Unwrap() error {
	return ErrAmountNotFound
}
