package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingFile         = errors.New("required file is missing")
	ErrInsufficientRows    = errors.New("file must contain at least a header row and one data row")
	ErrUnsupportedFormat   = errors.New("unsupported spreadsheet format")
	ErrEmptySelection      = errors.New("select at least one sales item and one purchase item")
	ErrUnknownCandidate    = errors.New("item is not available for manual mapping")
	ErrUnbalancedSelection = errors.New("selected quantities do not balance")
)

// ParseError is returned when a spreadsheet cannot be turned into rows. File
// names the spreadsheet as the user knows it.
type ParseError struct {
	File   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("error parsing spreadsheet: %s", e.Reason)
	}
	return fmt.Sprintf("error parsing spreadsheet %s: %s", e.File, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError wraps err for file, using err's message as the reason.
func NewParseError(file string, err error) *ParseError {
	return &ParseError{File: file, Reason: err.Error(), Err: err}
}

// ValidationError rejects a manual mapping selection.
type ValidationError struct {
	Reason           string
	TotalSalesQty    float64
	TotalPurchaseQty float64
	Err              error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: sales total %g, purchase total %g", e.Reason, e.TotalSalesQty, e.TotalPurchaseQty)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
