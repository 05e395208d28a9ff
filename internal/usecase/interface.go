package usecase

import (
	"context"

	"order-reconciliation/internal/domain"
)

// SpreadsheetRepository defines the interface for decoding order sheets.
// The usecase layer depends on this interface, not on a concrete file format.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go SpreadsheetRepository
type SpreadsheetRepository interface {
	// ReadRows returns the header row and the data rows of the first sheet in
	// the file at path. The file is closed before ReadRows returns.
	ReadRows(ctx context.Context, path string) (*domain.Sheet, error)
}
