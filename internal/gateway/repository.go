package gateway

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"order-reconciliation/internal/domain"
	"order-reconciliation/internal/usecase"
)

// FileRepository picks a decoder by file extension.
type FileRepository struct {
	excel usecase.SpreadsheetRepository
	csv   usecase.SpreadsheetRepository
}

// NewFileRepository wires the excelize and CSV decoders.
func NewFileRepository() *FileRepository {
	return &FileRepository{
		excel: NewExcelRepository(),
		csv:   NewCSVRepository(),
	}
}

// IsSupported reports whether name has an extension ReadRows can decode.
func IsSupported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".csv":
		return true
	}
	return false
}

// ReadRows decodes .xlsx/.xlsm workbooks and .csv exports. Legacy binary .xls
// workbooks are rejected.
func (r *FileRepository) ReadRows(ctx context.Context, path string) (*domain.Sheet, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return r.excel.ReadRows(ctx, path)
	case ".csv":
		return r.csv.ReadRows(ctx, path)
	case ".xls":
		return nil, &domain.ParseError{
			File:   path,
			Reason: "legacy .xls workbooks are not supported, save the file as .xlsx",
			Err:    domain.ErrUnsupportedFormat,
		}
	default:
		return nil, &domain.ParseError{
			File:   path,
			Reason: fmt.Sprintf("unsupported file extension %q", ext),
			Err:    domain.ErrUnsupportedFormat,
		}
	}
}
