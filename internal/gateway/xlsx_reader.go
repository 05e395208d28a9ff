package gateway

import (
	"context"

	"github.com/xuri/excelize/v2"

	"order-reconciliation/internal/domain"
)

// ExcelRepository reads the first worksheet of an Office Open XML workbook.
type ExcelRepository struct{}

// NewExcelRepository creates a new repository instance.
func NewExcelRepository() *ExcelRepository {
	return &ExcelRepository{}
}

// ReadRows returns raw cell values, so numbers come back unformatted
// ("1250.5", not "1,250.50"). Blank rows inside the sheet are kept as empty
// rows to preserve sheet row numbers.
func (r *ExcelRepository) ReadRows(ctx context.Context, path string) (*domain.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &domain.ParseError{File: path, Reason: "failed to open workbook", Err: err}
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, &domain.ParseError{File: path, Reason: "workbook has no sheets", Err: domain.ErrInsufficientRows}
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &domain.ParseError{File: path, Reason: "failed to read rows", Err: err}
	}
	return newSheet(path, rows)
}
