package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"order-reconciliation/internal/domain"
)

// CSVRepository reads order sheets exported as CSV.
type CSVRepository struct{}

// NewCSVRepository creates a new repository instance.
func NewCSVRepository() *CSVRepository {
	return &CSVRepository{}
}

// ReadRows reads every record of the CSV file at path. Records may have any
// number of fields; short rows simply lack the trailing cells. Blank lines
// between records come back as empty rows, so row positions match the sheet
// the file was exported from.
func (r *CSVRepository) ReadRows(ctx context.Context, path string) (*domain.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &domain.ParseError{File: path, Reason: "failed to open file", Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	lastLine := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &domain.ParseError{File: path, Reason: fmt.Sprintf("error reading record: %v", err), Err: err}
		}

		// encoding/csv skips empty lines
		line, _ := reader.FieldPos(0)
		for ; lastLine+1 < line; lastLine++ {
			rows = append(rows, []string{})
		}
		last := len(record) - 1
		lastLine, _ = reader.FieldPos(last)
		lastLine += strings.Count(record[last], "\n")

		rows = append(rows, record)
	}
	return newSheet(path, rows)
}

// newSheet splits off the header row. A sheet needs at least one data row.
func newSheet(path string, rows [][]string) (*domain.Sheet, error) {
	if len(rows) < 2 {
		return nil, domain.NewParseError(path, domain.ErrInsufficientRows)
	}
	return &domain.Sheet{Header: rows[0], Rows: rows[1:]}, nil
}
