package usecase

import (
	"iter"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"order-reconciliation/internal/domain"
)

// footerMarker identifies summary rows at the bottom of purchase orders.
const footerMarker = "total"

// SkipReason says why a row inside the table produced no line item.
type SkipReason string

const (
	SkipFooterRow         SkipReason = "footer row"
	SkipMalformedQuantity SkipReason = "quantity is not a number"
)

// SkipFunc observes rows that Extract passes over.
type SkipFunc func(rowNumber int, reason SkipReason)

// Extract walks rows from layout.StartRowIndex and yields one LineItem per
// table row. A blank item code ends the table. Purchase footer rows and rows
// whose quantity is not a number are skipped, and reported to onSkip when it
// is non-nil.
//
// The sequence is lazy: nothing is read until it is ranged over, and ranging
// stops early when the consumer breaks.
func Extract(rows [][]string, layout domain.Layout, onSkip SkipFunc) iter.Seq[domain.LineItem] {
	return func(yield func(domain.LineItem) bool) {
		for i := layout.StartRowIndex; i < len(rows); i++ {
			row := rows[i]
			rowNumber := i + 2 // sheet rows are 1-based and the header was removed

			code := strings.TrimSpace(cell(row, layout.ItemCodeColumn))
			if isEndOfTable(code) {
				return
			}
			if isFooterRow(code, layout.Side) {
				skipped(onSkip, rowNumber, SkipFooterRow)
				continue
			}

			quantity, ok := parseNumber(cell(row, layout.QuantityColumn))
			if !ok {
				skipped(onSkip, rowNumber, SkipMalformedQuantity)
				continue
			}
			price, ok := parseNumber(cell(row, layout.PriceColumn))
			if !ok {
				price = 0
			}

			item := domain.LineItem{
				ItemCode:  code,
				Quantity:  quantity,
				Price:     price,
				RowNumber: rowNumber,
				Side:      layout.Side,
			}
			if !yield(item) {
				return
			}
		}
	}
}

// ExtractAll drains Extract into a slice. The result is never nil.
func ExtractAll(rows [][]string, layout domain.Layout, onSkip SkipFunc) []domain.LineItem {
	items := make([]domain.LineItem, 0)
	for item := range Extract(rows, layout, onSkip) {
		items = append(items, item)
	}
	return items
}

func isEndOfTable(code string) bool {
	return code == ""
}

func isFooterRow(code string, side domain.Side) bool {
	return side == domain.SidePurchase && strings.Contains(strings.ToLower(code), footerMarker)
}

// parseNumber reads a numeric cell. Absent or blank cells read as 0. Values
// beyond the float64 range are malformed.
func parseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, false
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}

func skipped(onSkip SkipFunc, rowNumber int, reason SkipReason) {
	if onSkip != nil {
		onSkip(rowNumber, reason)
	}
}
