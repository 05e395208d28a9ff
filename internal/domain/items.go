package domain

import "github.com/shopspring/decimal"

// Side identifies which document a line item was extracted from.
type Side string

const (
	SideSales    Side = "sales"
	SidePurchase Side = "purchase"
)

// LineItem is a single row extracted from a sales or purchase order sheet.
type LineItem struct {
	ItemCode  string  `json:"itemCode" yaml:"itemCode"`
	Quantity  float64 `json:"quantity" yaml:"quantity"`
	Price     float64 `json:"price" yaml:"price"`
	RowNumber int     `json:"rowNumber" yaml:"rowNumber"` // 1-based sheet row
	Side      Side    `json:"type" yaml:"type"`
}

// AggregatedItem folds every line item sharing an item code on one side.
// Price is the price of the first line seen for the code.
type AggregatedItem struct {
	ItemCode string  `json:"itemCode" yaml:"itemCode"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Price    float64 `json:"price" yaml:"price"`
}

// Sheet is a decoded spreadsheet: the header row and every row after it.
type Sheet struct {
	Header []string
	Rows   [][]string
}

// Layout locates the line-item table inside a sheet. Indices are 0-based and
// StartRowIndex counts data rows, i.e. the header row is already removed.
type Layout struct {
	StartRowIndex  int
	ItemCodeColumn int
	QuantityColumn int
	PriceColumn    int
	Side           Side
}

// Sales order table: first item on sheet row 17, codes in A, quantities in M, prices in O.
const (
	SalesStartRowIndex  = 15
	SalesItemCodeColumn = 0
	SalesQuantityColumn = 12
	SalesPriceColumn    = 14
)

// Purchase order table: first item on sheet row 16, codes in B, quantities in H, prices in I.
const (
	PurchaseStartRowIndex  = 14
	PurchaseItemCodeColumn = 1
	PurchaseQuantityColumn = 7
	PurchasePriceColumn    = 8
)

var (
	SalesLayout = Layout{
		StartRowIndex:  SalesStartRowIndex,
		ItemCodeColumn: SalesItemCodeColumn,
		QuantityColumn: SalesQuantityColumn,
		PriceColumn:    SalesPriceColumn,
		Side:           SideSales,
	}

	PurchaseLayout = Layout{
		StartRowIndex:  PurchaseStartRowIndex,
		ItemCodeColumn: PurchaseItemCodeColumn,
		QuantityColumn: PurchaseQuantityColumn,
		PriceColumn:    PurchasePriceColumn,
		Side:           SidePurchase,
	}
)

// Profit returns (salesPrice - purchasePrice) * salesQuantity, computed in
// decimal so that cents do not drift.
func Profit(salesPrice, purchasePrice, salesQuantity float64) float64 {
	p := decimal.NewFromFloat(salesPrice).
		Sub(decimal.NewFromFloat(purchasePrice)).
		Mul(decimal.NewFromFloat(salesQuantity))
	return p.InexactFloat64()
}

// AddExact returns a + b summed in decimal, so that quantities of 0.1 and 0.2
// add up to exactly the 0.3 a counterpart sheet would list.
func AddExact(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).InexactFloat64()
}
