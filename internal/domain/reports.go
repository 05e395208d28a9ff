package domain

// Status strings carried by every classified entry.
const (
	StatusMatched         = "Matched"
	StatusMissing         = "Missing in Purchase Orders"
	StatusMismatch        = "Quantity Mismatch"
	StatusExtra           = "Extra in Purchase Orders"
	StatusManuallyMatched = "manually_matched"
)

// MatchedItem is a sales code found on the purchase side with the same quantity.
type MatchedItem struct {
	SalesItemCode    string  `json:"salesItemCode" yaml:"salesItemCode"`
	PurchaseItemCode string  `json:"purchaseItemCode" yaml:"purchaseItemCode"`
	SalesQuantity    float64 `json:"salesQuantity" yaml:"salesQuantity"`
	PurchaseQuantity float64 `json:"purchaseQuantity" yaml:"purchaseQuantity"`
	SalesPrice       float64 `json:"salesPrice" yaml:"salesPrice"`
	PurchasePrice    float64 `json:"purchasePrice" yaml:"purchasePrice"`
	Profit           float64 `json:"profit" yaml:"profit"`
	Status           string  `json:"status" yaml:"status"`
}

// MissingItem is a sales code with no purchase counterpart.
type MissingItem struct {
	ItemCode      string  `json:"itemCode" yaml:"itemCode"`
	SalesQuantity float64 `json:"salesQuantity" yaml:"salesQuantity"`
	Status        string  `json:"status" yaml:"status"`
}

// QuantityMismatch is a code present on both sides with different quantities.
// Difference is purchase minus sales; positive means more was purchased.
type QuantityMismatch struct {
	SalesItemCode    string  `json:"salesItemCode" yaml:"salesItemCode"`
	PurchaseItemCode string  `json:"purchaseItemCode" yaml:"purchaseItemCode"`
	SalesQuantity    float64 `json:"salesQuantity" yaml:"salesQuantity"`
	PurchaseQuantity float64 `json:"purchaseQuantity" yaml:"purchaseQuantity"`
	Difference       float64 `json:"difference" yaml:"difference"`
	Status           string  `json:"status" yaml:"status"`
}

// ExtraItem is a purchase code with no sales counterpart.
type ExtraItem struct {
	ItemCode         string  `json:"itemCode" yaml:"itemCode"`
	PurchaseQuantity float64 `json:"purchaseQuantity" yaml:"purchaseQuantity"`
	Status           string  `json:"status" yaml:"status"`
}

// Summary provides high-level statistics of the reconciliation.
// The totals count extracted lines before duplicate codes are folded.
type Summary struct {
	TotalSalesItems    int     `json:"totalSalesItems" yaml:"totalSalesItems"`
	TotalPurchaseItems int     `json:"totalPurchaseItems" yaml:"totalPurchaseItems"`
	MatchedItems       int     `json:"matchedItems" yaml:"matchedItems"`
	MissingItems       int     `json:"missingItems" yaml:"missingItems"`
	QuantityMismatches int     `json:"quantityMismatches" yaml:"quantityMismatches"`
	ExtraItems         int     `json:"extraItems" yaml:"extraItems"`
	GrossProfit        float64 `json:"grossProfit" yaml:"grossProfit"`
}

// ReconciliationResult holds the four disjoint classifications.
type ReconciliationResult struct {
	Matched            []MatchedItem      `json:"matched" yaml:"matched"`
	MissingInPurchase  []MissingItem      `json:"missingInPurchase" yaml:"missingInPurchase"`
	QuantityMismatches []QuantityMismatch `json:"quantityMismatches" yaml:"quantityMismatches"`
	ExtraInPurchase    []ExtraItem        `json:"extraInPurchase" yaml:"extraInPurchase"`
	Summary            Summary            `json:"summary" yaml:"summary"`
}

// ExtractedFile lists the line items read from one uploaded file.
type ExtractedFile struct {
	FileName string     `json:"fileName" yaml:"fileName"`
	Items    []LineItem `json:"items" yaml:"items"`
}

// ExtractedData keeps the raw extraction next to the result so callers can
// show where each line came from.
type ExtractedData struct {
	SalesOrder     ExtractedFile   `json:"salesOrder" yaml:"salesOrder"`
	PurchaseOrders []ExtractedFile `json:"purchaseOrders" yaml:"purchaseOrders"`
}

// ReconciliationReport is the top-level structure for the final output.
type ReconciliationReport struct {
	Success        bool                 `json:"success" yaml:"success"`
	Reconciliation ReconciliationResult `json:"reconciliation" yaml:"reconciliation"`
	ExtractedData  ExtractedData        `json:"extractedData" yaml:"extractedData"`
}

// SalesItems returns the extracted sales lines.
func (d ExtractedData) SalesItems() []LineItem {
	return d.SalesOrder.Items
}

// PurchaseItems returns the lines of every purchase order, in file order.
func (d ExtractedData) PurchaseItems() []LineItem {
	var items []LineItem
	for _, po := range d.PurchaseOrders {
		items = append(items, po.Items...)
	}
	return items
}

// ManualMapping records a user-declared association between a sales code and
// a purchase code that reconciliation left unresolved.
type ManualMapping struct {
	SalesItemCode    string  `json:"salesItemCode" yaml:"salesItemCode"`
	PurchaseItemCode string  `json:"purchaseItemCode" yaml:"purchaseItemCode"`
	SalesQuantity    float64 `json:"salesQuantity" yaml:"salesQuantity"`
	PurchaseQuantity float64 `json:"purchaseQuantity" yaml:"purchaseQuantity"`
	SalesPrice       float64 `json:"salesPrice" yaml:"salesPrice"`
	PurchasePrice    float64 `json:"purchasePrice" yaml:"purchasePrice"`
	Profit           float64 `json:"profit" yaml:"profit"`
	Status           string  `json:"status" yaml:"status"`
}

// BalanceCheck reports whether a manual selection balances.
type BalanceCheck struct {
	IsValid          bool    `json:"isValid" yaml:"isValid"`
	TotalSalesQty    float64 `json:"totalSalesQty" yaml:"totalSalesQty"`
	TotalPurchaseQty float64 `json:"totalPurchaseQty" yaml:"totalPurchaseQty"`
}
