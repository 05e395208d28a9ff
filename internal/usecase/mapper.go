package usecase

import (
	"fmt"

	"order-reconciliation/internal/domain"
)

// Candidate is an unreconciled item that may be mapped by hand.
type Candidate struct {
	ItemCode string  `json:"itemCode"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Source   string  `json:"type"` // "missing", "extra" or "mismatch"
}

const (
	sourceMissing  = "missing"
	sourceExtra    = "extra"
	sourceMismatch = "mismatch"
)

// ManualMapper lets a user pair sales items the reconciler could not match
// with purchase items, provided the selected quantities balance.
//
// A ManualMapper is built for one report and is not safe for concurrent use.
type ManualMapper struct {
	report         domain.ReconciliationReport
	salesPrices    map[string]float64
	purchasePrices map[string]float64

	mappings       []domain.ManualMapping
	mappedSales    map[string]bool
	mappedPurchase map[string]bool
}

// NewManualMapper prepares candidate pools for report. Item prices are looked
// up in report.ExtractedData, first line per code winning. Codes used by any
// of existing are left out of the pools.
func NewManualMapper(report domain.ReconciliationReport, existing ...domain.ManualMapping) *ManualMapper {
	m := &ManualMapper{
		report:         report,
		salesPrices:    firstPrices(report.ExtractedData.SalesItems()),
		purchasePrices: firstPrices(report.ExtractedData.PurchaseItems()),
		mappedSales:    make(map[string]bool),
		mappedPurchase: make(map[string]bool),
	}
	m.record(existing)
	return m
}

// SalesCandidates returns the missing items followed by the sales side of
// every quantity mismatch, minus codes already mapped.
func (m *ManualMapper) SalesCandidates() []Candidate {
	candidates := make([]Candidate, 0)
	for _, item := range m.UnmappedMissing() {
		candidates = append(candidates, Candidate{
			ItemCode: item.ItemCode,
			Quantity: item.SalesQuantity,
			Price:    m.salesPrices[item.ItemCode],
			Source:   sourceMissing,
		})
	}
	for _, item := range m.report.Reconciliation.QuantityMismatches {
		if m.mappedSales[item.SalesItemCode] {
			continue
		}
		candidates = append(candidates, Candidate{
			ItemCode: item.SalesItemCode,
			Quantity: item.SalesQuantity,
			Price:    m.salesPrices[item.SalesItemCode],
			Source:   sourceMismatch,
		})
	}
	return candidates
}

// PurchaseCandidates returns the extra items followed by the purchase side of
// every quantity mismatch, minus codes already mapped.
func (m *ManualMapper) PurchaseCandidates() []Candidate {
	candidates := make([]Candidate, 0)
	for _, item := range m.UnmappedExtra() {
		candidates = append(candidates, Candidate{
			ItemCode: item.ItemCode,
			Quantity: item.PurchaseQuantity,
			Price:    m.purchasePrices[item.ItemCode],
			Source:   sourceExtra,
		})
	}
	for _, item := range m.report.Reconciliation.QuantityMismatches {
		if m.mappedPurchase[item.PurchaseItemCode] {
			continue
		}
		candidates = append(candidates, Candidate{
			ItemCode: item.PurchaseItemCode,
			Quantity: item.PurchaseQuantity,
			Price:    m.purchasePrices[item.PurchaseItemCode],
			Source:   sourceMismatch,
		})
	}
	return candidates
}

// ValidateBalance sums the quantities of the selected candidates on each
// side. Codes that are not candidates contribute nothing. The selection is
// valid when both sums are exactly equal.
func (m *ManualMapper) ValidateBalance(salesCodes, purchaseCodes []string) domain.BalanceCheck {
	salesTotal := sumQuantities(selectCandidates(m.SalesCandidates(), salesCodes))
	purchaseTotal := sumQuantities(selectCandidates(m.PurchaseCandidates(), purchaseCodes))
	return domain.BalanceCheck{
		IsValid:          salesTotal == purchaseTotal,
		TotalSalesQty:    salesTotal,
		TotalPurchaseQty: purchaseTotal,
	}
}

// CreateMappings pairs every selected sales code with every selected purchase
// code. Each record carries the full quantities and prices of both items; an
// S by P selection yields S*P records and nothing is split proportionally.
//
// The selection is validated up front. On error no mapping is recorded.
func (m *ManualMapper) CreateMappings(salesCodes, purchaseCodes []string) ([]domain.ManualMapping, error) {
	sales := selectCandidates(m.SalesCandidates(), salesCodes)
	purchases := selectCandidates(m.PurchaseCandidates(), purchaseCodes)
	balance := m.ValidateBalance(salesCodes, purchaseCodes)

	if len(sales) == 0 || len(purchases) == 0 {
		return nil, &domain.ValidationError{
			Reason:           "Both sales and purchase item codes are required",
			TotalSalesQty:    balance.TotalSalesQty,
			TotalPurchaseQty: balance.TotalPurchaseQty,
			Err:              domain.ErrEmptySelection,
		}
	}
	if unknown := unknownCodes(sales, salesCodes); len(unknown) > 0 {
		return nil, &domain.ValidationError{
			Reason:           fmt.Sprintf("sales items %v are not available for manual mapping", unknown),
			TotalSalesQty:    balance.TotalSalesQty,
			TotalPurchaseQty: balance.TotalPurchaseQty,
			Err:              domain.ErrUnknownCandidate,
		}
	}
	if unknown := unknownCodes(purchases, purchaseCodes); len(unknown) > 0 {
		return nil, &domain.ValidationError{
			Reason:           fmt.Sprintf("purchase items %v are not available for manual mapping", unknown),
			TotalSalesQty:    balance.TotalSalesQty,
			TotalPurchaseQty: balance.TotalPurchaseQty,
			Err:              domain.ErrUnknownCandidate,
		}
	}
	if !balance.IsValid {
		return nil, &domain.ValidationError{
			Reason:           "Quantities must match exactly",
			TotalSalesQty:    balance.TotalSalesQty,
			TotalPurchaseQty: balance.TotalPurchaseQty,
			Err:              domain.ErrUnbalancedSelection,
		}
	}

	created := make([]domain.ManualMapping, 0, len(sales)*len(purchases))
	for _, s := range sales {
		for _, p := range purchases {
			created = append(created, NewManualMapping(s.ItemCode, p.ItemCode, s.Quantity, p.Quantity, s.Price, p.Price))
		}
	}
	m.record(created)
	return created, nil
}

// Mappings returns every mapping known to the mapper, existing ones first.
func (m *ManualMapper) Mappings() []domain.ManualMapping {
	out := make([]domain.ManualMapping, len(m.mappings))
	copy(out, m.mappings)
	return out
}

// UnmappedMissing returns the missing items whose code has not been mapped.
func (m *ManualMapper) UnmappedMissing() []domain.MissingItem {
	out := make([]domain.MissingItem, 0)
	for _, item := range m.report.Reconciliation.MissingInPurchase {
		if !m.mappedSales[item.ItemCode] {
			out = append(out, item)
		}
	}
	return out
}

// UnmappedMismatches returns the mismatches whose sales code has not been mapped.
func (m *ManualMapper) UnmappedMismatches() []domain.QuantityMismatch {
	out := make([]domain.QuantityMismatch, 0)
	for _, item := range m.report.Reconciliation.QuantityMismatches {
		if !m.mappedSales[item.SalesItemCode] {
			out = append(out, item)
		}
	}
	return out
}

// UnmappedExtra returns the extra items whose code has not been mapped.
func (m *ManualMapper) UnmappedExtra() []domain.ExtraItem {
	out := make([]domain.ExtraItem, 0)
	for _, item := range m.report.Reconciliation.ExtraInPurchase {
		if !m.mappedPurchase[item.ItemCode] {
			out = append(out, item)
		}
	}
	return out
}

// GrossProfit is the profit of the matched items plus every manual mapping.
func (m *ManualMapper) GrossProfit() float64 {
	total := m.report.Reconciliation.Summary.GrossProfit
	for _, mapping := range m.mappings {
		total = domain.AddExact(total, mapping.Profit)
	}
	return total
}

// NewManualMapping builds a single mapping record.
func NewManualMapping(salesCode, purchaseCode string, salesQty, purchaseQty, salesPrice, purchasePrice float64) domain.ManualMapping {
	return domain.ManualMapping{
		SalesItemCode:    salesCode,
		PurchaseItemCode: purchaseCode,
		SalesQuantity:    salesQty,
		PurchaseQuantity: purchaseQty,
		SalesPrice:       salesPrice,
		PurchasePrice:    purchasePrice,
		Profit:           domain.Profit(salesPrice, purchasePrice, salesQty),
		Status:           domain.StatusManuallyMatched,
	}
}

func (m *ManualMapper) record(mappings []domain.ManualMapping) {
	for _, mapping := range mappings {
		m.mappings = append(m.mappings, mapping)
		m.mappedSales[mapping.SalesItemCode] = true
		m.mappedPurchase[mapping.PurchaseItemCode] = true
	}
}

func firstPrices(items []domain.LineItem) map[string]float64 {
	prices := make(map[string]float64, len(items))
	for item := range Aggregate(items).All() {
		prices[item.ItemCode] = item.Price
	}
	return prices
}

// selectCandidates keeps the candidates named in codes, once each, in pool order.
func selectCandidates(pool []Candidate, codes []string) []Candidate {
	wanted := make(map[string]bool, len(codes))
	for _, code := range codes {
		wanted[code] = true
	}
	selected := make([]Candidate, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, c := range pool {
		if wanted[c.ItemCode] && !seen[c.ItemCode] {
			selected = append(selected, c)
			seen[c.ItemCode] = true
		}
	}
	return selected
}

func unknownCodes(selected []Candidate, codes []string) []string {
	found := make(map[string]bool, len(selected))
	for _, c := range selected {
		found[c.ItemCode] = true
	}
	var unknown []string
	for _, code := range codes {
		if !found[code] {
			unknown = append(unknown, code)
			found[code] = true
		}
	}
	return unknown
}

func sumQuantities(candidates []Candidate) float64 {
	var total float64
	for _, c := range candidates {
		total = domain.AddExact(total, c.Quantity)
	}
	return total
}
