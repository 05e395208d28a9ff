package usecase

import (
	"order-reconciliation/internal/domain"
)

// Reconcile classifies the sales lines against the purchase lines by item
// code. Both sides are aggregated first, so duplicate codes are compared by
// their total quantity. The result depends only on the inputs and their order.
func Reconcile(salesItems, purchaseItems []domain.LineItem) domain.ReconciliationResult {
	sales := Aggregate(salesItems)
	purchases := Aggregate(purchaseItems)

	result := domain.ReconciliationResult{
		Matched:            make([]domain.MatchedItem, 0),
		MissingInPurchase:  make([]domain.MissingItem, 0),
		QuantityMismatches: make([]domain.QuantityMismatch, 0),
		ExtraInPurchase:    make([]domain.ExtraItem, 0),
		Summary: domain.Summary{
			TotalSalesItems:    len(salesItems),
			TotalPurchaseItems: len(purchaseItems),
		},
	}

	for salesItem := range sales.All() {
		purchaseItem, ok := purchases.Get(salesItem.ItemCode)
		switch {
		case !ok:
			result.MissingInPurchase = append(result.MissingInPurchase, domain.MissingItem{
				ItemCode:      salesItem.ItemCode,
				SalesQuantity: salesItem.Quantity,
				Status:        domain.StatusMissing,
			})
			result.Summary.MissingItems++
		case salesItem.Quantity == purchaseItem.Quantity:
			profit := domain.Profit(salesItem.Price, purchaseItem.Price, salesItem.Quantity)
			result.Matched = append(result.Matched, domain.MatchedItem{
				SalesItemCode:    salesItem.ItemCode,
				PurchaseItemCode: purchaseItem.ItemCode,
				SalesQuantity:    salesItem.Quantity,
				PurchaseQuantity: purchaseItem.Quantity,
				SalesPrice:       salesItem.Price,
				PurchasePrice:    purchaseItem.Price,
				Profit:           profit,
				Status:           domain.StatusMatched,
			})
			result.Summary.MatchedItems++
			result.Summary.GrossProfit = domain.AddExact(result.Summary.GrossProfit, profit)
		default:
			result.QuantityMismatches = append(result.QuantityMismatches, domain.QuantityMismatch{
				SalesItemCode:    salesItem.ItemCode,
				PurchaseItemCode: purchaseItem.ItemCode,
				SalesQuantity:    salesItem.Quantity,
				PurchaseQuantity: purchaseItem.Quantity,
				Difference:       domain.AddExact(purchaseItem.Quantity, -salesItem.Quantity),
				Status:           domain.StatusMismatch,
			})
			result.Summary.QuantityMismatches++
		}
	}

	for purchaseItem := range purchases.All() {
		if sales.Has(purchaseItem.ItemCode) {
			continue
		}
		result.ExtraInPurchase = append(result.ExtraInPurchase, domain.ExtraItem{
			ItemCode:         purchaseItem.ItemCode,
			PurchaseQuantity: purchaseItem.Quantity,
			Status:           domain.StatusExtra,
		})
		result.Summary.ExtraItems++
	}

	return result
}
