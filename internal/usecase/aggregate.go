package usecase

import (
	"iter"

	"order-reconciliation/internal/domain"
)

// Aggregates maps item codes to their folded quantities for one side and
// remembers the order in which codes were first seen.
type Aggregates struct {
	order []string
	items map[string]*domain.AggregatedItem
}

// Aggregate folds line items sharing an item code. Quantities are summed;
// the price of the first line seen for a code is kept.
func Aggregate(items []domain.LineItem) *Aggregates {
	agg := &Aggregates{
		order: make([]string, 0, len(items)),
		items: make(map[string]*domain.AggregatedItem, len(items)),
	}
	for _, item := range items {
		if existing, ok := agg.items[item.ItemCode]; ok {
			existing.Quantity = domain.AddExact(existing.Quantity, item.Quantity)
			continue
		}
		agg.order = append(agg.order, item.ItemCode)
		agg.items[item.ItemCode] = &domain.AggregatedItem{
			ItemCode: item.ItemCode,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}
	return agg
}

// Get returns the aggregate for code.
func (a *Aggregates) Get(code string) (domain.AggregatedItem, bool) {
	item, ok := a.items[code]
	if !ok {
		return domain.AggregatedItem{}, false
	}
	return *item, true
}

// Has reports whether code was seen.
func (a *Aggregates) Has(code string) bool {
	_, ok := a.items[code]
	return ok
}

// Len returns the number of distinct item codes.
func (a *Aggregates) Len() int {
	return len(a.order)
}

// All iterates aggregates in first-seen order.
func (a *Aggregates) All() iter.Seq[domain.AggregatedItem] {
	return func(yield func(domain.AggregatedItem) bool) {
		for _, code := range a.order {
			if !yield(*a.items[code]) {
				return
			}
		}
	}
}
