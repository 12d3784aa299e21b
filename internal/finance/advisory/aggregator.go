// Package advisory turns a user's transactions, budget windows and savings
// goals into deterministic spending facts: totals, category breakdowns, the
// prorated daily allowance and an affordability verdict. It performs no I/O.
package advisory

import (
	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	"github.com/shopspring/decimal"
)

type Statistics struct {
	TotalSpent     decimal.Decimal
	TotalIncome    decimal.Decimal
	CategoryTotals map[string]decimal.Decimal
	Count          int
}

// Aggregate folds transactions into totals. TotalSpent is the sum of the
// negative amounts and TotalIncome the sum of the positive ones; category
// totals are signed. Zero amounts only touch their category.
func Aggregate(transactions []domain.PersonalTransaction) Statistics {
	stats := Statistics{
		TotalSpent:     decimal.Zero,
		TotalIncome:    decimal.Zero,
		CategoryTotals: make(map[string]decimal.Decimal),
	}

	for _, transaction := range transactions {
		switch {
		case transaction.Amount.IsNegative():
			stats.TotalSpent = stats.TotalSpent.Add(transaction.Amount)
		case transaction.Amount.IsPositive():
			stats.TotalIncome = stats.TotalIncome.Add(transaction.Amount)
		}
		stats.CategoryTotals[transaction.Category] = stats.CategoryTotals[transaction.Category].Add(transaction.Amount)
		stats.Count++
	}

	return stats
}

// TopExpenseCategory returns the category with the most negative total, or
// "" when no category nets negative. Ties resolve alphabetically.
func (s Statistics) TopExpenseCategory() string {
	top := ""
	for category, total := range s.CategoryTotals {
		if !total.IsNegative() {
			continue
		}
		if top == "" || total.LessThan(s.CategoryTotals[top]) || (total.Equal(s.CategoryTotals[top]) && category < top) {
			top = category
		}
	}
	return top
}
