package advisory

import (
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
)

// ActiveWindow returns the budget whose window contains today. When windows
// overlap, the most recently started one wins, then the one ending last.
func ActiveWindow(budgets []domain.Budget, today time.Time) *domain.Budget {
	var active *domain.Budget
	for i := range budgets {
		b := &budgets[i]
		if !b.Contains(today) {
			continue
		}
		if active == nil ||
			b.StartDate.After(active.StartDate) ||
			(b.StartDate.Equal(active.StartDate) && b.EndDate.After(active.EndDate)) {
			active = b
		}
	}
	return active
}

// InWindow keeps the transactions dated inside the window, both ends
// included. A nil window keeps everything.
func InWindow(transactions []domain.PersonalTransaction, window *domain.Budget) []domain.PersonalTransaction {
	if window == nil {
		return transactions
	}
	scoped := make([]domain.PersonalTransaction, 0, len(transactions))
	for _, transaction := range transactions {
		if window.Contains(transaction.Date) {
			scoped = append(scoped, transaction)
		}
	}
	return scoped
}
