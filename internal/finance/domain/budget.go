package domain

import (
	"context"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/errors"
	"github.com/shopspring/decimal"
)

type BudgetRepository interface {
	Save(ctx context.Context, budget Budget) error
	FindByUser(ctx context.Context, userID string) ([]Budget, error)
	FindUsersWithActiveBudget(ctx context.Context, day time.Time) ([]string, error)
}

// Budget is a monthly spending ceiling over an inclusive [StartDate, EndDate]
// window.
type Budget struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (b *Budget) Validate() error {
	if b.MonthlyBudget.IsNegative() {
		return errors.NewValidationError("Monthly budget must not be negative")
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return errors.NewValidationError("Start date and end date must be provided")
	}
	if DateOf(b.EndDate).Before(DateOf(b.StartDate)) {
		return errors.NewValidationError("End date must not be before start date")
	}
	return nil
}

// Contains reports whether day falls inside the window, both ends included.
func (b Budget) Contains(day time.Time) bool {
	d := DateOf(day)
	return !d.Before(DateOf(b.StartDate)) && !d.After(DateOf(b.EndDate))
}
