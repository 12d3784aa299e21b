package domain

import (
	"context"
	"strings"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/errors"
	"github.com/shopspring/decimal"
)

const maxGoalNameLength = 100

var hundred = decimal.NewFromInt(100)

type SavingsGoalRepository interface {
	Save(ctx context.Context, goal SavingsGoal) error
	FindByUser(ctx context.Context, userID string) ([]SavingsGoal, error)
	FindByID(ctx context.Context, goalID, userID string) (*SavingsGoal, error)
	UpdateProgress(ctx context.Context, goalID, userID string, currentAmount decimal.Decimal) error
}

type SavingsGoal struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Name          string          `json:"goal_name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Deadline      time.Time       `json:"deadline"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Validate checks a goal on creation. Stored goals with a zero target are
// still readable; their progress is simply not computable.
func (g *SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" || len(g.Name) > maxGoalNameLength {
		return errors.NewValidationError("Goal name must be between 1 and 100 characters")
	}
	if !g.TargetAmount.IsPositive() {
		return errors.NewValidationError("Target amount must be greater than zero")
	}
	if g.CurrentAmount.IsNegative() {
		return errors.NewValidationError("Current amount must not be negative")
	}
	if g.Deadline.IsZero() {
		return errors.NewValidationError("Deadline must be provided")
	}
	return nil
}

// ProgressPercentage returns current/target*100, or nil when the target is
// zero. Progress above 100 is reported as is.
func (g SavingsGoal) ProgressPercentage() *decimal.Decimal {
	if g.TargetAmount.IsZero() {
		return nil
	}
	progress := g.CurrentAmount.Div(g.TargetAmount).Mul(hundred)
	return &progress
}
