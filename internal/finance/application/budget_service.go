package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FlexiFi/internal/finance/advisory"
	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FlexiFi/internal/finance/errors"
)

type BudgetService struct {
	repo domain.BudgetRepository
	now  func() time.Time
}

func NewBudgetService(repo domain.BudgetRepository) *BudgetService {
	return &BudgetService{repo: repo, now: time.Now}
}

func (s *BudgetService) CreateBudget(ctx context.Context, budget *domain.Budget) error {
	budget.ID = uuid.NewString()
	budget.CreatedAt = s.now().UTC()
	budget.StartDate = domain.DateOf(budget.StartDate)
	budget.EndDate = domain.DateOf(budget.EndDate)
	if err := budget.Validate(); err != nil {
		return err
	}
	return s.repo.Save(ctx, *budget)
}

func (s *BudgetService) GetBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	return s.repo.FindByUser(ctx, userID)
}

// GetActiveBudget picks the window containing today the same way the advisory
// engine does.
func (s *BudgetService) GetActiveBudget(ctx context.Context, userID string, today time.Time) (*domain.Budget, error) {
	budgets, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	active := advisory.ActiveWindow(budgets, today)
	if active == nil {
		return nil, financeErrors.ErrNoActiveBudget
	}
	return active, nil
}
