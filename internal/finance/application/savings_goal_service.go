package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FlexiFi/internal/finance/errors"
	"github.com/shopspring/decimal"
)

type SavingsGoalService struct {
	repo domain.SavingsGoalRepository
	now  func() time.Time
}

func NewSavingsGoalService(repo domain.SavingsGoalRepository) *SavingsGoalService {
	return &SavingsGoalService{repo: repo, now: time.Now}
}

func (s *SavingsGoalService) CreateGoal(ctx context.Context, goal *domain.SavingsGoal) error {
	goal.ID = uuid.NewString()
	goal.CreatedAt = s.now().UTC()
	goal.Deadline = domain.DateOf(goal.Deadline)
	if err := goal.Validate(); err != nil {
		return err
	}
	return s.repo.Save(ctx, *goal)
}

func (s *SavingsGoalService) GetGoals(ctx context.Context, userID string) ([]domain.SavingsGoal, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *SavingsGoalService) UpdateProgress(ctx context.Context, goalID, userID string, currentAmount decimal.Decimal) (*domain.SavingsGoal, error) {
	if currentAmount.IsNegative() {
		return nil, financeErrors.ErrNegativeAmount
	}
	if err := s.repo.UpdateProgress(ctx, goalID, userID, currentAmount.Round(2)); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, goalID, userID)
}
