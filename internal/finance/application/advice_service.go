package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/advisory"
	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	"github.com/sebuszqo/FlexiFi/internal/logging"
	"github.com/shopspring/decimal"
)

type AdviceQuery struct {
	Today          time.Time
	Kind           advisory.QueryKind
	ProposedAmount *decimal.Decimal
}

// Snapshot is a composed fact bundle together with the records it was
// computed from, scoped to the active window.
type Snapshot struct {
	Facts        *advisory.Facts
	Transactions []domain.PersonalTransaction
	Goals        []domain.SavingsGoal
}

// AdviceService loads a user's records and runs them through the advisory
// engine. It never talks to a renderer.
type AdviceService struct {
	transactions domain.PersonalTransactionRepository
	budgets      domain.BudgetRepository
	goals        domain.SavingsGoalRepository
	composer     *advisory.Composer
	logger       logging.Logger
	now          func() time.Time
}

func NewAdviceService(
	transactions domain.PersonalTransactionRepository,
	budgets domain.BudgetRepository,
	goals domain.SavingsGoalRepository,
	composer *advisory.Composer,
	logger logging.Logger,
) *AdviceService {
	return &AdviceService{
		transactions: transactions,
		budgets:      budgets,
		goals:        goals,
		composer:     composer,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *AdviceService) ComposeFacts(ctx context.Context, userID string, query AdviceQuery) (*advisory.Facts, error) {
	snapshot, err := s.Snapshot(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	return snapshot.Facts, nil
}

func (s *AdviceService) Snapshot(ctx context.Context, userID string, query AdviceQuery) (*Snapshot, error) {
	start := time.Now()
	today := query.Today
	if today.IsZero() {
		today = s.now()
	}
	today = domain.DateOf(today)

	transactions, err := s.transactions.FindByUser(ctx, userID, domain.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("could not load transactions: %w", err)
	}
	budgets, err := s.budgets.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not load budgets: %w", err)
	}
	goals, err := s.goals.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not load savings goals: %w", err)
	}

	facts, err := s.composer.Compose(advisory.Input{
		Transactions:   transactions,
		Budgets:        budgets,
		Goals:          goals,
		Today:          today,
		Kind:           query.Kind,
		ProposedAmount: query.ProposedAmount,
	})
	if err != nil {
		return nil, err
	}

	fields := []logging.Field{
		{Key: logging.FieldUserID, Value: userID},
		{Key: logging.FieldQueryKind, Value: string(query.Kind)},
		{Key: logging.FieldCount, Value: facts.TransactionCount},
		{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()},
	}
	if facts.Affordability != nil {
		fields = append(fields, logging.Field{Key: logging.FieldVerdict, Value: string(facts.Affordability.Verdict)})
	}
	s.logger.Debug("Composed advisory facts", fields...)

	return &Snapshot{
		Facts:        facts,
		Transactions: advisory.InWindow(transactions, advisory.ActiveWindow(budgets, today)),
		Goals:        goals,
	}, nil
}
