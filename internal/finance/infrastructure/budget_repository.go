package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/db"
	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
)

type BudgetRepository struct {
	db *db.DBService
}

func NewBudgetRepository(dbService *db.DBService) *BudgetRepository {
	return &BudgetRepository{db: dbService}
}

func (r *BudgetRepository) Save(ctx context.Context, budget domain.Budget) error {
	_, err := r.db.DB.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO budgets (id, user_id, monthly_budget, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`),
		budget.ID, budget.UserID, budget.MonthlyBudget, db.DateArg(budget.StartDate), db.DateArg(budget.EndDate),
		db.TimestampArg(budget.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("could not save budget: %w", err)
	}
	return nil
}

func (r *BudgetRepository) FindByUser(ctx context.Context, userID string) ([]domain.Budget, error) {
	rows, err := r.db.DB.QueryContext(ctx, r.db.Rebind(
		`SELECT id, user_id, monthly_budget, start_date, end_date, created_at
		FROM budgets WHERE user_id = $1 ORDER BY start_date, end_date`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []domain.Budget{}
	for rows.Next() {
		var budget domain.Budget
		if err := rows.Scan(&budget.ID, &budget.UserID, &budget.MonthlyBudget, db.Date{Dest: &budget.StartDate},
			db.Date{Dest: &budget.EndDate}, db.Timestamp{Dest: &budget.CreatedAt}); err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}

// FindUsersWithActiveBudget lists users owning a window that contains day.
func (r *BudgetRepository) FindUsersWithActiveBudget(ctx context.Context, day time.Time) ([]string, error) {
	arg := db.DateArg(day)
	rows, err := r.db.DB.QueryContext(ctx, r.db.Rebind(
		`SELECT DISTINCT user_id FROM budgets WHERE start_date <= $1 AND end_date >= $2`), arg, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, userID)
	}
	return userIDs, rows.Err()
}
