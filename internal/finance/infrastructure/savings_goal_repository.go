package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sebuszqo/FlexiFi/internal/db"
	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FlexiFi/internal/finance/errors"
	"github.com/shopspring/decimal"
)

const savingsGoalColumns = `id, user_id, goal_name, target_amount, current_amount, deadline, created_at`

type SavingsGoalRepository struct {
	db *db.DBService
}

func NewSavingsGoalRepository(dbService *db.DBService) *SavingsGoalRepository {
	return &SavingsGoalRepository{db: dbService}
}

func (r *SavingsGoalRepository) Save(ctx context.Context, goal domain.SavingsGoal) error {
	_, err := r.db.DB.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO savings_goals (id, user_id, goal_name, target_amount, current_amount, deadline, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`),
		goal.ID, goal.UserID, goal.Name, goal.TargetAmount, goal.CurrentAmount, db.DateArg(goal.Deadline),
		db.TimestampArg(goal.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("could not save savings goal: %w", err)
	}
	return nil
}

func (r *SavingsGoalRepository) FindByUser(ctx context.Context, userID string) ([]domain.SavingsGoal, error) {
	rows, err := r.db.DB.QueryContext(ctx, r.db.Rebind(
		`SELECT `+savingsGoalColumns+` FROM savings_goals WHERE user_id = $1 ORDER BY deadline, goal_name`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []domain.SavingsGoal{}
	for rows.Next() {
		goal, err := scanSavingsGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *goal)
	}
	return goals, rows.Err()
}

func (r *SavingsGoalRepository) FindByID(ctx context.Context, goalID, userID string) (*domain.SavingsGoal, error) {
	row := r.db.DB.QueryRowContext(ctx, r.db.Rebind(
		`SELECT `+savingsGoalColumns+` FROM savings_goals WHERE id = $1 AND user_id = $2`), goalID, userID)
	goal, err := scanSavingsGoal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrSavingsGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

func (r *SavingsGoalRepository) UpdateProgress(ctx context.Context, goalID, userID string, currentAmount decimal.Decimal) error {
	result, err := r.db.DB.ExecContext(ctx, r.db.Rebind(
		`UPDATE savings_goals SET current_amount = $1 WHERE id = $2 AND user_id = $3`), currentAmount, goalID, userID)
	if err != nil {
		return fmt.Errorf("could not update savings goal: %w", err)
	}
	return expectOneRow(result, financeErrors.ErrSavingsGoalNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSavingsGoal(row rowScanner) (*domain.SavingsGoal, error) {
	var goal domain.SavingsGoal
	err := row.Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount, &goal.CurrentAmount,
		db.Date{Dest: &goal.Deadline}, db.Timestamp{Dest: &goal.CreatedAt})
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func expectOneRow(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
