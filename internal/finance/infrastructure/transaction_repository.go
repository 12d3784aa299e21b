package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/db"
	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
)

const transactionColumns = `id, user_id, amount, category, description, date, payment_method, created_at`

type PersonalTransactionRepository struct {
	db *db.DBService
}

func NewPersonalTransactionRepository(dbService *db.DBService) *PersonalTransactionRepository {
	return &PersonalTransactionRepository{db: dbService}
}

const insertTransactionQuery = `INSERT INTO transactions
	(id, user_id, amount, category, description, date, payment_method, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func transactionArgs(transaction domain.PersonalTransaction) []interface{} {
	return []interface{}{
		transaction.ID, transaction.UserID, transaction.Amount, transaction.Category, transaction.Description,
		db.DateArg(transaction.Date), transaction.PaymentMethod, db.TimestampArg(transaction.CreatedAt),
	}
}

func (r *PersonalTransactionRepository) Save(ctx context.Context, transaction domain.PersonalTransaction) error {
	_, err := r.db.DB.ExecContext(ctx, r.db.Rebind(insertTransactionQuery), transactionArgs(transaction)...)
	if err != nil {
		return fmt.Errorf("could not save transaction: %w", err)
	}
	return nil
}

func (r *PersonalTransactionRepository) BeginTransaction(ctx context.Context) (*sql.Tx, error) {
	return r.db.DB.BeginTx(ctx, nil)
}

func (r *PersonalTransactionRepository) SaveWithTransaction(ctx context.Context, transaction domain.PersonalTransaction, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, r.db.Rebind(insertTransactionQuery), transactionArgs(transaction)...)
	return err
}

// FindByUser returns the user's transactions ordered by date, oldest first.
func (r *PersonalTransactionRepository) FindByUser(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.PersonalTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`
	args := []interface{}{userID}

	if !filter.StartDate.IsZero() {
		args = append(args, db.DateArg(filter.StartDate))
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !filter.EndDate.IsZero() {
		args = append(args, db.DateArg(filter.EndDate))
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += " ORDER BY date, created_at"

	return r.query(ctx, query, args...)
}

func (r *PersonalTransactionRepository) GetTransactionsInDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]domain.PersonalTransaction, error) {
	return r.FindByUser(ctx, userID, domain.TransactionFilter{StartDate: startDate, EndDate: endDate})
}

func (r *PersonalTransactionRepository) GetUserCategories(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.DB.QueryContext(ctx, r.db.Rebind(`SELECT DISTINCT category FROM transactions WHERE user_id = $1 ORDER BY category`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *PersonalTransactionRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.PersonalTransaction, error) {
	rows, err := r.db.DB.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []domain.PersonalTransaction{}
	for rows.Next() {
		var transaction domain.PersonalTransaction
		if err := rows.Scan(&transaction.ID, &transaction.UserID, &transaction.Amount, &transaction.Category,
			&transaction.Description, db.Date{Dest: &transaction.Date}, &transaction.PaymentMethod,
			db.Timestamp{Dest: &transaction.CreatedAt}); err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}
