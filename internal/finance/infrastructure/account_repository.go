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

type AccountRepository struct {
	db *db.DBService
}

func NewAccountRepository(dbService *db.DBService) *AccountRepository {
	return &AccountRepository{db: dbService}
}

func (r *AccountRepository) Save(ctx context.Context, account domain.Account) error {
	_, err := r.db.DB.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO accounts (id, user_id, account_number, current_balance, created_at) VALUES ($1, $2, $3, $4, $5)`),
		account.ID, account.UserID, account.AccountNumber, account.CurrentBalance, db.TimestampArg(account.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("could not save account: %w", err)
	}
	return nil
}

func (r *AccountRepository) FindByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	rows, err := r.db.DB.QueryContext(ctx, r.db.Rebind(
		`SELECT id, user_id, account_number, current_balance, created_at FROM accounts WHERE user_id = $1 ORDER BY created_at`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.ID, &account.UserID, &account.AccountNumber, &account.CurrentBalance,
			db.Timestamp{Dest: &account.CreatedAt}); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *AccountRepository) FindByID(ctx context.Context, accountID, userID string) (*domain.Account, error) {
	var account domain.Account
	err := r.db.DB.QueryRowContext(ctx, r.db.Rebind(
		`SELECT id, user_id, account_number, current_balance, created_at FROM accounts WHERE id = $1 AND user_id = $2`),
		accountID, userID,
	).Scan(&account.ID, &account.UserID, &account.AccountNumber, &account.CurrentBalance, db.Timestamp{Dest: &account.CreatedAt})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, accountID, userID string, balance decimal.Decimal) error {
	result, err := r.db.DB.ExecContext(ctx, r.db.Rebind(
		`UPDATE accounts SET current_balance = $1 WHERE id = $2 AND user_id = $3`), balance, accountID, userID)
	if err != nil {
		return fmt.Errorf("could not update account balance: %w", err)
	}
	return expectOneRow(result, financeErrors.ErrAccountNotFound)
}
