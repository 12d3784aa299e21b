package domain

import (
	"context"
	"strings"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/errors"
	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	Save(ctx context.Context, account Account) error
	FindByUser(ctx context.Context, userID string) ([]Account, error)
	FindByID(ctx context.Context, accountID, userID string) (*Account, error)
	UpdateBalance(ctx context.Context, accountID, userID string, balance decimal.Decimal) error
}

// Account is a payment source (bank account, card, wallet) holding a balance.
type Account struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	AccountNumber  string          `json:"account_number"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (a *Account) Validate() error {
	if strings.TrimSpace(a.AccountNumber) == "" || len(a.AccountNumber) > 34 {
		return errors.NewValidationError("Account number must be between 1 and 34 characters")
	}
	return nil
}
