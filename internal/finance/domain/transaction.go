package domain

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/errors"
	"github.com/shopspring/decimal"
)

const maxDescriptionLength = 200

type PersonalTransactionRepository interface {
	Save(ctx context.Context, transaction PersonalTransaction) error
	SaveWithTransaction(ctx context.Context, transaction PersonalTransaction, tx *sql.Tx) error
	BeginTransaction(ctx context.Context) (*sql.Tx, error)
	FindByUser(ctx context.Context, userID string, filter TransactionFilter) ([]PersonalTransaction, error)
	GetTransactionsInDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]PersonalTransaction, error)
	GetUserCategories(ctx context.Context, userID string) ([]string, error)
}

// TransactionFilter narrows FindByUser. Zero values mean "no bound".
type TransactionFilter struct {
	StartDate time.Time
	EndDate   time.Time
	Category  string
}

// PersonalTransaction is append-only: a negative amount is an expense and a
// positive amount is income.
type PersonalTransaction struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (t *PersonalTransaction) Validate() error {
	if strings.TrimSpace(t.Category) == "" {
		return errors.NewValidationError("Category must be provided")
	}
	if len(t.Description) > maxDescriptionLength {
		return errors.NewValidationError("Description must be of length less than 200")
	}
	if t.Date.IsZero() {
		return errors.NewValidationError("Date must be provided")
	}
	return nil
}

func (t *PersonalTransaction) RoundToTwoDecimalPlaces() {
	t.Amount = t.Amount.Round(2)
}

func (t PersonalTransaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

func (t PersonalTransaction) IsIncome() bool {
	return t.Amount.IsPositive()
}
