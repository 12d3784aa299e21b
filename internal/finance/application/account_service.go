package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	"github.com/sebuszqo/FlexiFi/internal/logging"
	"github.com/shopspring/decimal"
)

type transactionCreator interface {
	CreateTransaction(ctx context.Context, transaction *domain.PersonalTransaction) error
}

type AccountService struct {
	repo         domain.AccountRepository
	transactions transactionCreator
	logger       logging.Logger
	now          func() time.Time
}

func NewAccountService(repo domain.AccountRepository, transactions transactionCreator, logger logging.Logger) *AccountService {
	return &AccountService{repo: repo, transactions: transactions, logger: logger, now: time.Now}
}

// CreateAccount stores the account and, for a positive opening balance,
// records it as income dated today. Failing to record that income does not
// undo the account.
func (s *AccountService) CreateAccount(ctx context.Context, account *domain.Account) error {
	account.ID = uuid.NewString()
	account.CreatedAt = s.now().UTC()
	account.CurrentBalance = account.CurrentBalance.Round(2)
	if err := account.Validate(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, *account); err != nil {
		return err
	}

	if !account.CurrentBalance.IsPositive() {
		return nil
	}
	initial := &domain.PersonalTransaction{
		UserID:        account.UserID,
		Amount:        account.CurrentBalance,
		Category:      domain.IncomeCategory,
		Description:   domain.InitialBalanceNote,
		Date:          account.CreatedAt,
		PaymentMethod: domain.InitialBalanceMethod,
	}
	if err := s.transactions.CreateTransaction(ctx, initial); err != nil {
		s.logger.WithError(err).Warn("Could not record initial balance",
			logging.Field{Key: logging.FieldUserID, Value: account.UserID},
			logging.Field{Key: "account_id", Value: account.ID})
	}
	return nil
}

func (s *AccountService) GetAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *AccountService) UpdateBalance(ctx context.Context, accountID, userID string, balance decimal.Decimal) (*domain.Account, error) {
	if err := s.repo.UpdateBalance(ctx, accountID, userID, balance.Round(2)); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, accountID, userID)
}
