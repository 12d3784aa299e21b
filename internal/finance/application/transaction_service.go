package application

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FlexiFi/internal/finance/errors"
	"github.com/sebuszqo/FlexiFi/internal/logging"
	"github.com/shopspring/decimal"
)

type PaymentServiceInterface interface {
	GetAllPaymentMethods() []string
	IsValidPaymentMethod(method string) bool
}

type PersonalTransactionService struct {
	repo           domain.PersonalTransactionRepository
	paymentService PaymentServiceInterface
	logger         logging.Logger
	now            func() time.Time
}

func NewPersonalTransactionService(repo domain.PersonalTransactionRepository, paymentService PaymentServiceInterface, logger logging.Logger) *PersonalTransactionService {
	return &PersonalTransactionService{repo: repo, paymentService: paymentService, logger: logger, now: time.Now}
}

type TransactionSummary struct {
	Year         int                     `json:"year"`
	IncomeTotal  decimal.Decimal         `json:"income_total"`
	ExpenseTotal decimal.Decimal         `json:"expense_total"`
	Months       map[string]MonthSummary `json:"months"`
}

type MonthSummary struct {
	IncomeTotal  decimal.Decimal `json:"income_total"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	Weeks        []WeekSummary   `json:"weeks"`
}

type WeekSummary struct {
	Week         int             `json:"week"`
	IncomeTotal  decimal.Decimal `json:"income_total"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
}

// GetTransactionSummary folds the range into year -> month -> ISO week
// totals. Expense totals are reported as positive magnitudes.
func (s *PersonalTransactionService) GetTransactionSummary(ctx context.Context, userID string, startDate, endDate time.Time) (map[int]TransactionSummary, error) {
	transactions, err := s.repo.GetTransactionsInDateRange(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	summary := make(map[int]TransactionSummary)

	for _, transaction := range transactions {
		year := transaction.Date.Year()
		month := transaction.Date.Month().String()
		_, week := transaction.Date.ISOWeek()

		if _, exists := summary[year]; !exists {
			summary[year] = TransactionSummary{
				Year:   year,
				Months: make(map[string]MonthSummary),
			}
		}
		yearSummary := summary[year]

		if _, exists := yearSummary.Months[month]; !exists {
			yearSummary.Months[month] = MonthSummary{Weeks: []WeekSummary{}}
		}
		monthSummary := yearSummary.Months[month]

		income, expense := decimal.Zero, decimal.Zero
		if transaction.IsIncome() {
			income = transaction.Amount
		} else if transaction.IsExpense() {
			expense = transaction.Amount.Abs()
		}

		yearSummary.IncomeTotal = yearSummary.IncomeTotal.Add(income)
		yearSummary.ExpenseTotal = yearSummary.ExpenseTotal.Add(expense)
		monthSummary.IncomeTotal = monthSummary.IncomeTotal.Add(income)
		monthSummary.ExpenseTotal = monthSummary.ExpenseTotal.Add(expense)

		found := false
		for i, weekSummary := range monthSummary.Weeks {
			if weekSummary.Week == week {
				monthSummary.Weeks[i].IncomeTotal = weekSummary.IncomeTotal.Add(income)
				monthSummary.Weeks[i].ExpenseTotal = weekSummary.ExpenseTotal.Add(expense)
				found = true
				break
			}
		}
		if !found {
			monthSummary.Weeks = append(monthSummary.Weeks, WeekSummary{Week: week, IncomeTotal: income, ExpenseTotal: expense})
		}

		yearSummary.Months[month] = monthSummary
		summary[year] = yearSummary
	}

	return summary, nil
}

func (s *PersonalTransactionService) prepare(transaction *domain.PersonalTransaction, userID string) error {
	transaction.ID = uuid.NewString()
	transaction.UserID = userID
	transaction.CreatedAt = s.now().UTC()
	transaction.Date = domain.DateOf(transaction.Date)
	transaction.RoundToTwoDecimalPlaces()
	if err := transaction.Validate(); err != nil {
		return err
	}
	if !s.paymentService.IsValidPaymentMethod(transaction.PaymentMethod) {
		return financeErrors.ErrInvalidPaymentMethod
	}
	return nil
}

func (s *PersonalTransactionService) CreateTransaction(ctx context.Context, transaction *domain.PersonalTransaction) error {
	if err := s.prepare(transaction, transaction.UserID); err != nil {
		return err
	}
	return s.repo.Save(ctx, *transaction)
}

// CreateTransactionsBulk validates the whole batch first and stores nothing
// unless every row is valid. A storage error rolls the batch back.
func (s *PersonalTransactionService) CreateTransactionsBulk(ctx context.Context, transactions []*domain.PersonalTransaction, userID string) (err error) {
	validationErrors := &financeErrors.ValidationErrors{}
	for i, transaction := range transactions {
		if err := s.prepare(transaction, userID); err != nil {
			validationErrors.Add(financeErrors.NewIndexedValidationError(i+1, err.Error()))
		}
	}
	if len(validationErrors.Errors) > 0 {
		return validationErrors
	}

	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			s.safeRollback(tx)
			panic(p)
		} else if err != nil {
			s.safeRollback(tx)
		} else {
			err = tx.Commit()
		}
	}()

	for i, transaction := range transactions {
		if err = s.repo.SaveWithTransaction(ctx, *transaction, tx); err != nil {
			return fmt.Errorf("database error at transaction %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *PersonalTransactionService) safeRollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		s.logger.WithError(err).Error("Error during transaction rollback")
	}
}

func (s *PersonalTransactionService) GetUserTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.PersonalTransaction, error) {
	transactions, err := s.repo.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		return []domain.PersonalTransaction{}, nil
	}
	return transactions, nil
}
