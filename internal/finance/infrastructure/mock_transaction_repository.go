package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FlexiFi/internal/finance/errors"
	"github.com/shopspring/decimal"
)

var ErrMockTransactionsUnsupported = errors.New("mock repository does not support database transactions")

type MockTransactionRepository struct {
	mu           sync.Mutex
	Transactions []domain.PersonalTransaction
	SaveErr      error
	FindErr      error
}

func (m *MockTransactionRepository) Save(_ context.Context, transaction domain.PersonalTransaction) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transactions = append(m.Transactions, transaction)
	return nil
}

func (m *MockTransactionRepository) SaveWithTransaction(ctx context.Context, transaction domain.PersonalTransaction, _ *sql.Tx) error {
	return m.Save(ctx, transaction)
}

func (m *MockTransactionRepository) BeginTransaction(_ context.Context) (*sql.Tx, error) {
	return nil, ErrMockTransactionsUnsupported
}

func (m *MockTransactionRepository) FindByUser(_ context.Context, userID string, filter domain.TransactionFilter) ([]domain.PersonalTransaction, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	filtered := []domain.PersonalTransaction{}
	for _, transaction := range m.Transactions {
		if transaction.UserID != userID {
			continue
		}
		if !filter.StartDate.IsZero() && transaction.Date.Before(filter.StartDate) {
			continue
		}
		if !filter.EndDate.IsZero() && transaction.Date.After(filter.EndDate) {
			continue
		}
		if filter.Category != "" && transaction.Category != filter.Category {
			continue
		}
		filtered = append(filtered, transaction)
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Date.Before(filtered[j].Date) })
	return filtered, nil
}

func (m *MockTransactionRepository) GetTransactionsInDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]domain.PersonalTransaction, error) {
	return m.FindByUser(ctx, userID, domain.TransactionFilter{StartDate: startDate, EndDate: endDate})
}

func (m *MockTransactionRepository) GetUserCategories(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	var categories []string
	for _, transaction := range m.Transactions {
		if transaction.UserID == userID && !seen[transaction.Category] {
			seen[transaction.Category] = true
			categories = append(categories, transaction.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

type MockBudgetRepository struct {
	mu      sync.Mutex
	Budgets []domain.Budget
	FindErr error
}

func (m *MockBudgetRepository) Save(_ context.Context, budget domain.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Budgets = append(m.Budgets, budget)
	return nil
}

func (m *MockBudgetRepository) FindByUser(_ context.Context, userID string) ([]domain.Budget, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	budgets := []domain.Budget{}
	for _, budget := range m.Budgets {
		if budget.UserID == userID {
			budgets = append(budgets, budget)
		}
	}
	return budgets, nil
}

func (m *MockBudgetRepository) FindUsersWithActiveBudget(_ context.Context, day time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	var userIDs []string
	for _, budget := range m.Budgets {
		if budget.Contains(day) && !seen[budget.UserID] {
			seen[budget.UserID] = true
			userIDs = append(userIDs, budget.UserID)
		}
	}
	return userIDs, nil
}

type MockSavingsGoalRepository struct {
	mu    sync.Mutex
	Goals []domain.SavingsGoal
}

func (m *MockSavingsGoalRepository) Save(_ context.Context, goal domain.SavingsGoal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Goals = append(m.Goals, goal)
	return nil
}

func (m *MockSavingsGoalRepository) FindByUser(_ context.Context, userID string) ([]domain.SavingsGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	goals := []domain.SavingsGoal{}
	for _, goal := range m.Goals {
		if goal.UserID == userID {
			goals = append(goals, goal)
		}
	}
	return goals, nil
}

func (m *MockSavingsGoalRepository) FindByID(_ context.Context, goalID, userID string) (*domain.SavingsGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, goal := range m.Goals {
		if goal.ID == goalID && goal.UserID == userID {
			found := goal
			return &found, nil
		}
	}
	return nil, financeErrors.ErrSavingsGoalNotFound
}

func (m *MockSavingsGoalRepository) UpdateProgress(_ context.Context, goalID, userID string, currentAmount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Goals {
		if m.Goals[i].ID == goalID && m.Goals[i].UserID == userID {
			m.Goals[i].CurrentAmount = currentAmount
			return nil
		}
	}
	return financeErrors.ErrSavingsGoalNotFound
}

type MockAccountRepository struct {
	mu       sync.Mutex
	Accounts []domain.Account
}

func (m *MockAccountRepository) Save(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Accounts = append(m.Accounts, account)
	return nil
}

func (m *MockAccountRepository) FindByUser(_ context.Context, userID string) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	accounts := []domain.Account{}
	for _, account := range m.Accounts {
		if account.UserID == userID {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) FindByID(_ context.Context, accountID, userID string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, account := range m.Accounts {
		if account.ID == accountID && account.UserID == userID {
			found := account
			return &found, nil
		}
	}
	return nil, financeErrors.ErrAccountNotFound
}

func (m *MockAccountRepository) UpdateBalance(_ context.Context, accountID, userID string, balance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.Accounts {
		if m.Accounts[i].ID == accountID && m.Accounts[i].UserID == userID {
			m.Accounts[i].CurrentBalance = balance
			return nil
		}
	}
	return financeErrors.ErrAccountNotFound
}
