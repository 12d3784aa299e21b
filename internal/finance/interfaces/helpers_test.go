package interfaces

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/advisory"
	"github.com/sebuszqo/FlexiFi/internal/finance/application"
	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testUserID = "user-1"

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}
	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}
	respondJSON(w, status, payload)
}

func authedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(context.WithValue(req.Context(), "userID", testUserID))
}

func decodeBody(t *testing.T, res *http.Response) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	return payload
}

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, transaction *domain.PersonalTransaction) error {
	return m.Called(ctx, transaction).Error(0)
}

func (m *MockTransactionService) CreateTransactionsBulk(ctx context.Context, transactions []*domain.PersonalTransaction, userID string) error {
	return m.Called(ctx, transactions, userID).Error(0)
}

func (m *MockTransactionService) GetUserTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.PersonalTransaction, error) {
	args := m.Called(ctx, userID, filter)
	transactions, _ := args.Get(0).([]domain.PersonalTransaction)
	return transactions, args.Error(1)
}

func (m *MockTransactionService) GetTransactionSummary(ctx context.Context, userID string, startDate, endDate time.Time) (map[int]application.TransactionSummary, error) {
	args := m.Called(ctx, userID, startDate, endDate)
	summary, _ := args.Get(0).(map[int]application.TransactionSummary)
	return summary, args.Error(1)
}

type MockBudgetService struct {
	mock.Mock
}

func (m *MockBudgetService) CreateBudget(ctx context.Context, budget *domain.Budget) error {
	return m.Called(ctx, budget).Error(0)
}

func (m *MockBudgetService) GetBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	args := m.Called(ctx, userID)
	budgets, _ := args.Get(0).([]domain.Budget)
	return budgets, args.Error(1)
}

func (m *MockBudgetService) GetActiveBudget(ctx context.Context, userID string, today time.Time) (*domain.Budget, error) {
	args := m.Called(ctx, userID, today)
	budget, _ := args.Get(0).(*domain.Budget)
	return budget, args.Error(1)
}

type MockSavingsGoalService struct {
	mock.Mock
}

func (m *MockSavingsGoalService) CreateGoal(ctx context.Context, goal *domain.SavingsGoal) error {
	return m.Called(ctx, goal).Error(0)
}

func (m *MockSavingsGoalService) GetGoals(ctx context.Context, userID string) ([]domain.SavingsGoal, error) {
	args := m.Called(ctx, userID)
	goals, _ := args.Get(0).([]domain.SavingsGoal)
	return goals, args.Error(1)
}

func (m *MockSavingsGoalService) UpdateProgress(ctx context.Context, goalID, userID string, currentAmount decimal.Decimal) (*domain.SavingsGoal, error) {
	args := m.Called(ctx, goalID, userID, currentAmount)
	goal, _ := args.Get(0).(*domain.SavingsGoal)
	return goal, args.Error(1)
}

type MockAdviceService struct {
	mock.Mock
}

func (m *MockAdviceService) ComposeFacts(ctx context.Context, userID string, query application.AdviceQuery) (*advisory.Facts, error) {
	args := m.Called(ctx, userID, query)
	facts, _ := args.Get(0).(*advisory.Facts)
	return facts, args.Error(1)
}
