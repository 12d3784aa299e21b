package interfaces

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/advisory"
	"github.com/sebuszqo/FlexiFi/internal/finance/application"
	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FlexiFi/internal/finance/errors"
	"github.com/sebuszqo/FlexiFi/internal/finance/infrastructure"
	"github.com/sebuszqo/FlexiFi/internal/logging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetActiveBudget_NotFound(t *testing.T) {
	service := new(MockBudgetService)
	service.On("GetActiveBudget", mock.Anything, testUserID, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)).Return(nil, financeErrors.ErrNoActiveBudget)

	handler := NewBudgetHandler(service, logging.NewMockLogger(), respondJSON, respondError)
	w := httptest.NewRecorder()

	handler.GetActiveBudget(w, authedRequest(http.MethodGet, "/budgets/active?today=2024-08-01", nil))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "No active budget", decodeBody(t, res)["message"])
}

func TestGetActiveBudget_Found(t *testing.T) {
	budget := &domain.Budget{ID: "b1", MonthlyBudget: decimal.NewFromInt(1000), StartDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC)}
	service := new(MockBudgetService)
	service.On("GetActiveBudget", mock.Anything, testUserID, time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)).Return(budget, nil)

	handler := NewBudgetHandler(service, logging.NewMockLogger(), respondJSON, respondError)
	handler.now = func() time.Time { return time.Date(2024, 7, 10, 9, 0, 0, 0, time.UTC) }
	w := httptest.NewRecorder()

	handler.GetActiveBudget(w, authedRequest(http.MethodGet, "/budgets/active", nil))

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	data := decodeBody(t, res)["data"].(map[string]interface{})
	assert.Equal(t, "2024-07-31", data["end_date"])
	assert.Equal(t, "1000", data["monthly_budget"])
}

func TestCreateBudget_ValidationError(t *testing.T) {
	handler := NewBudgetHandler(application.NewBudgetService(&infrastructure.MockBudgetRepository{}), logging.NewMockLogger(), respondJSON, respondError)
	body := `{"monthly_budget":"1000","start_date":"2024-07-31","end_date":"2024-07-01"}`
	w := httptest.NewRecorder()

	handler.CreateBudget(w, authedRequest(http.MethodPost, "/budgets", strings.NewReader(body)))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "End date must not be before start date", decodeBody(t, res)["message"])
}

func TestCreateBudget_Success(t *testing.T) {
	repo := &infrastructure.MockBudgetRepository{}
	handler := NewBudgetHandler(application.NewBudgetService(repo), logging.NewMockLogger(), respondJSON, respondError)
	body := `{"monthly_budget":"1000","start_date":"2024-07-01","end_date":"2024-07-31"}`
	w := httptest.NewRecorder()

	handler.CreateBudget(w, authedRequest(http.MethodPost, "/budgets", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.Budgets, 1)
	assert.Equal(t, testUserID, repo.Budgets[0].UserID)
}

func TestUpdateGoalProgress(t *testing.T) {
	goal := &domain.SavingsGoal{ID: "g1", Name: "Vacation", TargetAmount: decimal.NewFromInt(0), CurrentAmount: decimal.NewFromInt(50), Deadline: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)}
	service := new(MockSavingsGoalService)
	service.On("UpdateProgress", mock.Anything, "g1", testUserID, decimal.RequireFromString("50")).Return(goal, nil)
	service.On("UpdateProgress", mock.Anything, "missing", testUserID, mock.Anything).Return(nil, financeErrors.ErrSavingsGoalNotFound)

	handler := NewSavingsGoalHandler(service, logging.NewMockLogger(), respondJSON, respondError)
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /savings-goals/{goalID}/progress", handler.UpdateProgress)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, authedRequest(http.MethodPut, "/savings-goals/g1/progress", strings.NewReader(`{"current_amount":"50"}`)))
	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	data := decodeBody(t, res)["data"].(map[string]interface{})
	assert.Nil(t, data["progress_percentage"])
	assert.Equal(t, "Vacation", data["goal_name"])

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, authedRequest(http.MethodPut, "/savings-goals/missing/progress", strings.NewReader(`{"current_amount":"1"}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, authedRequest(http.MethodPut, "/savings-goals/g1/progress", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetGoals_ServiceFailure(t *testing.T) {
	service := new(MockSavingsGoalService)
	service.On("GetGoals", mock.Anything, testUserID).Return(nil, errors.New("boom"))

	handler := NewSavingsGoalHandler(service, logging.NewMockLogger(), respondJSON, respondError)
	w := httptest.NewRecorder()
	handler.GetGoals(w, authedRequest(http.MethodGet, "/savings-goals", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAccountHandler_CreateAndUpdate(t *testing.T) {
	accounts := &infrastructure.MockAccountRepository{}
	transactions := &infrastructure.MockTransactionRepository{}
	service := application.NewAccountService(accounts,
		application.NewPersonalTransactionService(transactions, application.NewPaymentService(), logging.NewMockLogger()),
		logging.NewMockLogger())
	handler := NewAccountHandler(service, logging.NewMockLogger(), respondJSON, respondError)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /accounts", handler.CreateAccount)
	mux.HandleFunc("PUT /accounts/{accountID}", handler.UpdateBalance)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, authedRequest(http.MethodPost, "/accounts", strings.NewReader(`{"account_number":"12345","current_balance":"250"}`)))
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, accounts.Accounts, 1)
	assert.Len(t, transactions.Transactions, 1)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, authedRequest(http.MethodPut, "/accounts/"+accounts.Accounts[0].ID, strings.NewReader(`{"current_balance":"300"}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, authedRequest(http.MethodPut, "/accounts/unknown", strings.NewReader(`{"current_balance":"300"}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, authedRequest(http.MethodPost, "/accounts", strings.NewReader(`{"account_number":""}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdviceRequest_Query(t *testing.T) {
	amount := decimal.NewFromInt(100)

	query, err := AdviceRequest{}.Query()
	require.NoError(t, err)
	assert.Equal(t, advisory.KindGeneral, query.Kind)
	assert.True(t, query.Today.IsZero())

	query, err = AdviceRequest{ProposedAmount: &amount, Today: "2024-07-22"}.Query()
	require.NoError(t, err)
	assert.Equal(t, advisory.KindAffordability, query.Kind)
	assert.Equal(t, time.Date(2024, 7, 22, 0, 0, 0, 0, time.UTC), query.Today)

	_, err = AdviceRequest{QueryKind: "weather"}.Query()
	assert.ErrorIs(t, err, financeErrors.ErrInvalidQueryKind)

	_, err = AdviceRequest{Today: "22.07.2024"}.Query()
	assert.True(t, financeErrors.IsValidationError(err))
}

func TestComposeFacts_Handler(t *testing.T) {
	days := 10
	facts := &advisory.Facts{Today: "2024-07-22", QueryKind: advisory.KindBudget, DaysLeft: &days}
	service := new(MockAdviceService)
	service.On("ComposeFacts", mock.Anything, testUserID, mock.MatchedBy(func(q application.AdviceQuery) bool {
		return q.Kind == advisory.KindBudget
	})).Return(facts, nil)
	service.On("ComposeFacts", mock.Anything, testUserID, mock.MatchedBy(func(q application.AdviceQuery) bool {
		return q.Kind == advisory.KindAffordability
	})).Return(nil, financeErrors.ErrProposedAmountMissing)

	handler := NewAdviceHandler(service, logging.NewMockLogger(), respondJSON, respondError)

	w := httptest.NewRecorder()
	handler.ComposeFacts(w, authedRequest(http.MethodPost, "/advice/facts", strings.NewReader(`{"query_kind":"budget","today":"2024-07-22"}`)))
	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	data := decodeBody(t, res)["data"].(map[string]interface{})
	assert.Equal(t, float64(10), data["days_left"])
	assert.Nil(t, data["daily_allowance"])

	w = httptest.NewRecorder()
	handler.ComposeFacts(w, authedRequest(http.MethodPost, "/advice/facts", strings.NewReader(`{"query_kind":"affordability"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategoryAndPaymentHandlers(t *testing.T) {
	repo := &infrastructure.MockTransactionRepository{Transactions: []domain.PersonalTransaction{
		{UserID: testUserID, Category: "Pets"},
		{UserID: testUserID, Category: "Food"},
	}}
	categories := NewCategoryHandler(application.NewCategoryService(repo), logging.NewMockLogger(), respondJSON, respondError)
	w := httptest.NewRecorder()
	categories.GetCategories(w, authedRequest(http.MethodGet, "/categories", nil))
	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	data := decodeBody(t, res)["data"].([]interface{})
	assert.Len(t, data, len(domain.PredefinedCategories)+1)
	assert.Equal(t, "Pets", data[len(data)-1])

	payments := NewPaymentHandler(application.NewPaymentService(), respondJSON, respondError)
	w = httptest.NewRecorder()
	payments.GetPaymentMethods(w, authedRequest(http.MethodGet, "/payment-methods", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Credit Card")
}

func TestNewHandler_PanicsWithoutResponders(t *testing.T) {
	assert.Panics(t, func() {
		NewPaymentHandler(application.NewPaymentService(), nil, respondError)
	})
}
