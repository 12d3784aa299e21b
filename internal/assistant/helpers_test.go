package assistant

import (
	"context"
	"sort"
	"sync"

	"github.com/sebuszqo/FlexiFi/internal/finance/advisory"
	"github.com/sebuszqo/FlexiFi/internal/finance/application"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

const testUserID = "user-1"

func sampleFacts(kind advisory.QueryKind) *advisory.Facts {
	days := 10
	remaining := decimal.RequireFromString("14300")
	allowance := decimal.RequireFromString("1430")
	return &advisory.Facts{
		Today:     "2024-07-22",
		QueryKind: kind,
		Window: &advisory.WindowFacts{
			MonthlyBudget: decimal.RequireFromString("10000"),
			StartDate:     "2024-07-01",
			EndDate:       "2024-07-31",
		},
		TransactionCount: 3,
		TotalSpent:       decimal.RequireFromString("-700"),
		TotalIncome:      decimal.RequireFromString("5000"),
		CategoryTotals: map[string]decimal.Decimal{
			"Income":        decimal.RequireFromString("5000"),
			"Food":          decimal.RequireFromString("-500"),
			"Entertainment": decimal.RequireFromString("-200"),
		},
		TopExpenseCategory: "Food",
		DaysLeft:           &days,
		RemainingBudget:    &remaining,
		DailyAllowance:     &allowance,
		Goals:              []advisory.GoalFacts{},
		Insights:           []advisory.Insight{},
	}
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, facts *advisory.Facts, prompt Prompt) (string, error) {
	args := m.Called(ctx, facts, prompt)
	return args.String(0), args.Error(1)
}

type MockFactsComposer struct {
	mock.Mock
}

func (m *MockFactsComposer) ComposeFacts(ctx context.Context, userID string, query application.AdviceQuery) (*advisory.Facts, error) {
	args := m.Called(ctx, userID, query)
	facts, _ := args.Get(0).(*advisory.Facts)
	return facts, args.Error(1)
}

// memoryRepository keeps analyses and messages in insertion order.
type memoryRepository struct {
	mu        sync.Mutex
	analyses  []Analysis
	messages  []ChatMessage
	saveError error
}

func (r *memoryRepository) SaveAnalysis(_ context.Context, analysis Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveError != nil {
		return r.saveError
	}
	r.analyses = append(r.analyses, analysis)
	return nil
}

func (r *memoryRepository) FindAnalysesByUser(_ context.Context, userID string) ([]Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Analysis
	for _, analysis := range r.analyses {
		if analysis.UserID == userID {
			out = append(out, analysis)
		}
	}
	return out, nil
}

func (r *memoryRepository) SaveChatMessage(_ context.Context, message ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveError != nil {
		return r.saveError
	}
	r.messages = append(r.messages, message)
	return nil
}

func (r *memoryRepository) FindChatMessagesByUser(_ context.Context, userID string) ([]ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ChatMessage
	for _, message := range r.messages {
		if message.UserID == userID {
			out = append(out, message)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
