package advisory

import (
	"fmt"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FlexiFi/internal/finance/errors"
	"github.com/shopspring/decimal"
)

type QueryKind string

const (
	KindGeneral       QueryKind = "general"
	KindBudget        QueryKind = "budget"
	KindSavings       QueryKind = "savings"
	KindAffordability QueryKind = "affordability"
)

func ParseQueryKind(value string) (QueryKind, error) {
	switch kind := QueryKind(value); kind {
	case KindGeneral, KindBudget, KindSavings, KindAffordability:
		return kind, nil
	}
	return "", financeErrors.ErrInvalidQueryKind
}

type Input struct {
	Transactions   []domain.PersonalTransaction
	Budgets        []domain.Budget
	Goals          []domain.SavingsGoal
	Today          time.Time
	Kind           QueryKind
	ProposedAmount *decimal.Decimal
}

// Facts is the renderer-agnostic bundle handed to callers. Absent budget
// facts encode as null.
type Facts struct {
	Today              string                     `json:"today"`
	QueryKind          QueryKind                  `json:"query_kind"`
	Window             *WindowFacts               `json:"budget_window"`
	TransactionCount   int                        `json:"transaction_count"`
	TotalSpent         decimal.Decimal            `json:"total_spent"`
	TotalIncome        decimal.Decimal            `json:"total_income"`
	CategoryTotals     map[string]decimal.Decimal `json:"category_totals"`
	TopExpenseCategory string                     `json:"top_expense_category,omitempty"`
	DaysLeft           *int                       `json:"days_left"`
	RemainingBudget    *decimal.Decimal           `json:"remaining_budget"`
	DailyAllowance     *decimal.Decimal           `json:"daily_allowance"`
	Goals              []GoalFacts                `json:"savings_goals"`
	Affordability      *Assessment                `json:"affordability,omitempty"`
	Insights           []Insight                  `json:"insights"`
}

type WindowFacts struct {
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
}

type GoalFacts struct {
	Name               string           `json:"goal_name"`
	TargetAmount       decimal.Decimal  `json:"target_amount"`
	CurrentAmount      decimal.Decimal  `json:"current_amount"`
	Deadline           string           `json:"deadline"`
	ProgressPercentage *decimal.Decimal `json:"progress_percentage"`
	Computable         bool             `json:"progress_computable"`
}

type Composer struct {
	evaluator *Evaluator
}

func NewComposer(evaluator *Evaluator) *Composer {
	if evaluator == nil {
		evaluator = NewEvaluator(DefaultPolicy())
	}
	return &Composer{evaluator: evaluator}
}

// Compose validates the records, scopes the transactions to the active
// window and computes the fact bundle. Only invalid input returns an error;
// missing budget facts are reported as nil fields.
func (c *Composer) Compose(in Input) (*Facts, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	today := domain.DateOf(in.Today)
	window := ActiveWindow(in.Budgets, today)
	stats := Aggregate(InWindow(in.Transactions, window))

	facts := &Facts{
		Today:              domain.FormatDate(today),
		QueryKind:          in.Kind,
		TransactionCount:   stats.Count,
		TotalSpent:         stats.TotalSpent,
		TotalIncome:        stats.TotalIncome,
		CategoryTotals:     stats.CategoryTotals,
		TopExpenseCategory: stats.TopExpenseCategory(),
		Goals:              goalFacts(in.Goals),
	}

	if window != nil {
		facts.Window = &WindowFacts{
			MonthlyBudget: window.MonthlyBudget,
			StartDate:     domain.FormatDate(window.StartDate),
			EndDate:       domain.FormatDate(window.EndDate),
		}
	}

	projection := Project(window, today, stats.TotalIncome, stats.TotalSpent)
	if projection != nil {
		daysLeft := projection.DaysLeft
		remaining := projection.RemainingBudget
		allowance := projection.DailyAllowance
		facts.DaysLeft = &daysLeft
		facts.RemainingBudget = &remaining
		facts.DailyAllowance = &allowance
	}

	if in.Kind == KindAffordability {
		assessment := c.evaluator.Evaluate(*in.ProposedAmount, projection)
		facts.Affordability = &assessment
	}

	facts.Insights = selectInsights(facts)
	return facts, nil
}

func validateInput(in Input) error {
	if _, err := ParseQueryKind(string(in.Kind)); err != nil {
		return err
	}
	if in.Kind == KindAffordability && (in.ProposedAmount == nil || !in.ProposedAmount.IsPositive()) {
		return financeErrors.ErrProposedAmountMissing
	}
	if in.Today.IsZero() {
		return financeErrors.NewValidationError("today must be provided")
	}
	for i := range in.Budgets {
		if err := in.Budgets[i].Validate(); err != nil {
			return fmt.Errorf("budget %s: %w", in.Budgets[i].ID, err)
		}
	}
	for i := range in.Transactions {
		if err := in.Transactions[i].Validate(); err != nil {
			return financeErrors.NewIndexedValidationError(i+1, err.Error())
		}
	}
	for _, goal := range in.Goals {
		if goal.TargetAmount.IsNegative() || goal.CurrentAmount.IsNegative() {
			return financeErrors.NewValidationError(fmt.Sprintf("savings goal %q has a negative amount", goal.Name))
		}
	}
	return nil
}

func goalFacts(goals []domain.SavingsGoal) []GoalFacts {
	out := make([]GoalFacts, 0, len(goals))
	for _, goal := range goals {
		progress := goal.ProgressPercentage()
		out = append(out, GoalFacts{
			Name:               goal.Name,
			TargetAmount:       goal.TargetAmount,
			CurrentAmount:      goal.CurrentAmount,
			Deadline:           domain.FormatDate(goal.Deadline),
			ProgressPercentage: progress,
			Computable:         progress != nil,
		})
	}
	return out
}
