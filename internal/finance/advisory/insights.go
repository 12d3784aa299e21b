package advisory

type Insight string

const (
	InsightSpendingPatterns  Insight = "spending_patterns"
	InsightTopCategory       Insight = "top_category"
	InsightBudgetStatus      Insight = "budget_status"
	InsightOverBudget        Insight = "over_budget"
	InsightConfigureBudget   Insight = "configure_budget"
	InsightSavingsProgress   Insight = "savings_progress"
	InsightGoalNotComputable Insight = "goal_not_computable"
	InsightIncomeVsSpending  Insight = "income_vs_spending"
	InsightPurchaseVerdict   Insight = "purchase_verdict"
)

type insightRule struct {
	insight Insight
	kinds   []QueryKind
	applies func(f *Facts) bool
}

// insightRules are evaluated in order; the order is the order of the output.
var insightRules = []insightRule{
	{InsightPurchaseVerdict, []QueryKind{KindAffordability}, func(f *Facts) bool {
		return f.Affordability != nil
	}},
	{InsightBudgetStatus, []QueryKind{KindGeneral, KindBudget, KindAffordability}, func(f *Facts) bool {
		return f.DaysLeft != nil
	}},
	{InsightOverBudget, []QueryKind{KindGeneral, KindBudget, KindAffordability}, func(f *Facts) bool {
		return f.RemainingBudget != nil && f.RemainingBudget.IsNegative()
	}},
	{InsightConfigureBudget, []QueryKind{KindGeneral, KindBudget, KindAffordability}, func(f *Facts) bool {
		return f.DaysLeft == nil
	}},
	{InsightSpendingPatterns, []QueryKind{KindGeneral, KindBudget}, func(f *Facts) bool {
		return f.TotalSpent.IsNegative()
	}},
	{InsightTopCategory, []QueryKind{KindGeneral, KindBudget}, func(f *Facts) bool {
		return f.TopExpenseCategory != ""
	}},
	{InsightSavingsProgress, []QueryKind{KindGeneral, KindSavings}, func(f *Facts) bool {
		return len(f.Goals) > 0
	}},
	{InsightGoalNotComputable, []QueryKind{KindGeneral, KindSavings}, func(f *Facts) bool {
		for _, g := range f.Goals {
			if !g.Computable {
				return true
			}
		}
		return false
	}},
	{InsightIncomeVsSpending, []QueryKind{KindGeneral, KindSavings}, func(f *Facts) bool {
		return f.TotalIncome.IsPositive()
	}},
}

func selectInsights(f *Facts) []Insight {
	selected := make([]Insight, 0, len(insightRules))
	for _, rule := range insightRules {
		if containsKind(rule.kinds, f.QueryKind) && rule.applies(f) {
			selected = append(selected, rule.insight)
		}
	}
	return selected
}

func containsKind(kinds []QueryKind, kind QueryKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
