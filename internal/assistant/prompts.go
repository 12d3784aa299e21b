package assistant

import (
	"encoding/json"
	"fmt"

	"github.com/sebuszqo/FlexiFi/internal/finance/advisory"
)

const generalPrompt = `Analyze this financial data and provide 3-5 actionable insights.
The numbers below are already computed; do not recalculate them.

FACTS
%s

Provide specific, personalized financial advice in this format:
1. [Insight about spending patterns]
2. [Recommendation about budget]
3. [Observation about savings goals]
4. [Specific action item with amount]
5. [Long-term financial advice]

Make sure insights are specific with actual numbers and percentages.`

const budgetPrompt = `Analyze this budget data and provide 3-5 actionable insights about budget management.
The numbers below are already computed; do not recalculate them.

FACTS
%s

Provide specific budget advice in this format:
1. [Budget insight with specific numbers]
2. [Category where user is overspending]
3. [Suggestion to reallocate budget with specific amounts]
4. [Specific saving opportunity with amount]

Make insights specific with actual amounts.`

const savingsPrompt = `Analyze these savings goals and provide 3-5 actionable insights.
The numbers below are already computed; do not recalculate them.

FACTS
%s

Provide specific savings advice in this format:
1. [Progress assessment for each goal]
2. [Specific strategy to accelerate savings with amount]
3. [Recommendation about goal feasibility]
4. [Suggestion about new potential savings goal]

Make insights specific with actual amounts and timeframes.`

const affordabilityPrompt = `A user is considering a purchase. The verdict below is final; explain it, do not change it.

FACTS
%s

Explain in 3-5 sentences:
1. [The verdict and the reason behind it]
2. [The daily allowance before and after the purchase]
3. [A safer amount if one is suggested]`

const chatPrompt = `You are a senior financial planner inside the FlexiFi Budget App.
Always use the user's data below to answer with clear, numeric guidance.
The numbers are already computed; never recalculate or contradict them.

DATA
%s
- Days left in current budget period (if available): %s
- Suggested daily spend to stay on track (if computed): %s

TASKS
1) If the user asks "how much can I spend today?" or similar:
   - If the daily allowance is available, reply with that value and briefly explain remaining budget and days left.
   - If not, ask the user to set a budget.

2) If the user asks "should I buy X for Y?":
   - Use the affordability verdict when present.
   - If the purchase makes the per-day allowance too tight, caution and provide the suggested safer amount.
   - If affordable, approve with reasoning and the updated per-day allowance.

3) For general questions, provide 2-3 short, specific recommendations with amounts/percentages.

Respond concisely (3-6 sentences) and include exact numbers where relevant.

USER QUESTION: %s`

var analysisPrompts = map[advisory.QueryKind]string{
	advisory.KindGeneral:       generalPrompt,
	advisory.KindBudget:        budgetPrompt,
	advisory.KindSavings:       savingsPrompt,
	advisory.KindAffordability: affordabilityPrompt,
}

// BuildPrompt renders the model input for a fact bundle.
func BuildPrompt(facts *advisory.Facts, prompt Prompt) (string, error) {
	if facts == nil {
		return "", fmt.Errorf("facts must be provided")
	}
	data, err := json.MarshalIndent(facts, "", "  ")
	if err != nil {
		return "", fmt.Errorf("could not encode facts: %w", err)
	}

	if prompt.Mode == ModeChat {
		daysLeft, allowance := "not available", "not available"
		if facts.DaysLeft != nil {
			daysLeft = fmt.Sprintf("%d", *facts.DaysLeft)
		}
		if facts.DailyAllowance != nil {
			allowance = facts.DailyAllowance.StringFixed(2)
		}
		return fmt.Sprintf(chatPrompt, data, daysLeft, allowance, prompt.Question), nil
	}

	template, ok := analysisPrompts[facts.QueryKind]
	if !ok {
		template = generalPrompt
	}
	return fmt.Sprintf(template, data), nil
}
