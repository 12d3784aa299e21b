package advisory

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Verdict string

const (
	VerdictApprove Verdict = "APPROVE"
	VerdictCaution Verdict = "CAUTION"
	VerdictDeny    Verdict = "DENY"
	VerdictUnknown Verdict = "UNKNOWN"
)

var defaultTightnessRatio = decimal.RequireFromString("0.5")

// Policy configures the evaluator. A purchase is CAUTION when the daily
// allowance left after it drops below TightnessRatio times the allowance
// before it.
type Policy struct {
	TightnessRatio decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{TightnessRatio: defaultTightnessRatio}
}

// PolicyFromRatio builds a policy from a configured float; out of range
// values fall back to the default.
func PolicyFromRatio(ratio float64) Policy {
	policy := Policy{TightnessRatio: decimal.NewFromFloat(ratio)}
	if !policy.valid() {
		return DefaultPolicy()
	}
	return policy
}

// valid reports whether the ratio lies in (0, 1].
func (p Policy) valid() bool {
	return p.TightnessRatio.IsPositive() && p.TightnessRatio.LessThanOrEqual(decimal.NewFromInt(1))
}

type Assessment struct {
	Verdict         Verdict          `json:"verdict"`
	ProposedAmount  decimal.Decimal  `json:"proposed_amount"`
	AllowanceBefore *decimal.Decimal `json:"allowance_before"`
	AllowanceAfter  *decimal.Decimal `json:"allowance_after"`
	SuggestedAmount *decimal.Decimal `json:"suggested_amount"`
	Reason          string           `json:"reason"`
}

type Evaluator struct {
	policy Policy
}

func NewEvaluator(policy Policy) *Evaluator {
	if !policy.valid() {
		policy = DefaultPolicy()
	}
	return &Evaluator{policy: policy}
}

func (e *Evaluator) Policy() Policy {
	return e.policy
}

// Evaluate decides whether amount fits the projection. The comparisons are
// done on remaining amounts rather than on divided allowances so the verdict
// does not depend on division rounding.
func (e *Evaluator) Evaluate(amount decimal.Decimal, projection *Projection) Assessment {
	assessment := Assessment{Verdict: VerdictUnknown, ProposedAmount: amount}

	if projection == nil || projection.DaysLeft < 1 {
		assessment.Reason = "no active budget window; set a monthly budget to evaluate purchases"
		return assessment
	}
	if !amount.IsPositive() {
		assessment.Reason = "proposed amount must be positive"
		return assessment
	}

	remaining := projection.RemainingBudget
	left := remaining.Sub(amount)
	days := decimal.NewFromInt(int64(projection.DaysLeft))

	before := projection.DailyAllowance
	after := left.Div(days)
	assessment.AllowanceBefore = &before
	assessment.AllowanceAfter = &after

	// after < ratio*before  <=>  left < ratio*remaining, since days > 0.
	floor := e.policy.TightnessRatio.Mul(remaining)

	switch {
	case amount.GreaterThan(remaining):
		assessment.Verdict = VerdictDeny
		assessment.SuggestedAmount = e.suggest(remaining)
		assessment.Reason = fmt.Sprintf("purchase of %s exceeds the remaining budget of %s", amount.String(), remaining.String())
	case left.IsNegative() || left.LessThan(floor):
		assessment.Verdict = VerdictCaution
		assessment.SuggestedAmount = e.suggest(remaining)
		assessment.Reason = fmt.Sprintf("daily allowance would drop from %s to %s, below %s%% of today's allowance",
			before.StringFixed(2), after.StringFixed(2), e.policy.TightnessRatio.Mul(decimal.NewFromInt(100)).String())
	default:
		assessment.Verdict = VerdictApprove
		assessment.Reason = fmt.Sprintf("daily allowance stays at %s after the purchase", after.StringFixed(2))
	}

	return assessment
}

// suggest returns the largest amount that keeps the post-purchase allowance
// at or above the threshold: remaining - ratio*allowance*days, floored at 0.
func (e *Evaluator) suggest(remaining decimal.Decimal) *decimal.Decimal {
	safe := remaining.Sub(e.policy.TightnessRatio.Mul(remaining))
	if safe.IsNegative() {
		safe = decimal.Zero
	}
	return &safe
}
