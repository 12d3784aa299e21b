package advisory

import (
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	"github.com/shopspring/decimal"
)

type Projection struct {
	DaysLeft        int
	RemainingBudget decimal.Decimal
	DailyAllowance  decimal.Decimal
}

// Project prorates what is left of the window's budget over the days left,
// today included. It returns nil when there is no window, when today is past
// the window's end, or when the window itself is malformed.
//
// income and spent must come from transactions already restricted to the
// window.
func Project(window *domain.Budget, today time.Time, income, spent decimal.Decimal) *Projection {
	if window == nil {
		return nil
	}
	if window.StartDate.IsZero() || window.EndDate.IsZero() {
		return nil
	}
	start, end, day := domain.DateOf(window.StartDate), domain.DateOf(window.EndDate), domain.DateOf(today)
	if end.Before(start) || day.After(end) {
		return nil
	}

	daysLeft := domain.DaysBetween(day, end) + 1
	if daysLeft < 1 {
		return nil
	}

	remaining := window.MonthlyBudget.Add(income).Add(spent)
	return &Projection{
		DaysLeft:        daysLeft,
		RemainingBudget: remaining,
		DailyAllowance:  remaining.Div(decimal.NewFromInt(int64(daysLeft))),
	}
}
