package advisory

import (
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func tx(amount, category string, date time.Time) domain.PersonalTransaction {
	return domain.PersonalTransaction{
		Amount:        dec(amount),
		Category:      category,
		Description:   category + " entry",
		Date:          date,
		PaymentMethod: "Cash",
	}
}

func julyBudget(limit string) domain.Budget {
	return domain.Budget{
		ID:            "budget-july",
		MonthlyBudget: dec(limit),
		StartDate:     day(2024, 7, 1),
		EndDate:       day(2024, 7, 31),
	}
}
