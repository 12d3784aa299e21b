package advisory

import (
	"math/rand"
	"testing"

	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleTransactions() []domain.PersonalTransaction {
	return []domain.PersonalTransaction{
		tx("-500.10", "Food", day(2024, 7, 15)),
		tx("-200", "Entertainment", day(2024, 7, 16)),
		tx("5000", "Income", day(2024, 7, 1)),
		tx("-0.30", "Food", day(2024, 7, 20)),
		tx("45.5", "Food", day(2024, 7, 21)),
		tx("0", "Transport", day(2024, 7, 22)),
	}
}

func TestAggregate_Totals(t *testing.T) {
	stats := Aggregate(sampleTransactions())

	assert.True(t, stats.TotalSpent.Equal(dec("-700.40")), stats.TotalSpent.String())
	assert.True(t, stats.TotalIncome.Equal(dec("5045.5")), stats.TotalIncome.String())
	assert.True(t, stats.CategoryTotals["Food"].Equal(dec("-454.90")), stats.CategoryTotals["Food"].String())
	assert.True(t, stats.CategoryTotals["Income"].Equal(dec("5000")))
	assert.True(t, stats.CategoryTotals["Entertainment"].Equal(dec("-200")))
	assert.Equal(t, 6, stats.Count)
	assert.Equal(t, "Food", stats.TopExpenseCategory())
}

func TestAggregate_ZeroAmountOnlyTouchesCategory(t *testing.T) {
	stats := Aggregate([]domain.PersonalTransaction{tx("0", "Transport", day(2024, 7, 1))})

	assert.True(t, stats.TotalSpent.IsZero())
	assert.True(t, stats.TotalIncome.IsZero())
	total, ok := stats.CategoryTotals["Transport"]
	assert.True(t, ok)
	assert.True(t, total.IsZero())
	assert.Equal(t, "", stats.TopExpenseCategory())
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil)

	assert.True(t, stats.TotalSpent.IsZero())
	assert.True(t, stats.TotalIncome.IsZero())
	assert.Empty(t, stats.CategoryTotals)
}

func TestAggregate_SignsAndCategorySumInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	categories := []string{"Food", "Rent", "Income", "Fun"}

	for run := 0; run < 50; run++ {
		n := rng.Intn(40)
		transactions := make([]domain.PersonalTransaction, 0, n)
		for i := 0; i < n; i++ {
			cents := rng.Int63n(200000) - 100000
			transactions = append(transactions, domain.PersonalTransaction{
				Amount:   decimal.New(cents, -2),
				Category: categories[rng.Intn(len(categories))],
				Date:     day(2024, 7, 1+rng.Intn(31)),
			})
		}

		stats := Aggregate(transactions)
		assert.False(t, stats.TotalSpent.IsPositive())
		assert.False(t, stats.TotalIncome.IsNegative())

		sum := decimal.Zero
		for _, total := range stats.CategoryTotals {
			sum = sum.Add(total)
		}
		assert.True(t, stats.TotalSpent.Add(stats.TotalIncome).Equal(sum))
	}
}

func TestAggregate_IdempotentAndOrderIndependent(t *testing.T) {
	transactions := sampleTransactions()
	first := Aggregate(transactions)
	second := Aggregate(transactions)
	assertSameStatistics(t, first, second)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]domain.PersonalTransaction(nil), transactions...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assertSameStatistics(t, first, Aggregate(shuffled))
	}
}

func assertSameStatistics(t *testing.T, want, got Statistics) {
	t.Helper()
	assert.True(t, want.TotalSpent.Equal(got.TotalSpent))
	assert.True(t, want.TotalIncome.Equal(got.TotalIncome))
	assert.Equal(t, len(want.CategoryTotals), len(got.CategoryTotals))
	for category, total := range want.CategoryTotals {
		assert.True(t, total.Equal(got.CategoryTotals[category]), category)
	}
}
