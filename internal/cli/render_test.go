package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/advisory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleDataset = `{
  "transactions": [
    {"amount": "5000", "category": "Income", "date": "2024-07-01", "payment_method": "Bank"},
    {"amount": "-500", "category": "Food", "date": "2024-07-15", "payment_method": "Cash"},
    {"amount": "-200", "category": "Entertainment", "date": "2024-07-16T10:00:00Z"}
  ],
  "budgets": [
    {"monthly_budget": "10000", "start_date": "2024-07-01", "end_date": "2024-07-31"}
  ],
  "savings_goals": [
    {"goal_name": "Vacation", "target_amount": "20000", "current_amount": "15000", "deadline": "2024-12-31"}
  ]
}`

func composeSample(t *testing.T, kind advisory.QueryKind, amount *decimal.Decimal) *advisory.Facts {
	t.Helper()
	dataset, err := ReadDataset(strings.NewReader(sampleDataset))
	require.NoError(t, err)

	facts, err := advisory.NewComposer(nil).Compose(advisory.Input{
		Transactions:   dataset.Transactions,
		Budgets:        dataset.Budgets,
		Goals:          dataset.Goals,
		Today:          time.Date(2024, 7, 22, 0, 0, 0, 0, time.UTC),
		Kind:           kind,
		ProposedAmount: amount,
	})
	require.NoError(t, err)
	return facts
}

func TestReadDataset(t *testing.T) {
	dataset, err := ReadDataset(strings.NewReader(sampleDataset))
	require.NoError(t, err)

	require.Len(t, dataset.Transactions, 3)
	assert.Equal(t, time.Date(2024, 7, 16, 0, 0, 0, 0, time.UTC), dataset.Transactions[2].Date)
	require.Len(t, dataset.Budgets, 1)
	assert.Equal(t, "Vacation", dataset.Goals[0].Name)

	_, err = ReadDataset(strings.NewReader(`{"accounts": []}`))
	assert.Error(t, err)
	_, err = ReadDataset(strings.NewReader(`{"budgets": [{"start_date": "07/01/2024"}]}`))
	assert.Error(t, err)
}

func TestRenderFacts(t *testing.T) {
	amount := decimal.RequireFromString("9000")
	out := RenderFacts(composeSample(t, advisory.KindAffordability, &amount))

	assert.Contains(t, out, "FLEXIFI ADVICE 2024-07-22")
	assert.Contains(t, out, "2024-07-01 to 2024-07-31")
	assert.Contains(t, out, "1430.00")
	assert.Contains(t, out, "CAUTION")
	assert.Contains(t, out, "7150.00")
	assert.Contains(t, out, "75.0%")
}

func TestRenderFacts_NoWindow(t *testing.T) {
	facts := composeSample(t, advisory.KindGeneral, nil)
	facts.Window = nil
	facts.DaysLeft = nil
	facts.DailyAllowance = nil

	out := RenderFacts(facts)
	assert.Contains(t, out, "no active budget")
	assert.Contains(t, out, "n/a")
}

func TestWrite_Formats(t *testing.T) {
	facts := composeSample(t, advisory.KindBudget, nil)

	var jsonOut bytes.Buffer
	require.NoError(t, Write(&jsonOut, facts, FormatJSON))
	assert.Contains(t, jsonOut.String(), `"daily_allowance": "1430"`)

	var yamlOut bytes.Buffer
	require.NoError(t, Write(&yamlOut, facts, FormatYAML))
	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(yamlOut.Bytes(), &decoded))
	assert.Equal(t, "1430", decoded["daily_allowance"])
	assert.Equal(t, 10, decoded["days_left"])

	var textOut bytes.Buffer
	require.NoError(t, Write(&textOut, facts, ""))
	assert.Contains(t, textOut.String(), "Daily allowance")

	assert.Error(t, Write(&bytes.Buffer{}, facts, "xml"))
}
