package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exportJSON = `{
  "transactions": [
    {"amount": "5000", "category": "Income", "date": "2024-07-01", "payment_method": "Bank"},
    {"amount": "-500", "category": "Food", "date": "2024-07-15", "payment_method": "Cash"},
    {"amount": "-200", "category": "Entertainment", "date": "2024-07-16"}
  ],
  "budgets": [
    {"monthly_budget": "10000", "start_date": "2024-07-01", "end_date": "2024-07-31"}
  ],
  "savings_goals": []
}`

func runAdviseWith(t *testing.T, kind, amount, output string) (*bytes.Buffer, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(exportJSON), 0o600))

	flagFile, flagToday, flagKind, flagAmount, flagOutput, flagTightnessRatio = path, "2024-07-22", kind, amount, output, 0.5
	t.Cleanup(func() {
		flagFile, flagToday, flagKind, flagAmount, flagOutput = "", "", "", "", "text"
	})

	var out bytes.Buffer
	adviseCmd.SetOut(&out)
	t.Cleanup(func() { adviseCmd.SetOut(nil) })
	return &out, runAdvise(adviseCmd, nil)
}

func TestAdvise_JSONAffordability(t *testing.T) {
	out, err := runAdviseWith(t, "", "20000", "json")
	require.NoError(t, err)

	var facts struct {
		QueryKind      string `json:"query_kind"`
		DaysLeft       int    `json:"days_left"`
		DailyAllowance string `json:"daily_allowance"`
		Affordability  struct {
			Verdict string `json:"verdict"`
		} `json:"affordability"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &facts))
	assert.Equal(t, "affordability", facts.QueryKind)
	assert.Equal(t, 10, facts.DaysLeft)
	assert.Equal(t, "1430", facts.DailyAllowance)
	assert.Equal(t, "DENY", facts.Affordability.Verdict)
}

func TestAdvise_TextOutput(t *testing.T) {
	out, err := runAdviseWith(t, "budget", "", "text")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "FLEXIFI ADVICE 2024-07-22")
	assert.Contains(t, out.String(), "1430.00")
}

func TestAdvise_Errors(t *testing.T) {
	_, err := runAdviseWith(t, "horoscope", "", "text")
	assert.Error(t, err)

	_, err = runAdviseWith(t, "", "lots", "text")
	assert.ErrorContains(t, err, "invalid --amount")

	_, err = runAdviseWith(t, "budget", "", "xml")
	assert.Error(t, err)
}
