// Package report exports an advisory snapshot as an XLSX workbook and, when a
// bucket is configured, stores it in S3 behind a presigned link.
package report

import (
	"fmt"
	"sort"

	"github.com/sebuszqo/FlexiFi/internal/finance/application"
	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary      = "Summary"
	SheetCategories   = "Categories"
	SheetTransactions = "Transactions"
	SheetGoals        = "Goals"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	notAvailable = "n/a"
)

// BuildWorkbook renders the snapshot into an in-memory XLSX document.
func BuildWorkbook(snapshot *application.Snapshot) ([]byte, error) {
	if snapshot == nil || snapshot.Facts == nil {
		return nil, fmt.Errorf("snapshot must contain facts")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetCategories, SheetTransactions, SheetGoals} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("could not create sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	writers := []struct {
		sheet string
		rows  [][]interface{}
	}{
		{SheetSummary, summaryRows(snapshot)},
		{SheetCategories, categoryRows(snapshot)},
		{SheetTransactions, transactionRows(snapshot.Transactions)},
		{SheetGoals, goalRows(snapshot)},
	}
	for _, w := range writers {
		if err := writeRows(f, w.sheet, w.rows); err != nil {
			return nil, fmt.Errorf("could not write sheet %s: %w", w.sheet, err)
		}
		if err := f.SetRowStyle(w.sheet, 1, 1, header); err != nil {
			return nil, err
		}
		if err := f.SetColWidth(w.sheet, "A", "E", 20); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func summaryRows(snapshot *application.Snapshot) [][]interface{} {
	facts := snapshot.Facts
	rows := [][]interface{}{
		{"Field", "Value"},
		{"Today", facts.Today},
		{"Query kind", string(facts.QueryKind)},
	}

	if facts.Window != nil {
		rows = append(rows,
			[]interface{}{"Budget start", facts.Window.StartDate},
			[]interface{}{"Budget end", facts.Window.EndDate},
			[]interface{}{"Monthly budget", money(facts.Window.MonthlyBudget)},
		)
	} else {
		rows = append(rows, []interface{}{"Budget window", "No active budget"})
	}

	rows = append(rows,
		[]interface{}{"Transactions", facts.TransactionCount},
		[]interface{}{"Total income", money(facts.TotalIncome)},
		[]interface{}{"Total spent", money(facts.TotalSpent)},
		[]interface{}{"Days left", optionalInt(facts.DaysLeft)},
		[]interface{}{"Remaining budget", optionalMoney(facts.RemainingBudget)},
		[]interface{}{"Daily allowance", optionalMoney(facts.DailyAllowance)},
	)

	if a := facts.Affordability; a != nil {
		rows = append(rows,
			[]interface{}{"Proposed amount", money(a.ProposedAmount)},
			[]interface{}{"Verdict", string(a.Verdict)},
			[]interface{}{"Suggested amount", optionalMoney(a.SuggestedAmount)},
		)
	}
	for _, insight := range facts.Insights {
		rows = append(rows, []interface{}{"Insight", string(insight)})
	}
	return rows
}

func categoryRows(snapshot *application.Snapshot) [][]interface{} {
	categories := make([]string, 0, len(snapshot.Facts.CategoryTotals))
	for category := range snapshot.Facts.CategoryTotals {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	rows := [][]interface{}{{"Category", "Net amount"}}
	for _, category := range categories {
		rows = append(rows, []interface{}{category, money(snapshot.Facts.CategoryTotals[category])})
	}
	return rows
}

func transactionRows(transactions []domain.PersonalTransaction) [][]interface{} {
	rows := [][]interface{}{{"Date", "Amount", "Category", "Description", "Payment method"}}
	for _, t := range transactions {
		rows = append(rows, []interface{}{domain.FormatDate(t.Date), money(t.Amount), t.Category, t.Description, t.PaymentMethod})
	}
	return rows
}

func goalRows(snapshot *application.Snapshot) [][]interface{} {
	rows := [][]interface{}{{"Goal", "Target", "Current", "Deadline", "Progress %"}}
	for _, goal := range snapshot.Facts.Goals {
		rows = append(rows, []interface{}{
			goal.Name,
			money(goal.TargetAmount),
			money(goal.CurrentAmount),
			goal.Deadline,
			optionalMoney(goal.ProgressPercentage),
		})
	}
	return rows
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func optionalMoney(d *decimal.Decimal) interface{} {
	if d == nil {
		return notAvailable
	}
	return money(*d)
}

func optionalInt(v *int) interface{} {
	if v == nil {
		return notAvailable
	}
	return *v
}
