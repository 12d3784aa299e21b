// Package cli renders fact bundles for the terminal.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sebuszqo/FlexiFi/internal/finance/advisory"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	ColorBorder = lipgloss.Color("#282726")
	ColorText   = lipgloss.Color("#FFFCF0")
	ColorAccent = lipgloss.Color("#3AA99F")
	ColorGreen  = lipgloss.Color("#879A39")
	ColorOrange = lipgloss.Color("#DA702C")
	ColorRed    = lipgloss.Color("#D14D41")
	ColorMuted  = lipgloss.Color("#6F6E69")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Width(48).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle  = lipgloss.NewStyle().Foreground(ColorMuted).Width(20)
	valueStyle  = lipgloss.NewStyle().Foreground(ColorText)
)

var verdictColors = map[advisory.Verdict]lipgloss.Color{
	advisory.VerdictApprove: ColorGreen,
	advisory.VerdictCaution: ColorOrange,
	advisory.VerdictDeny:    ColorRed,
	advisory.VerdictUnknown: ColorMuted,
}

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Write prints facts in the requested format.
func Write(w io.Writer, facts *advisory.Facts, format string) error {
	switch format {
	case "", FormatText:
		_, err := io.WriteString(w, RenderFacts(facts))
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(facts)
	case FormatYAML:
		return writeYAML(w, facts)
	}
	return fmt.Errorf("unsupported output format: %s (must be text, json or yaml)", format)
}

// writeYAML goes through the JSON encoding so decimals and nulls look the
// same in both formats.
func writeYAML(w io.Writer, facts *advisory.Facts) error {
	raw, err := json.Marshal(facts)
	if err != nil {
		return err
	}
	var generic map[string]interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

func RenderFacts(facts *advisory.Facts) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("FLEXIFI ADVICE " + facts.Today))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("Budget"))
	b.WriteString("\n")
	if facts.Window != nil {
		row(&b, "Period", facts.Window.StartDate+" to "+facts.Window.EndDate)
		row(&b, "Monthly budget", facts.Window.MonthlyBudget.StringFixed(2))
	} else {
		row(&b, "Period", "no active budget")
	}
	row(&b, "Days left", optionalInt(facts.DaysLeft))
	row(&b, "Remaining budget", optional(facts.RemainingBudget))
	row(&b, "Daily allowance", optional(facts.DailyAllowance))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Activity"))
	b.WriteString("\n")
	row(&b, "Transactions", fmt.Sprintf("%d", facts.TransactionCount))
	row(&b, "Total income", facts.TotalIncome.StringFixed(2))
	row(&b, "Total spent", facts.TotalSpent.StringFixed(2))
	categories := make([]string, 0, len(facts.CategoryTotals))
	for category := range facts.CategoryTotals {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		row(&b, "  "+category, facts.CategoryTotals[category].StringFixed(2))
	}
	b.WriteString("\n")

	if len(facts.Goals) > 0 {
		b.WriteString(headerStyle.Render("Savings goals"))
		b.WriteString("\n")
		for _, goal := range facts.Goals {
			progress := "not computable"
			if goal.ProgressPercentage != nil {
				progress = goal.ProgressPercentage.StringFixed(1) + "%"
			}
			row(&b, goal.Name, fmt.Sprintf("%s / %s (%s) by %s",
				goal.CurrentAmount.StringFixed(2), goal.TargetAmount.StringFixed(2), progress, goal.Deadline))
		}
		b.WriteString("\n")
	}

	if a := facts.Affordability; a != nil {
		b.WriteString(headerStyle.Render("Purchase"))
		b.WriteString("\n")
		verdict := lipgloss.NewStyle().Bold(true).Foreground(verdictColors[a.Verdict]).Render(string(a.Verdict))
		row(&b, "Proposed amount", a.ProposedAmount.StringFixed(2))
		row(&b, "Verdict", verdict)
		row(&b, "Allowance after", optional(a.AllowanceAfter))
		if a.SuggestedAmount != nil {
			row(&b, "Safer amount", a.SuggestedAmount.StringFixed(2))
		}
		row(&b, "Reason", a.Reason)
		b.WriteString("\n")
	}

	if len(facts.Insights) > 0 {
		names := make([]string, len(facts.Insights))
		for i, insight := range facts.Insights {
			names[i] = string(insight)
		}
		row(&b, "Insights", strings.Join(names, ", "))
	}
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	b.WriteString("  ")
	b.WriteString(labelStyle.Render(label))
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
}

func optional(d *decimal.Decimal) string {
	if d == nil {
		return "n/a"
	}
	return d.StringFixed(2)
}

func optionalInt(v *int) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d", *v)
}
