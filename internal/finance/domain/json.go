package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/errors"
	"github.com/shopspring/decimal"
)

// Calendar days travel as "2006-01-02" on the wire. Full RFC 3339 timestamps
// are accepted on input and truncated to the day.

func parseWireDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if d, err := ParseDate(value); err == nil {
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return DateOf(t), nil
	}
	return time.Time{}, errors.NewValidationError(fmt.Sprintf("Invalid %s format. Use YYYY-MM-DD", field))
}

func formatWireDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return FormatDate(t)
}

func (t PersonalTransaction) MarshalJSON() ([]byte, error) {
	type alias PersonalTransaction
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{alias(t), formatWireDate(t.Date)})
}

func (t *PersonalTransaction) UnmarshalJSON(data []byte) error {
	type alias PersonalTransaction
	aux := struct {
		*alias
		Date string `json:"date"`
	}{alias: (*alias)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	date, err := parseWireDate("date", aux.Date)
	if err != nil {
		return err
	}
	t.Date = date
	return nil
}

func (b Budget) MarshalJSON() ([]byte, error) {
	type alias Budget
	return json.Marshal(struct {
		alias
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}{alias(b), formatWireDate(b.StartDate), formatWireDate(b.EndDate)})
}

func (b *Budget) UnmarshalJSON(data []byte) error {
	type alias Budget
	aux := struct {
		*alias
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}{alias: (*alias)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	if b.StartDate, err = parseWireDate("start_date", aux.StartDate); err != nil {
		return err
	}
	if b.EndDate, err = parseWireDate("end_date", aux.EndDate); err != nil {
		return err
	}
	return nil
}

// MarshalJSON adds progress_percentage, null when the target is zero.
func (g SavingsGoal) MarshalJSON() ([]byte, error) {
	type alias SavingsGoal
	return json.Marshal(struct {
		alias
		Deadline           string           `json:"deadline"`
		ProgressPercentage *decimal.Decimal `json:"progress_percentage"`
	}{alias(g), formatWireDate(g.Deadline), g.ProgressPercentage()})
}

func (g *SavingsGoal) UnmarshalJSON(data []byte) error {
	type alias SavingsGoal
	aux := struct {
		*alias
		Deadline string `json:"deadline"`
	}{alias: (*alias)(g)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	deadline, err := parseWireDate("deadline", aux.Deadline)
	if err != nil {
		return err
	}
	g.Deadline = deadline
	return nil
}
