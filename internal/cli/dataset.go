package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
)

// Dataset is an offline export of one user's records.
type Dataset struct {
	Transactions []domain.PersonalTransaction `json:"transactions"`
	Budgets      []domain.Budget              `json:"budgets"`
	Goals        []domain.SavingsGoal         `json:"savings_goals"`
}

func ReadDataset(r io.Reader) (*Dataset, error) {
	var dataset Dataset
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dataset); err != nil {
		return nil, fmt.Errorf("could not parse dataset: %w", err)
	}
	return &dataset, nil
}
