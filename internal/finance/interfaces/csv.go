package interfaces

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FlexiFi/internal/finance/errors"
	"github.com/shopspring/decimal"
)

type csvTransaction struct {
	Date          string `csv:"date"`
	Amount        string `csv:"amount"`
	Category      string `csv:"category"`
	Description   string `csv:"description"`
	PaymentMethod string `csv:"payment_method"`
}

// readTransactionsCSV parses an import file. Rows that cannot be parsed are
// reported with their 1-based row number; nothing is returned for them.
func readTransactionsCSV(r io.Reader) ([]*domain.PersonalTransaction, error) {
	var rows []*csvTransaction
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, financeErrors.NewValidationError(fmt.Sprintf("Invalid CSV file: %v", err))
	}
	if len(rows) == 0 {
		return nil, financeErrors.NewValidationError("CSV file contains no transactions")
	}

	validationErrors := &financeErrors.ValidationErrors{}
	transactions := make([]*domain.PersonalTransaction, 0, len(rows))
	for i, row := range rows {
		date, err := domain.ParseDate(row.Date)
		if err != nil {
			validationErrors.Add(financeErrors.NewIndexedValidationError(i+1, "Invalid date format. Use YYYY-MM-DD"))
			continue
		}
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil {
			validationErrors.Add(financeErrors.NewIndexedValidationError(i+1, "Invalid amount"))
			continue
		}
		transactions = append(transactions, &domain.PersonalTransaction{
			Amount:        amount,
			Category:      row.Category,
			Description:   row.Description,
			Date:          date,
			PaymentMethod: row.PaymentMethod,
		})
	}
	if len(validationErrors.Errors) > 0 {
		return nil, validationErrors
	}
	return transactions, nil
}

func writeTransactionsCSV(w io.Writer, transactions []domain.PersonalTransaction) error {
	rows := make([]*csvTransaction, 0, len(transactions))
	for _, transaction := range transactions {
		rows = append(rows, &csvTransaction{
			Date:          domain.FormatDate(transaction.Date),
			Amount:        transaction.Amount.StringFixed(2),
			Category:      transaction.Category,
			Description:   transaction.Description,
			PaymentMethod: transaction.PaymentMethod,
		})
	}
	return gocsv.Marshal(rows, w)
}
