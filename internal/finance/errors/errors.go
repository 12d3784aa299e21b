package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError marks malformed or inconsistent input records. Handlers map
// it to 400 and the advisory pipeline never coerces it into a value.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}

func NewIndexedValidationError(index int, msg string) error {
	return &ValidationError{Msg: fmt.Sprintf("Validation error at transaction %d: %s", index, msg)}
}

var (
	ErrBudgetNotFound        = errors.New("budget not found")
	ErrNoActiveBudget        = errors.New("no active budget for the given day")
	ErrSavingsGoalNotFound   = errors.New("savings goal not found")
	ErrAccountNotFound       = errors.New("account not found")
	ErrInvalidQueryKind      = NewValidationError("query_kind must be one of general, budget, savings, affordability")
	ErrProposedAmountMissing = NewValidationError("proposed_amount must be a positive amount for affordability queries")
	ErrInvalidPaymentMethod  = NewValidationError("Invalid payment method")
	ErrNegativeAmount        = NewValidationError("Amount must not be negative")
)

type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Error() string {
	errorMessages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		errorMessages[i] = err.Error()
	}
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(errorMessages, "; "))
}

func (ve *ValidationErrors) Add(err error) {
	ve.Errors = append(ve.Errors, err)
}

func (ve *ValidationErrors) Messages() []string {
	messages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		messages[i] = err.Error()
	}
	return messages
}

func IsValidationErrors(err error) bool {
	var validationErrors *ValidationErrors
	ok := errors.As(err, &validationErrors)
	return ok
}
