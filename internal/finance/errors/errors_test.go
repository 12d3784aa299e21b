package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidationError_Wrapped(t *testing.T) {
	err := fmt.Errorf("create budget: %w", NewValidationError("end_date must not be before start_date"))
	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(ErrBudgetNotFound))
}

func TestValidationErrors_Messages(t *testing.T) {
	ve := &ValidationErrors{}
	ve.Add(NewIndexedValidationError(1, "Category must be provided"))
	ve.Add(NewIndexedValidationError(3, "Invalid amount"))

	assert.True(t, IsValidationErrors(ve))
	assert.Equal(t, []string{
		"Validation error at transaction 1: Category must be provided",
		"Validation error at transaction 3: Invalid amount",
	}, ve.Messages())
	assert.Contains(t, ve.Error(), "multiple validation errors")
}
