package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("text", "is required", "")

	assert.Equal(t, "text", err.Field)
	assert.Equal(t, "is required", err.Message)
	assert.Equal(t, "validation error on field 'text': is required", err.Error())
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, *NewValidationError("type", "must be a valid question type", nil))
	assert.Equal(t, "validation failed: type must be a valid question type", errs.Error())

	errs = append(errs, *NewValidationError("points", "must be a non-negative integer", nil))
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("options", "needs at least 2 options", "min_options", nil)

	assert.Equal(t, "options", err.Field)
	assert.Equal(t, "min_options", err.Rule)
}
