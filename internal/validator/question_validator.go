package validator

import (
	"fmt"

	"github.com/formworks/survey-import-service/internal/models"
)

// QuestionValidator enforces the question business rules once more at commit
// time, independently of what the parsing pipeline (local or remote) claims.
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateRecord validates one parsed question record.
func (v *QuestionValidator) ValidateRecord(record *models.QuestionRecord) error {
	if record.Text == "" {
		return fmt.Errorf("question text is required")
	}

	if _, ok := models.ParseQuestionType(string(record.Type)); !ok {
		return fmt.Errorf("unsupported question type: %s", record.Type)
	}

	if record.Type.RequiresOptions() && len(record.Options) < 2 {
		return fmt.Errorf("%s questions need at least 2 options", record.Type)
	}

	if record.Points < 0 {
		return fmt.Errorf("question points must not be negative")
	}

	if record.MinValue != nil && record.MaxValue != nil && *record.MinValue > *record.MaxValue {
		return fmt.Errorf("min value %g must not exceed max value %g", *record.MinValue, *record.MaxValue)
	}

	return nil
}

// ValidateBatch validates every record of a confirmed preview.
func (v *QuestionValidator) ValidateBatch(records []models.QuestionRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("import contains no questions")
	}

	for i := range records {
		if err := v.ValidateRecord(&records[i]); err != nil {
			return fmt.Errorf("validation failed for question %d: %w", i+1, err)
		}
	}

	return nil
}
