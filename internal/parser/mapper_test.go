package parser

import (
	"testing"

	"github.com/formworks/survey-import-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapColumns(t *testing.T) {
	t.Run("exact synonym match is high confidence", func(t *testing.T) {
		mappings := mapColumns([]string{"Question Text"})
		require.Len(t, mappings, 1)
		assert.Equal(t, models.FieldText, mappings[0].TargetField)
		assert.Equal(t, models.ConfidenceHigh, mappings[0].Confidence)
	})

	t.Run("abbreviation synonym is below high confidence", func(t *testing.T) {
		mappings := mapColumns([]string{"Pts"})
		require.Len(t, mappings, 1)
		assert.Equal(t, models.FieldPoints, mappings[0].TargetField)
		assert.NotEqual(t, models.ConfidenceHigh, mappings[0].Confidence)

		warnings := mappingWarnings(mappings)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "Pts")
		assert.Contains(t, warnings[0], "verify")
	})

	t.Run("containment match is low confidence", func(t *testing.T) {
		mappings := mapColumns([]string{"the question here"})
		require.Len(t, mappings, 1)
		assert.Equal(t, models.FieldText, mappings[0].TargetField)
		assert.Equal(t, models.ConfidenceLow, mappings[0].Confidence)
	})

	t.Run("unrecognized header stays unmapped", func(t *testing.T) {
		mappings := mapColumns([]string{"favorite color"})
		require.Len(t, mappings, 1)
		assert.Empty(t, mappings[0].TargetField)
		assert.Empty(t, mappings[0].Confidence)
	})

	t.Run("sample header row maps every column at high confidence", func(t *testing.T) {
		headers := []string{"text", "type", "options", "required", "minValue", "maxValue", "points"}
		expected := []models.TargetField{
			models.FieldText, models.FieldType, models.FieldOptions, models.FieldRequired,
			models.FieldMinValue, models.FieldMaxValue, models.FieldPoints,
		}

		mappings := mapColumns(headers)
		require.Len(t, mappings, len(headers))
		for i, m := range mappings {
			assert.Equal(t, i, m.HeaderIndex)
			assert.Equal(t, headers[i], m.HeaderText)
			assert.Equal(t, expected[i], m.TargetField)
			assert.Equal(t, models.ConfidenceHigh, m.Confidence)
		}
		assert.Empty(t, mappingWarnings(mappings))
	})

	t.Run("higher confidence wins a contested field regardless of order", func(t *testing.T) {
		mappings := mapColumns([]string{"Pts", "Points"})
		require.Len(t, mappings, 2)
		assert.Empty(t, mappings[0].TargetField)
		assert.Equal(t, models.FieldPoints, mappings[1].TargetField)
		assert.Equal(t, models.ConfidenceHigh, mappings[1].Confidence)
	})

	t.Run("equal confidence ties go to the earlier header", func(t *testing.T) {
		mappings := mapColumns([]string{"question", "prompt"})
		require.Len(t, mappings, 2)
		assert.Equal(t, models.FieldText, mappings[0].TargetField)
		assert.Empty(t, mappings[1].TargetField)
	})
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "questiontext", normalizeHeader("Question Text"))
	assert.Equal(t, "minvalue", normalizeHeader("min_value"))
	assert.Equal(t, "pts", normalizeHeader("  Pts. "))
	assert.Equal(t, "", normalizeHeader("***"))
}
