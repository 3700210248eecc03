package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/formworks/survey-import-service/internal/models"
)

// parseJSON handles the JSON path. The document is decoded into an untyped
// tree exactly once; a single validating pass then lifts each element into a
// QuestionRecord or drops it with a warning. The JSON path has no row-index
// concept, so recoverable per-item issues go to warnings rather than
// invalid rows.
func parseJSON(content string) *models.ImportResult {
	result := newImportResult()

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("invalid JSON: %v", err))
		return result
	}

	items, ok := doc["questions"].([]interface{})
	if !ok {
		result.Errors = append(result.Errors, `JSON document must contain a "questions" array`)
		return result
	}

	result.Title = coerceString(doc["title"])
	result.Description = coerceString(doc["description"])

	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("question %d is not an object and was skipped", i+1))
			continue
		}

		question, warnings := buildJSONQuestion(obj, i+1)
		result.Warnings = append(result.Warnings, warnings...)
		if question == nil {
			continue
		}
		question.ID = fmt.Sprintf("imported_%d", len(result.Questions)+1)
		result.Questions = append(result.Questions, *question)
	}

	return result
}

// buildJSONQuestion converts one decoded JSON object into a QuestionRecord,
// or nil when the item must be dropped. All returned warnings name the item
// by its 1-based position in the questions array.
func buildJSONQuestion(obj map[string]interface{}, position int) (*models.QuestionRecord, []string) {
	var warnings []string

	text := strings.TrimSpace(coerceString(obj["text"]))
	if text == "" {
		warnings = append(warnings, fmt.Sprintf("question %d: missing question text", position))
		return nil, warnings
	}

	qType := models.ShortText
	if raw, ok := obj["type"].(string); ok && strings.TrimSpace(raw) != "" {
		parsed, known := models.ParseQuestionType(strings.ToLower(strings.TrimSpace(raw)))
		if known {
			qType = parsed
		} else {
			warnings = append(warnings,
				fmt.Sprintf("question %d: unknown question type %q, defaulting to short text", position, raw))
		}
	}

	var options []string
	if items, ok := obj["options"].([]interface{}); ok {
		for _, item := range items {
			if s := strings.TrimSpace(coerceString(item)); s != "" {
				options = append(options, s)
			}
		}
	}

	if qType.RequiresOptions() && len(options) < 2 {
		warnings = append(warnings,
			fmt.Sprintf("question %d: %s questions need at least 2 options", position, qType))
		return nil, warnings
	}

	return &models.QuestionRecord{
		Text:        text,
		Type:        qType,
		Options:     options,
		Required:    isTruthy(obj["required"]),
		Placeholder: coerceString(obj["placeholder"]),
		MinValue:    numberOrNil(obj["minValue"]),
		MaxValue:    numberOrNil(obj["maxValue"]),
		Points:      pointsOrZero(obj["points"]),
	}, warnings
}

// coerceString renders scalar JSON values as strings; objects, arrays and
// null are treated as absent.
func coerceString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return formatNumber(t)
	case bool:
		return fmt.Sprintf("%t", t)
	}
	return ""
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// isTruthy mirrors the loose coercion used by form tooling: booleans count as
// themselves, numbers as non-zero, strings as non-empty and not "false".
func isTruthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s != "" && s != "false" && s != "0"
	}
	return false
}

// numberOrNil passes a value through only when it is already numeric.
func numberOrNil(v interface{}) *float64 {
	if f, ok := v.(float64); ok {
		return &f
	}
	return nil
}

func pointsOrZero(v interface{}) int {
	if f, ok := v.(float64); ok && f >= 0 {
		return int(f)
	}
	return 0
}
