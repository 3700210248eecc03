package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/formworks/survey-import-service/internal/models"
)

// parseDelimited handles the CSV/TSV path: normalize, sniff the delimiter
// from the header, tokenize every line with it, map the header columns, then
// validate each data row independently.
func parseDelimited(content string) *models.ImportResult {
	result := newImportResult()

	lines := normalizeText(content)
	if len(lines) < 2 {
		result.Errors = append(result.Errors, "file must have a header row and at least one data row")
		return result
	}

	delim := sniffDelimiter(lines[0])

	headers := splitLine(lines[0], delim)
	for i := range headers {
		headers[i] = stripQuotes(headers[i])
	}

	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, splitLine(line, delim))
	}

	buildFromRows(headers, rows, result)
	return result
}

// buildFromRows runs the column auto-mapper and the per-row validator over
// already-tokenized rows. The XLSX path enters here directly since workbook
// cells arrive pre-split.
func buildFromRows(headers []string, rows [][]string, result *models.ImportResult) {
	mappings := mapColumns(headers)
	result.ColumnMappings = mappings
	result.Warnings = append(result.Warnings, mappingWarnings(mappings)...)

	indexes := fieldIndexes(mappings)
	if _, ok := indexes[models.FieldText]; !ok {
		result.Errors = append(result.Errors, "no column could be mapped to question text")
		return
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "file must have a header row and at least one data row")
		return
	}

	// Fold every row into exactly one of the two accumulators so that no
	// input line can ever be dropped unaccounted for.
	for i, row := range rows {
		rowIndex := i + 2 // 1-based, header is row 1
		question, invalid := buildQuestion(row, indexes, rowIndex, result)
		if invalid != nil {
			result.InvalidRows = append(result.InvalidRows, *invalid)
			continue
		}
		question.ID = fmt.Sprintf("imported_%d", len(result.Questions)+1)
		result.Questions = append(result.Questions, *question)
	}

	if n := len(result.InvalidRows); n > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d row(s) were skipped; review the invalid rows for details", n))
	}
}

// buildQuestion validates one tokenized data row against the column mapping
// and either produces a question or an invalid-row report. Soft issues (an
// unrecognized type, for instance) land in the shared warnings list instead.
func buildQuestion(row []string, indexes map[models.TargetField]int, rowIndex int, result *models.ImportResult) (*models.QuestionRecord, *models.InvalidRow) {
	cell := func(field models.TargetField) string {
		idx, ok := indexes[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	text := stripQuotes(cell(models.FieldText))
	if text == "" {
		return nil, &models.InvalidRow{
			RowIndex:  rowIndex,
			Reason:    "Empty question text",
			RawValues: row,
		}
	}

	qType := models.ShortText
	if raw := strings.TrimSpace(cell(models.FieldType)); raw != "" {
		parsed, ok := models.ParseQuestionType(strings.ToLower(raw))
		if ok {
			qType = parsed
		} else {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("row %d: unknown question type %q, defaulting to short text", rowIndex, raw))
		}
	}

	options := parseOptions(cell(models.FieldOptions))

	if qType.RequiresOptions() && len(options) < 2 {
		return nil, &models.InvalidRow{
			RowIndex:  rowIndex,
			Reason:    fmt.Sprintf("%s questions need at least 2 options", qType),
			RawValues: row,
		}
	}

	return &models.QuestionRecord{
		Text:     text,
		Type:     qType,
		Options:  options,
		Required: strings.EqualFold(strings.TrimSpace(cell(models.FieldRequired)), "true"),
		MinValue: parseOptionalNumber(cell(models.FieldMinValue)),
		MaxValue: parseOptionalNumber(cell(models.FieldMaxValue)),
		Points:   parsePoints(cell(models.FieldPoints)),
	}, nil
}

// parseOptions interprets an options cell. A value that looks like a JSON
// array is parsed as one, falling back to pipe-delimited splitting when the
// JSON is malformed; anything else splits on pipes directly. Empty entries
// are dropped either way.
func parseOptions(raw string) []string {
	raw = stripQuotes(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var items []interface{}
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			options := make([]string, 0, len(items))
			for _, item := range items {
				if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
					options = append(options, s)
				}
			}
			return options
		}
	}

	var options []string
	for _, part := range strings.Split(raw, "|") {
		if part = strings.TrimSpace(part); part != "" {
			options = append(options, part)
		}
	}
	return options
}

// parseOptionalNumber returns nil, not zero, for anything non-numeric so that
// an absent bound stays distinguishable from an explicit zero.
func parseOptionalNumber(raw string) *float64 {
	raw = strings.TrimSpace(stripQuotes(raw))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parsePoints defaults to zero rather than unset; negative values clamp to
// zero since points are a non-negative score weight.
func parsePoints(raw string) int {
	raw = strings.TrimSpace(stripQuotes(raw))
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0
	}
	return int(v)
}
