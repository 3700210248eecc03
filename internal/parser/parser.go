// Package parser turns an uploaded byte blob of unknown shape into a
// validated, strongly-typed list of question records with partial-success
// semantics: valid rows are imported, invalid rows are reported, and nothing
// is silently dropped or fatally aborted unless the file is unusable as a
// whole.
//
// The pipeline is a pure function over the input: it holds no state across
// invocations, performs no I/O, and produces identical output for identical
// input, so a remote preview service implementing the same contract can be
// swapped in transparently.
package parser

import (
	"fmt"

	"github.com/formworks/survey-import-service/internal/models"
)

// Parse runs the import pipeline over content declared as the given source
// type. All fatal, per-row, and informational conditions are returned as data
// inside the ImportResult; the error return is reserved for an unsupported
// source type.
func Parse(content []byte, source models.SourceType) (*models.ImportResult, error) {
	text := string(content)

	switch source {
	case models.SourceJSON:
		return parseJSON(text), nil
	case models.SourceCSV, models.SourceExcelOrTSV:
		// Both declared types take the delimited path; the sniffer settles
		// tab vs. semicolon vs. comma from the header either way.
		return parseDelimited(text), nil
	default:
		return nil, fmt.Errorf("unsupported source type %q", source)
	}
}

// ParseRows runs the column-mapping and row-validation stages over rows that
// are already tokenized, e.g. cells read out of an XLSX sheet.
func ParseRows(headers []string, rows [][]string) *models.ImportResult {
	result := newImportResult()
	stripped := make([]string, len(headers))
	for i, h := range headers {
		stripped[i] = stripQuotes(h)
	}
	buildFromRows(stripped, rows, result)
	return result
}

// newImportResult allocates a result with non-nil slices so the aggregate
// serializes with stable, explicit fields for both producers.
func newImportResult() *models.ImportResult {
	return &models.ImportResult{
		Questions:      []models.QuestionRecord{},
		Warnings:       []string{},
		Errors:         []string{},
		InvalidRows:    []models.InvalidRow{},
		ColumnMappings: []models.ColumnMapping{},
	}
}
