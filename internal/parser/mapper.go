package parser

import (
	"fmt"
	"strings"

	"github.com/formworks/survey-import-service/internal/models"
)

// headerSynonym relates one normalized header spelling to a target field.
// Unambiguous spellings carry high confidence; short abbreviations that could
// plausibly mean something else ("pts", "min", "kind") carry medium and are
// flagged for user verification.
type headerSynonym struct {
	norm       string
	field      models.TargetField
	confidence models.MappingConfidence
}

// synonymTable is scanned in order, so the outcome is deterministic for any
// input. Exact matches are tried across the whole table before containment.
var synonymTable = []headerSynonym{
	{"text", models.FieldText, models.ConfidenceHigh},
	{"question", models.FieldText, models.ConfidenceHigh},
	{"questiontext", models.FieldText, models.ConfidenceHigh},
	{"prompt", models.FieldText, models.ConfidenceHigh},

	{"type", models.FieldType, models.ConfidenceHigh},
	{"questiontype", models.FieldType, models.ConfidenceHigh},
	{"kind", models.FieldType, models.ConfidenceMedium},

	{"options", models.FieldOptions, models.ConfidenceHigh},
	{"choices", models.FieldOptions, models.ConfidenceHigh},
	{"answers", models.FieldOptions, models.ConfidenceHigh},

	{"required", models.FieldRequired, models.ConfidenceHigh},
	{"mandatory", models.FieldRequired, models.ConfidenceHigh},

	{"minvalue", models.FieldMinValue, models.ConfidenceHigh},
	{"min", models.FieldMinValue, models.ConfidenceMedium},

	{"maxvalue", models.FieldMaxValue, models.ConfidenceHigh},
	{"max", models.FieldMaxValue, models.ConfidenceMedium},

	{"points", models.FieldPoints, models.ConfidenceHigh},
	{"score", models.FieldPoints, models.ConfidenceMedium},
	{"pts", models.FieldPoints, models.ConfidenceMedium},
	{"value", models.FieldPoints, models.ConfidenceMedium},
}

// normalizeHeader reduces a header cell to the form the synonym table is
// keyed by: lower-cased with everything but letters and digits removed.
func normalizeHeader(header string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(header) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var confidenceRank = map[models.MappingConfidence]int{
	models.ConfidenceHigh:   3,
	models.ConfidenceMedium: 2,
	models.ConfidenceLow:    1,
}

// mapColumns maps free-text header cells onto target fields. Matching per
// header: exact normalized match against the synonym table first, then a
// containment match (header contains a synonym or vice versa) at low
// confidence, otherwise unmapped. When two headers claim the same target
// field, the earlier header with the higher confidence keeps it and the loser
// is demoted to unmapped.
func mapColumns(headers []string) []models.ColumnMapping {
	mappings := make([]models.ColumnMapping, len(headers))

	for i, header := range headers {
		mappings[i] = models.ColumnMapping{
			HeaderIndex: i,
			HeaderText:  header,
		}

		norm := normalizeHeader(stripQuotes(header))
		if norm == "" {
			continue
		}

		matched := false
		for _, syn := range synonymTable {
			if norm == syn.norm {
				mappings[i].TargetField = syn.field
				mappings[i].Confidence = syn.confidence
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		for _, syn := range synonymTable {
			if len(syn.norm) < 3 && len(norm) < 3 {
				continue
			}
			if strings.Contains(norm, syn.norm) || strings.Contains(syn.norm, norm) {
				mappings[i].TargetField = syn.field
				mappings[i].Confidence = models.ConfidenceLow
				break
			}
		}
	}

	resolveMappingConflicts(mappings)
	return mappings
}

// resolveMappingConflicts enforces the at-most-one-header-per-field rule.
// For every contested field the earliest mapping among those with the highest
// confidence wins; the rest lose their assignment. Ties on equal confidence
// fall to the earlier header, matching the established import behavior.
func resolveMappingConflicts(mappings []models.ColumnMapping) {
	winners := make(map[models.TargetField]int)

	for i := range mappings {
		field := mappings[i].TargetField
		if field == "" {
			continue
		}
		prev, contested := winners[field]
		if !contested {
			winners[field] = i
			continue
		}
		if confidenceRank[mappings[i].Confidence] > confidenceRank[mappings[prev].Confidence] {
			mappings[prev].TargetField = ""
			mappings[prev].Confidence = ""
			winners[field] = i
		} else {
			mappings[i].TargetField = ""
			mappings[i].Confidence = ""
		}
	}
}

// mappingWarnings emits a verification warning for every mapping that was
// accepted below high confidence.
func mappingWarnings(mappings []models.ColumnMapping) []string {
	var warnings []string
	for _, m := range mappings {
		if m.TargetField == "" || m.Confidence == models.ConfidenceHigh {
			continue
		}
		warnings = append(warnings, fmt.Sprintf(
			"column %q was mapped to %q with %s confidence; verify the mapping before importing",
			m.HeaderText, m.TargetField, m.Confidence))
	}
	return warnings
}

// fieldIndexes flattens mappings into a field→column lookup for row building.
func fieldIndexes(mappings []models.ColumnMapping) map[models.TargetField]int {
	indexes := make(map[models.TargetField]int, len(mappings))
	for _, m := range mappings {
		if m.TargetField != "" {
			indexes[m.TargetField] = m.HeaderIndex
		}
	}
	return indexes
}
