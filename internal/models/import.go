package models

import (
	"time"

	"gorm.io/datatypes"
)

// SourceType is the declared format of an uploaded import file. The pipeline
// never sniffs MIME types from bytes; the caller declares the format.
type SourceType string

const (
	SourceJSON       SourceType = "json"
	SourceCSV        SourceType = "csv"
	SourceExcelOrTSV SourceType = "excel_or_tsv"
)

// TargetField is one of the semantic slots a source column can be mapped to.
type TargetField string

const (
	FieldText     TargetField = "text"
	FieldType     TargetField = "type"
	FieldOptions  TargetField = "options"
	FieldRequired TargetField = "required"
	FieldMinValue TargetField = "min_value"
	FieldMaxValue TargetField = "max_value"
	FieldPoints   TargetField = "points"
)

// MappingConfidence ranks how much a column mapping can be trusted. Anything
// below high is surfaced to the user for verification before import.
type MappingConfidence string

const (
	ConfidenceHigh   MappingConfidence = "high"
	ConfidenceMedium MappingConfidence = "medium"
	ConfidenceLow    MappingConfidence = "low"
)

// ColumnMapping records how one header cell was interpreted. TargetField is
// empty when the header could not be mapped to any known field.
type ColumnMapping struct {
	HeaderIndex int               `json:"header_index"`
	HeaderText  string            `json:"header_text"`
	TargetField TargetField       `json:"target_field,omitempty"`
	Confidence  MappingConfidence `json:"confidence,omitempty"`
}

// InvalidRow is a data row rejected during validation. Raw values are kept so
// the user can correct and re-import the line. RowIndex is 1-based and counts
// the header as row 1, matching the line numbers a user sees in their file.
type InvalidRow struct {
	RowIndex  int      `json:"row_index"`
	Reason    string   `json:"reason"`
	RawValues []string `json:"raw_values"`
}

// ImportResult is the single output contract of the parsing pipeline. Both
// the local parser and the remote preview service produce this exact shape,
// so the consumer never branches on which one ran.
type ImportResult struct {
	Title          string           `json:"title,omitempty"`
	Description    string           `json:"description,omitempty"`
	Questions      []QuestionRecord `json:"questions"`
	Warnings       []string         `json:"warnings"`
	Errors         []string         `json:"errors"`
	InvalidRows    []InvalidRow     `json:"invalid_rows"`
	ColumnMappings []ColumnMapping  `json:"column_mappings"`

	// ValidatedBy is cosmetic only: "server" when the remote preview service
	// produced the result, "local" when the in-process parser did.
	ValidatedBy string `json:"validated_by,omitempty"`
}

// Previewable reports whether the result can be shown to the user for
// confirmation. Invalid rows and warnings do not block the preview; partial
// success is by design. Only fatal errors do.
func (r *ImportResult) Previewable() bool {
	return len(r.Errors) == 0
}

type ImportJobStatus string

const (
	ImportPending    ImportJobStatus = "pending"
	ImportProcessing ImportJobStatus = "processing"
	ImportCompleted  ImportJobStatus = "completed"
	ImportFailed     ImportJobStatus = "failed"
)

// ImportJob tracks one confirmed import from preview to persisted questions.
type ImportJob struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"` // UUID
	SurveyID *uint  `json:"survey_id" gorm:"index"`
	UserID   string `json:"user_id" gorm:"not null;index;size:255"`

	FileName string     `json:"file_name" gorm:"size:255"`
	FileType SourceType `json:"file_type" gorm:"size:20"`

	Status ImportJobStatus `json:"status" gorm:"default:pending;index"`

	TotalRows    int `json:"total_rows"`
	SuccessCount int `json:"success_count"`
	SkippedCount int `json:"skipped_count"`

	Warnings datatypes.JSON `json:"warnings" gorm:"type:jsonb"` // []string
	Invalid  datatypes.JSON `json:"invalid" gorm:"type:jsonb"`  // []InvalidRow

	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (ImportJob) TableName() string {
	return "import_jobs"
}
