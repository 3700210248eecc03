package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	ShortText    QuestionType = "short_text"
	Paragraph    QuestionType = "paragraph"
	SingleChoice QuestionType = "single_choice"
	MultiChoice  QuestionType = "multi_choice"
	Dropdown     QuestionType = "dropdown"
	Rating       QuestionType = "rating"
	Boolean      QuestionType = "boolean"
	Date         QuestionType = "date"
	Time         QuestionType = "time"
	Number       QuestionType = "number"
)

// questionTypeAliases maps lower-cased input spellings onto the canonical
// QuestionType. Imported files come from many tools, so the common aliases
// ("radio", "checkbox", "select", ...) are accepted alongside the canonical
// names.
var questionTypeAliases = map[string]QuestionType{
	"short_text":    ShortText,
	"short-text":    ShortText,
	"shorttext":     ShortText,
	"text":          ShortText,
	"short":         ShortText,
	"paragraph":     Paragraph,
	"textarea":      Paragraph,
	"long_text":     Paragraph,
	"longtext":      Paragraph,
	"single_choice": SingleChoice,
	"single-choice": SingleChoice,
	"singlechoice":  SingleChoice,
	"radio":         SingleChoice,
	"choice":        SingleChoice,
	"multi_choice":  MultiChoice,
	"multi-choice":  MultiChoice,
	"multichoice":   MultiChoice,
	"checkbox":      MultiChoice,
	"checkboxes":    MultiChoice,
	"dropdown":      Dropdown,
	"select":        Dropdown,
	"rating":        Rating,
	"scale":         Rating,
	"boolean":       Boolean,
	"yes_no":        Boolean,
	"yesno":         Boolean,
	"true_false":    Boolean,
	"truefalse":     Boolean,
	"date":          Date,
	"time":          Time,
	"number":        Number,
	"numeric":       Number,
}

// ParseQuestionType resolves a raw (already lower-cased) type value to a
// canonical QuestionType. The second return is false when the value is not
// recognized; callers default to ShortText in that case.
func ParseQuestionType(raw string) (QuestionType, bool) {
	qt, ok := questionTypeAliases[raw]
	return qt, ok
}

// RequiresOptions reports whether the type is choice-bearing and therefore
// needs at least two options to produce an answerable question.
func (qt QuestionType) RequiresOptions() bool {
	switch qt {
	case SingleChoice, MultiChoice, Dropdown:
		return true
	}
	return false
}

// QuestionRecord is one parsed question as produced by the import pipeline.
// It is the unit of the preview shown to the creator before anything is
// persisted.
type QuestionRecord struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Type        QuestionType `json:"type"`
	Options     []string     `json:"options,omitempty"`
	Required    bool         `json:"required"`
	Placeholder string       `json:"placeholder,omitempty"`
	MinValue    *float64     `json:"min_value,omitempty"`
	MaxValue    *float64     `json:"max_value,omitempty"`
	Points      int          `json:"points"`
}

// Survey groups questions committed from an import preview.
type Survey struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	CreatedBy   string  `json:"created_by" gorm:"not null;index;size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Questions []Question `json:"questions" gorm:"foreignKey:SurveyID"`

	QuestionsCount int `json:"questions_count" gorm:"-"`
}

// Question is the persisted form of a QuestionRecord.
type Question struct {
	ID       uint         `json:"id" gorm:"primaryKey"`
	SurveyID uint         `json:"survey_id" gorm:"not null;index"`
	Position int          `json:"position" gorm:"not null"`
	Text     string       `json:"text" gorm:"not null;type:text" validate:"required,min=1"`
	Type     QuestionType `json:"type" gorm:"not null;size:20;index"`

	Options     datatypes.JSON `json:"options" gorm:"type:jsonb"` // []string
	Required    bool           `json:"required" gorm:"default:false"`
	Placeholder *string        `json:"placeholder" gorm:"size:500"`
	MinValue    *float64       `json:"min_value"`
	MaxValue    *float64       `json:"max_value"`
	Points      int            `json:"points" gorm:"default:0" validate:"min=0"`

	CreatedBy string    `json:"created_by" gorm:"not null;index;size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Survey) TableName() string {
	return "surveys"
}

func (Question) TableName() string {
	return "questions"
}
