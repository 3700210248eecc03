package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of import events
type EventType string

const (
	EventQuestionsImported EventType = "survey.questions_imported"
	EventImportFailed      EventType = "survey.import_failed"
)

// ImportEvent is the base event structure for all import events
type ImportEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type QuestionsImportedEvent struct {
	JobID         string    `json:"job_id"`
	SurveyID      uint      `json:"survey_id"`
	SurveyTitle   string    `json:"survey_title"`
	QuestionCount int       `json:"question_count"`
	SkippedCount  int       `json:"skipped_count"`
	UserID        string    `json:"user_id"`
	ImportedAt    time.Time `json:"imported_at"`
}

type ImportFailedEvent struct {
	JobID    string    `json:"job_id"`
	UserID   string    `json:"user_id"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}

// Event factory functions

func NewQuestionsImportedEvent(jobID string, surveyID uint, title string, questionCount, skippedCount int, userID string) *ImportEvent {
	return &ImportEvent{
		ID:        GenerateEventID(),
		Type:      EventQuestionsImported,
		Timestamp: time.Now(),
		Source:    "survey-import-service",
		Version:   "1.0",
		Data: QuestionsImportedEvent{
			JobID:         jobID,
			SurveyID:      surveyID,
			SurveyTitle:   title,
			QuestionCount: questionCount,
			SkippedCount:  skippedCount,
			UserID:        userID,
			ImportedAt:    time.Now(),
		},
	}
}

func NewImportFailedEvent(jobID, userID, reason string) *ImportEvent {
	return &ImportEvent{
		ID:        GenerateEventID(),
		Type:      EventImportFailed,
		Timestamp: time.Now(),
		Source:    "survey-import-service",
		Version:   "1.0",
		Data: ImportFailedEvent{
			JobID:    jobID,
			UserID:   userID,
			Reason:   reason,
			FailedAt: time.Now(),
		},
	}
}

// GenerateEventID returns a unique event id
func GenerateEventID() string {
	return uuid.NewString()
}
