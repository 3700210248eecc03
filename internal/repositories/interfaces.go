package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/formworks/survey-import-service/internal/models"
)

// ErrNotFound is returned by repositories when the requested entity does not
// exist.
var ErrNotFound = errors.New("record not found")

// IsNotFoundError checks whether an error represents a missing record.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ===== SHARED FILTER STRUCTS =====

type SurveyFilters struct {
	CreatedBy *string    `json:"created_by"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`    // "created_at", "title"
	SortOrder string     `json:"sort_order"` // "asc", "desc"
}

type QuestionFilters struct {
	Type      *models.QuestionType `json:"type"`
	CreatedBy *string              `json:"created_by"`
	Limit     int                  `json:"limit"`
	Offset    int                  `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

// SurveyRepository persists surveys created from confirmed imports.
type SurveyRepository interface {
	Create(ctx context.Context, survey *models.Survey) error
	GetByID(ctx context.Context, id uint) (*models.Survey, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.Survey, error)
	List(ctx context.Context, filters SurveyFilters) ([]*models.Survey, int64, error)
	Delete(ctx context.Context, id uint) error
}

// QuestionRepository persists the questions of a survey.
type QuestionRepository interface {
	CreateBatch(ctx context.Context, questions []*models.Question) error
	GetBySurvey(ctx context.Context, surveyID uint) ([]*models.Question, error)
	CountBySurvey(ctx context.Context, surveyID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

// ImportJobRepository tracks confirmed imports.
type ImportJobRepository interface {
	Create(ctx context.Context, job *models.ImportJob) error
	GetByID(ctx context.Context, id string) (*models.ImportJob, error)
	Update(ctx context.Context, job *models.ImportJob) error
}

// Repository aggregates all repositories and provides transaction support.
type Repository interface {
	Survey() SurveyRepository
	Question() QuestionRepository
	ImportJob() ImportJobRepository

	// WithTransaction runs fn against a repository bound to one transaction;
	// a returned error rolls everything back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error
}
