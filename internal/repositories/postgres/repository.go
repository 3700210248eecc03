package postgres

import (
	"context"

	"github.com/formworks/survey-import-service/internal/repositories"
	"gorm.io/gorm"
)

// Repository is the gorm-backed aggregate of all repositories.
type Repository struct {
	db        *gorm.DB
	survey    repositories.SurveyRepository
	question  repositories.QuestionRepository
	importJob repositories.ImportJobRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{
		db:        db,
		survey:    NewSurveyPostgreSQL(db),
		question:  NewQuestionPostgreSQL(db),
		importJob: NewImportJobPostgreSQL(db),
	}
}

func (r *Repository) Survey() repositories.SurveyRepository {
	return r.survey
}

func (r *Repository) Question() repositories.QuestionRepository {
	return r.question
}

func (r *Repository) ImportJob() repositories.ImportJobRepository {
	return r.importJob
}

// WithTransaction runs fn against repositories bound to one transaction
func (r *Repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
