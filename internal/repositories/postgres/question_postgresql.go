package postgres

import (
	"context"
	"fmt"

	"github.com/formworks/survey-import-service/internal/models"
	"github.com/formworks/survey-import-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

// CreateBatch inserts all questions of one confirmed import
func (q *QuestionPostgreSQL) CreateBatch(ctx context.Context, questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	if err := q.db.WithContext(ctx).Create(&questions).Error; err != nil {
		return fmt.Errorf("failed to create questions: %w", err)
	}
	return nil
}

// GetBySurvey retrieves all questions of a survey in position order
func (q *QuestionPostgreSQL) GetBySurvey(ctx context.Context, surveyID uint) ([]*models.Question, error) {
	var questions []*models.Question
	if err := q.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("position ASC").
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to get survey questions: %w", err)
	}
	return questions, nil
}

// CountBySurvey counts the questions of a survey
func (q *QuestionPostgreSQL) CountBySurvey(ctx context.Context, surveyID uint) (int64, error) {
	var count int64
	if err := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("survey_id = ?", surveyID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// Delete removes a single question
func (q *QuestionPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := q.db.WithContext(ctx).Delete(&models.Question{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
