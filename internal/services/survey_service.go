package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/formworks/survey-import-service/internal/models"
	"github.com/formworks/survey-import-service/internal/repositories"
)

// SurveyService reads and removes the surveys that imports created.
type SurveyService interface {
	GetSurveyWithQuestions(ctx context.Context, id uint, userID string) (*models.Survey, error)
	ListSurveys(ctx context.Context, userID string, limit, offset int) ([]*models.Survey, int64, error)
	DeleteSurvey(ctx context.Context, id uint, userID string) error
}

type surveyService struct {
	repo     repositories.Repository
	logger   *slog.Logger
	opLogger *ServiceLogger
}

func NewSurveyService(repo repositories.Repository, logger *slog.Logger) SurveyService {
	return &surveyService{
		repo:     repo,
		logger:   logger,
		opLogger: NewServiceLogger(logger, "survey"),
	}
}

func (s *surveyService) GetSurveyWithQuestions(ctx context.Context, id uint, userID string) (survey *models.Survey, err error) {
	start := time.Now()
	defer func() { s.opLogger.LogOperation(ctx, "get_survey", userID, time.Since(start), err) }()

	survey, err = s.repo.Survey().GetByIDWithQuestions(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSurveyNotFound
		}
		return nil, err
	}

	if survey.CreatedBy != userID {
		return nil, ErrSurveyAccessDenied
	}

	return survey, nil
}

func (s *surveyService) ListSurveys(ctx context.Context, userID string, limit, offset int) (surveys []*models.Survey, total int64, err error) {
	start := time.Now()
	defer func() { s.opLogger.LogOperation(ctx, "list_surveys", userID, time.Since(start), err) }()

	surveys, total, err = s.repo.Survey().List(ctx, repositories.SurveyFilters{
		CreatedBy: &userID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, 0, err
	}

	for _, survey := range surveys {
		count, countErr := s.repo.Question().CountBySurvey(ctx, survey.ID)
		if countErr != nil {
			return nil, 0, countErr
		}
		survey.QuestionsCount = int(count)
	}

	return surveys, total, nil
}

func (s *surveyService) DeleteSurvey(ctx context.Context, id uint, userID string) (err error) {
	start := time.Now()
	defer func() { s.opLogger.LogOperation(ctx, "delete_survey", userID, time.Since(start), err) }()

	survey, err := s.repo.Survey().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSurveyNotFound
		}
		return err
	}

	if survey.CreatedBy != userID {
		return NewPermissionError(userID, "survey", "delete", "not the survey owner")
	}

	return s.repo.Survey().Delete(ctx, id)
}
