package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSurveyService(t *testing.T) (SurveyService, *memoryRepo) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := newMemoryRepo()
	return NewSurveyService(repo, logger), repo
}

func TestSurveyService_GetSurveyWithQuestions(t *testing.T) {
	ctx := context.Background()
	service, repo := newTestSurveyService(t)
	survey := seedSurvey(t, repo, "user-1")

	t.Run("returns the survey with its questions", func(t *testing.T) {
		got, err := service.GetSurveyWithQuestions(ctx, survey.ID, "user-1")
		require.NoError(t, err)

		assert.Equal(t, "Customer Feedback", got.Title)
		require.Len(t, got.Questions, 2)
		assert.Equal(t, 2, got.QuestionsCount)
		assert.Equal(t, "How satisfied are you?", got.Questions[0].Text)
	})

	t.Run("denies access to non-owners", func(t *testing.T) {
		_, err := service.GetSurveyWithQuestions(ctx, survey.ID, "user-2")
		assert.ErrorIs(t, err, ErrSurveyAccessDenied)
	})

	t.Run("returns not found for missing surveys", func(t *testing.T) {
		_, err := service.GetSurveyWithQuestions(ctx, 9999, "user-1")
		assert.ErrorIs(t, err, ErrSurveyNotFound)
	})
}

func TestSurveyService_ListSurveys(t *testing.T) {
	ctx := context.Background()
	service, repo := newTestSurveyService(t)
	seedSurvey(t, repo, "user-1")
	seedSurvey(t, repo, "user-2")

	surveys, total, err := service.ListSurveys(ctx, "user-1", 20, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, surveys, 1)
	assert.Equal(t, "user-1", surveys[0].CreatedBy)
	assert.Equal(t, 2, surveys[0].QuestionsCount)
}

func TestSurveyService_DeleteSurvey(t *testing.T) {
	ctx := context.Background()
	service, repo := newTestSurveyService(t)
	survey := seedSurvey(t, repo, "user-1")

	t.Run("denies deletion by non-owners", func(t *testing.T) {
		err := service.DeleteSurvey(ctx, survey.ID, "user-2")
		require.Error(t, err)
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("owner can delete", func(t *testing.T) {
		require.NoError(t, service.DeleteSurvey(ctx, survey.ID, "user-1"))

		_, err := service.GetSurveyWithQuestions(ctx, survey.ID, "user-1")
		assert.ErrorIs(t, err, ErrSurveyNotFound)
	})

	t.Run("returns not found for missing surveys", func(t *testing.T) {
		err := service.DeleteSurvey(ctx, 9999, "user-1")
		assert.ErrorIs(t, err, ErrSurveyNotFound)
	})
}
