package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/formworks/survey-import-service/internal/cache"
	"github.com/formworks/survey-import-service/internal/events"
	"github.com/formworks/survey-import-service/internal/models"
	"github.com/formworks/survey-import-service/internal/repositories"
	"github.com/formworks/survey-import-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== TEST FAKES =====

type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, ok := c.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

type memoryRepo struct {
	surveys   map[uint]*models.Survey
	questions map[uint][]*models.Question
	jobs      map[string]*models.ImportJob
	nextID    uint
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		surveys:   make(map[uint]*models.Survey),
		questions: make(map[uint][]*models.Question),
		jobs:      make(map[string]*models.ImportJob),
		nextID:    1,
	}
}

func (r *memoryRepo) Survey() repositories.SurveyRepository       { return (*memorySurveyRepo)(r) }
func (r *memoryRepo) Question() repositories.QuestionRepository   { return (*memoryQuestionRepo)(r) }
func (r *memoryRepo) ImportJob() repositories.ImportJobRepository { return (*memoryJobRepo)(r) }

func (r *memoryRepo) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

type memorySurveyRepo memoryRepo

func (r *memorySurveyRepo) Create(ctx context.Context, survey *models.Survey) error {
	survey.ID = r.nextID
	r.nextID++
	r.surveys[survey.ID] = survey
	return nil
}

func (r *memorySurveyRepo) GetByID(ctx context.Context, id uint) (*models.Survey, error) {
	survey, ok := r.surveys[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return survey, nil
}

func (r *memorySurveyRepo) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Survey, error) {
	survey, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	loaded := *survey
	loaded.Questions = nil
	for _, q := range r.questions[id] {
		loaded.Questions = append(loaded.Questions, *q)
	}
	loaded.QuestionsCount = len(loaded.Questions)
	return &loaded, nil
}

func (r *memorySurveyRepo) List(ctx context.Context, filters repositories.SurveyFilters) ([]*models.Survey, int64, error) {
	out := make([]*models.Survey, 0, len(r.surveys))
	for _, s := range r.surveys {
		if filters.CreatedBy != nil && s.CreatedBy != *filters.CreatedBy {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *memorySurveyRepo) Delete(ctx context.Context, id uint) error {
	delete(r.surveys, id)
	return nil
}

type memoryQuestionRepo memoryRepo

func (r *memoryQuestionRepo) CreateBatch(ctx context.Context, questions []*models.Question) error {
	for _, q := range questions {
		q.ID = r.nextID
		r.nextID++
		r.questions[q.SurveyID] = append(r.questions[q.SurveyID], q)
	}
	return nil
}

func (r *memoryQuestionRepo) GetBySurvey(ctx context.Context, surveyID uint) ([]*models.Question, error) {
	return r.questions[surveyID], nil
}

func (r *memoryQuestionRepo) CountBySurvey(ctx context.Context, surveyID uint) (int64, error) {
	return int64(len(r.questions[surveyID])), nil
}

func (r *memoryQuestionRepo) Delete(ctx context.Context, id uint) error {
	return nil
}

// txFailRepo simulates a database outage at transaction time.
type txFailRepo struct {
	*memoryRepo
}

func (r *txFailRepo) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return errors.New("connection reset by peer")
}

type memoryJobRepo memoryRepo

func (r *memoryJobRepo) Create(ctx context.Context, job *models.ImportJob) error {
	r.jobs[job.ID] = job
	return nil
}

func (r *memoryJobRepo) GetByID(ctx context.Context, id string) (*models.ImportJob, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return job, nil
}

func (r *memoryJobRepo) Update(ctx context.Context, job *models.ImportJob) error {
	r.jobs[job.ID] = job
	return nil
}

// ===== TEST SETUP =====

func newTestImportService(t *testing.T) (ImportService, *memoryRepo, *memoryCache, *events.MockEventPublisher) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	repo := newMemoryRepo()
	cacheService := newMemoryCache()
	publisher := events.NewMockEventPublisher(logger)

	service := NewImportService(repo, cacheService, publisher, nil, validator.New(), logger, 30*time.Minute)
	return service, repo, cacheService, publisher
}

const sampleCSV = `text,type,options,required,minValue,maxValue,points
How satisfied are you?,rating,,true,1,5,10
Which features do you use?,multi_choice,Dashboard|Reports|Alerts,false,,,5
Any other feedback?,paragraph,,false,,,0
`

// ===== PREVIEW =====

func TestImportService_Preview(t *testing.T) {
	ctx := context.Background()

	t.Run("parses locally when no remote client is configured", func(t *testing.T) {
		service, _, _, _ := newTestImportService(t)

		preview, err := service.Preview(ctx, []byte(sampleCSV), models.SourceCSV, "survey.csv", "user-1")
		require.NoError(t, err)

		assert.NotEmpty(t, preview.ID)
		assert.Equal(t, "local", preview.Result.ValidatedBy)
		assert.Len(t, preview.Result.Questions, 3)
		assert.Empty(t, preview.Result.Errors)
	})

	t.Run("caches a previewable result for confirmation", func(t *testing.T) {
		service, _, cacheService, _ := newTestImportService(t)

		preview, err := service.Preview(ctx, []byte(sampleCSV), models.SourceCSV, "survey.csv", "user-1")
		require.NoError(t, err)

		var cached ImportPreview
		require.NoError(t, cacheService.Get(ctx, previewKeyPrefix+preview.ID, &cached))
		assert.Equal(t, preview.ID, cached.ID)
		assert.Equal(t, "user-1", cached.CreatedBy)
	})

	t.Run("does not cache a result with fatal errors", func(t *testing.T) {
		service, _, cacheService, _ := newTestImportService(t)

		preview, err := service.Preview(ctx, []byte("text,type\n"), models.SourceCSV, "empty.csv", "user-1")
		require.NoError(t, err)

		assert.False(t, preview.Result.Previewable())
		assert.NotEmpty(t, preview.Result.Errors)

		var cached ImportPreview
		err = cacheService.Get(ctx, previewKeyPrefix+preview.ID, &cached)
		assert.Equal(t, cache.ErrCacheMiss, err)
	})
}

func TestImportService_PreviewFromFile(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches by extension", func(t *testing.T) {
		service, _, _, _ := newTestImportService(t)

		jsonDoc := `{"questions": [{"text": "Rate us", "type": "rating"}]}`

		preview, err := service.PreviewFromFile(ctx, newUploadFile(jsonDoc), "survey.json", "user-1")
		require.NoError(t, err)
		assert.Equal(t, models.SourceJSON, preview.Source)
		require.Len(t, preview.Result.Questions, 1)
		assert.Equal(t, models.Rating, preview.Result.Questions[0].Type)
	})

	t.Run("rejects unsupported extensions", func(t *testing.T) {
		service, _, _, _ := newTestImportService(t)

		_, err := service.PreviewFromFile(ctx, newUploadFile("data"), "survey.pdf", "user-1")
		assert.ErrorIs(t, err, ErrUnsupportedFileFormat)
	})
}

// ===== CONFIRM =====

func TestImportService_ConfirmImport(t *testing.T) {
	ctx := context.Background()

	t.Run("persists questions and records a completed job", func(t *testing.T) {
		service, repo, cacheService, publisher := newTestImportService(t)

		preview, err := service.Preview(ctx, []byte(sampleCSV), models.SourceCSV, "survey.csv", "user-1")
		require.NoError(t, err)

		summary, err := service.ConfirmImport(ctx, preview.ID, "user-1")
		require.NoError(t, err)

		assert.Equal(t, 3, summary.QuestionCount)
		assert.Equal(t, 0, summary.SkippedCount)

		survey, err := repo.Survey().GetByID(ctx, summary.SurveyID)
		require.NoError(t, err)
		assert.Equal(t, "user-1", survey.CreatedBy)

		questions, err := repo.Question().GetBySurvey(ctx, summary.SurveyID)
		require.NoError(t, err)
		require.Len(t, questions, 3)
		assert.Equal(t, 1, questions[0].Position)
		assert.Equal(t, models.Rating, questions[0].Type)
		assert.Equal(t, 10, questions[0].Points)

		job, err := repo.ImportJob().GetByID(ctx, summary.JobID)
		require.NoError(t, err)
		assert.Equal(t, models.ImportCompleted, job.Status)
		require.NotNil(t, job.SurveyID)
		assert.Equal(t, summary.SurveyID, *job.SurveyID)

		require.Len(t, publisher.GetPublishedEvents(), 1)
		event := publisher.GetPublishedEvents()[0]
		assert.Equal(t, events.EventQuestionsImported, event.Type)

		var stale ImportPreview
		err = cacheService.Get(ctx, previewKeyPrefix+preview.ID, &stale)
		assert.Equal(t, cache.ErrCacheMiss, err)
	})

	t.Run("carries invalid row counts into the summary", func(t *testing.T) {
		service, _, _, _ := newTestImportService(t)

		content := sampleCSV + ",rating,,false,,,0\n"
		preview, err := service.Preview(ctx, []byte(content), models.SourceCSV, "survey.csv", "user-1")
		require.NoError(t, err)
		require.Len(t, preview.Result.InvalidRows, 1)

		summary, err := service.ConfirmImport(ctx, preview.ID, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 3, summary.QuestionCount)
		assert.Equal(t, 1, summary.SkippedCount)
	})

	t.Run("marks the job failed and publishes a failure event when persistence fails", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo := &txFailRepo{memoryRepo: newMemoryRepo()}
		publisher := events.NewMockEventPublisher(logger)
		service := NewImportService(repo, newMemoryCache(), publisher, nil, validator.New(), logger, 30*time.Minute)

		preview, err := service.Preview(ctx, []byte(sampleCSV), models.SourceCSV, "survey.csv", "user-1")
		require.NoError(t, err)

		_, err = service.ConfirmImport(ctx, preview.ID, "user-1")
		require.Error(t, err)

		require.Len(t, publisher.GetPublishedEvents(), 1)
		event := publisher.GetPublishedEvents()[0]
		assert.Equal(t, events.EventImportFailed, event.Type)

		payload, ok := event.Data.(events.ImportFailedEvent)
		require.True(t, ok)
		assert.Equal(t, "user-1", payload.UserID)
		assert.Contains(t, payload.Reason, "connection reset")

		job, err := repo.ImportJob().GetByID(ctx, payload.JobID)
		require.NoError(t, err)
		assert.Equal(t, models.ImportFailed, job.Status)
	})

	t.Run("rejects an unknown or expired preview id", func(t *testing.T) {
		service, _, _, _ := newTestImportService(t)

		_, err := service.ConfirmImport(ctx, "does-not-exist", "user-1")
		assert.ErrorIs(t, err, ErrPreviewNotFound)
	})

	t.Run("rejects confirmation by a different user", func(t *testing.T) {
		service, _, _, _ := newTestImportService(t)

		preview, err := service.Preview(ctx, []byte(sampleCSV), models.SourceCSV, "survey.csv", "user-1")
		require.NoError(t, err)

		_, err = service.ConfirmImport(ctx, preview.ID, "user-2")
		require.Error(t, err)
		assert.True(t, IsUnauthorized(err))
	})
}

// ===== JOBS =====

func TestImportService_GetImportJob(t *testing.T) {
	ctx := context.Background()
	service, repo, _, _ := newTestImportService(t)

	job := &models.ImportJob{ID: "job-1", UserID: "user-1", Status: models.ImportCompleted}
	require.NoError(t, repo.ImportJob().Create(ctx, job))

	t.Run("returns the owner's job", func(t *testing.T) {
		got, err := service.GetImportJob(ctx, "job-1", "user-1")
		require.NoError(t, err)
		assert.Equal(t, "job-1", got.ID)
	})

	t.Run("denies access to other users", func(t *testing.T) {
		_, err := service.GetImportJob(ctx, "job-1", "user-2")
		assert.ErrorIs(t, err, ErrImportAccessDenied)
	})

	t.Run("returns not found for missing jobs", func(t *testing.T) {
		_, err := service.GetImportJob(ctx, "missing", "user-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// ===== TEMPLATES =====

func TestImportService_Templates(t *testing.T) {
	service, _, _, _ := newTestImportService(t)

	csvTemplate := service.CSVTemplate()
	assert.Contains(t, string(csvTemplate), "text,type,options,required")

	jsonTemplate := service.JSONTemplate()
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(jsonTemplate, &doc))
	assert.Contains(t, doc, "questions")
}

// ===== HELPERS =====

// uploadFile adapts a string to multipart.File for PreviewFromFile tests.
type uploadFile struct {
	*bytes.Reader
}

func newUploadFile(content string) *uploadFile {
	return &uploadFile{Reader: bytes.NewReader([]byte(content))}
}

func (f *uploadFile) Close() error { return nil }
