package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/formworks/survey-import-service/internal/cache"
	"github.com/formworks/survey-import-service/internal/events"
	"github.com/formworks/survey-import-service/internal/models"
	"github.com/formworks/survey-import-service/internal/parser"
	"github.com/formworks/survey-import-service/internal/remote"
	"github.com/formworks/survey-import-service/internal/repositories"
	"github.com/formworks/survey-import-service/internal/validator"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

const (
	previewKeyPrefix = "import_preview:"
	maxImportSize    = 10 << 20 // 10 MiB per uploaded file
)

// ImportService drives the upload → preview → confirm flow for bulk question
// imports.
type ImportService interface {
	// Preview operations
	PreviewFromFile(ctx context.Context, file multipart.File, filename string, userID string) (*ImportPreview, error)
	Preview(ctx context.Context, content []byte, source models.SourceType, filename string, userID string) (*ImportPreview, error)

	// Confirm operations
	ConfirmImport(ctx context.Context, previewID string, userID string) (*ImportSummary, error)

	// Job management
	GetImportJob(ctx context.Context, jobID string, userID string) (*models.ImportJob, error)

	// Template assets
	CSVTemplate() []byte
	JSONTemplate() []byte
}

// ImportPreview is a parsed-but-not-yet-persisted import, cached under its id
// until the user confirms or it expires.
type ImportPreview struct {
	ID        string               `json:"id"`
	FileName  string               `json:"file_name"`
	Source    models.SourceType    `json:"source"`
	Result    *models.ImportResult `json:"result"`
	CreatedBy string               `json:"created_by"`
	CreatedAt time.Time            `json:"created_at"`
}

// ImportSummary reports what a confirmed import produced.
type ImportSummary struct {
	JobID         string   `json:"job_id"`
	SurveyID      uint     `json:"survey_id"`
	QuestionCount int      `json:"question_count"`
	SkippedCount  int      `json:"skipped_count"`
	Warnings      []string `json:"warnings"`
}

type importService struct {
	repo       repositories.Repository
	cache      cache.CacheService
	publisher  events.EventPublisher
	remote     remote.ParserClient
	validator  *validator.Validator
	logger     *slog.Logger
	opLogger   *ServiceLogger
	previewTTL time.Duration
}

func NewImportService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	remoteClient remote.ParserClient,
	v *validator.Validator,
	logger *slog.Logger,
	previewTTL time.Duration,
) ImportService {
	return &importService{
		repo:       repo,
		cache:      cacheService,
		publisher:  publisher,
		remote:     remoteClient,
		validator:  v,
		logger:     logger,
		opLogger:   NewServiceLogger(logger, "import"),
		previewTTL: previewTTL,
	}
}

// ===== PREVIEW OPERATIONS =====

func (s *importService) PreviewFromFile(ctx context.Context, file multipart.File, filename string, userID string) (*ImportPreview, error) {
	s.logger.Info("Starting file import preview", "filename", filename, "user_id", userID)

	content, err := io.ReadAll(io.LimitReader(file, maxImportSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(content) > maxImportSize {
		return nil, NewValidationError("file", "file exceeds the 10 MiB import limit", len(content))
	}

	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		return s.Preview(ctx, content, models.SourceJSON, filename, userID)
	case ".csv":
		return s.Preview(ctx, content, models.SourceCSV, filename, userID)
	case ".tsv", ".txt":
		return s.Preview(ctx, content, models.SourceExcelOrTSV, filename, userID)
	case ".xlsx", ".xls":
		return s.previewFromWorkbook(ctx, content, filename, userID)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileFormat, ext)
	}
}

// Preview parses content remote-first and caches the result for the confirm
// step. A fatal parse still returns the preview so the caller can show the
// errors; it is just never cached.
func (s *importService) Preview(ctx context.Context, content []byte, source models.SourceType, filename string, userID string) (preview *ImportPreview, err error) {
	start := time.Now()
	defer func() { s.opLogger.LogOperation(ctx, "preview", userID, time.Since(start), err) }()

	result, err := s.parse(ctx, content, source)
	if err != nil {
		return nil, err
	}

	s.opLogger.LogParseOutcome(ctx, result.ValidatedBy,
		len(result.Questions), len(result.InvalidRows), len(result.Warnings), len(result.Errors))

	preview = &ImportPreview{
		ID:        uuid.NewString(),
		FileName:  filename,
		Source:    source,
		Result:    result,
		CreatedBy: userID,
		CreatedAt: time.Now().UTC(),
	}

	if result.Previewable() {
		if cacheErr := s.cache.Set(ctx, previewKeyPrefix+preview.ID, preview, s.previewTTL); cacheErr != nil {
			return nil, fmt.Errorf("failed to cache import preview: %w", cacheErr)
		}
	}

	return preview, nil
}

// parse tries the remote preview service first and falls back to the local
// pipeline on any failure. Both producers emit the same contract, so only the
// cosmetic validated-by marker differs.
func (s *importService) parse(ctx context.Context, content []byte, source models.SourceType) (*models.ImportResult, error) {
	if s.remote != nil {
		result, err := s.remote.ParsePreview(ctx, content, source)
		if err == nil {
			result.ValidatedBy = "server"
			return result, nil
		}
		s.logger.Warn("Remote parser failed, falling back to local parsing", "error", err)
	}

	result, err := parser.Parse(content, source)
	if err != nil {
		return nil, err
	}
	result.ValidatedBy = "local"
	return result, nil
}

// previewFromWorkbook reads the first sheet of an XLSX upload and feeds its
// rows through the same column-mapping and row-validation stages as delimited
// text. Workbooks are always parsed locally.
func (s *importService) previewFromWorkbook(ctx context.Context, content []byte, filename string, userID string) (preview *ImportPreview, err error) {
	start := time.Now()
	defer func() { s.opLogger.LogOperation(ctx, "preview_workbook", userID, time.Since(start), err) }()

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook rows: %w", err)
	}

	var result *models.ImportResult
	if len(rows) < 2 {
		result = &models.ImportResult{
			Questions:      []models.QuestionRecord{},
			Warnings:       []string{},
			Errors:         []string{"file must have a header row and at least one data row"},
			InvalidRows:    []models.InvalidRow{},
			ColumnMappings: []models.ColumnMapping{},
		}
	} else {
		result = parser.ParseRows(rows[0], rows[1:])
	}
	result.ValidatedBy = "local"

	s.opLogger.LogParseOutcome(ctx, result.ValidatedBy,
		len(result.Questions), len(result.InvalidRows), len(result.Warnings), len(result.Errors))

	preview = &ImportPreview{
		ID:        uuid.NewString(),
		FileName:  filename,
		Source:    models.SourceExcelOrTSV,
		Result:    result,
		CreatedBy: userID,
		CreatedAt: time.Now().UTC(),
	}

	if result.Previewable() {
		if cacheErr := s.cache.Set(ctx, previewKeyPrefix+preview.ID, preview, s.previewTTL); cacheErr != nil {
			return nil, fmt.Errorf("failed to cache import preview: %w", cacheErr)
		}
	}

	return preview, nil
}

// ===== CONFIRM OPERATIONS =====

func (s *importService) ConfirmImport(ctx context.Context, previewID string, userID string) (summary *ImportSummary, err error) {
	start := time.Now()
	defer func() { s.opLogger.LogOperation(ctx, "confirm", userID, time.Since(start), err) }()

	var preview ImportPreview
	if err := s.cache.Get(ctx, previewKeyPrefix+previewID, &preview); err != nil {
		if err == cache.ErrCacheMiss {
			return nil, ErrPreviewNotFound
		}
		return nil, fmt.Errorf("failed to load import preview: %w", err)
	}

	if preview.CreatedBy != userID {
		return nil, NewPermissionError(userID, "import_preview", "confirm", "preview belongs to another user")
	}

	result := preview.Result
	if !result.Previewable() {
		return nil, ErrImportNotPreviewable
	}
	if len(result.Questions) == 0 {
		return nil, ErrImportEmpty
	}

	if err := s.validator.Question().ValidateBatch(result.Questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	job, err := s.createJob(ctx, &preview, userID)
	if err != nil {
		return nil, err
	}

	survey, err := s.persistQuestions(ctx, result, userID)
	if err != nil {
		s.failJob(ctx, job, err.Error())
		return nil, err
	}

	s.completeJob(ctx, job, survey.ID)

	event := events.NewQuestionsImportedEvent(
		job.ID, survey.ID, survey.Title,
		len(result.Questions), len(result.InvalidRows), userID)
	if pubErr := s.publisher.PublishImportEvent(ctx, event); pubErr != nil {
		// The import itself succeeded; a lost event must not fail it.
		s.logger.Warn("Failed to publish import event", "job_id", job.ID, "error", pubErr)
	}

	if delErr := s.cache.Delete(ctx, previewKeyPrefix+previewID); delErr != nil {
		s.logger.Warn("Failed to delete confirmed preview", "preview_id", previewID, "error", delErr)
	}

	return &ImportSummary{
		JobID:         job.ID,
		SurveyID:      survey.ID,
		QuestionCount: len(result.Questions),
		SkippedCount:  len(result.InvalidRows),
		Warnings:      result.Warnings,
	}, nil
}

func (s *importService) createJob(ctx context.Context, preview *ImportPreview, userID string) (*models.ImportJob, error) {
	now := time.Now().UTC()

	warningsJSON, _ := json.Marshal(preview.Result.Warnings)
	invalidJSON, _ := json.Marshal(preview.Result.InvalidRows)

	job := &models.ImportJob{
		ID:           uuid.NewString(),
		UserID:       userID,
		FileName:     preview.FileName,
		FileType:     preview.Source,
		Status:       models.ImportProcessing,
		TotalRows:    len(preview.Result.Questions) + len(preview.Result.InvalidRows),
		SuccessCount: len(preview.Result.Questions),
		SkippedCount: len(preview.Result.InvalidRows),
		Warnings:     datatypes.JSON(warningsJSON),
		Invalid:      datatypes.JSON(invalidJSON),
		StartedAt:    &now,
	}

	if err := s.repo.ImportJob().Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create import job: %w", err)
	}
	return job, nil
}

func (s *importService) persistQuestions(ctx context.Context, result *models.ImportResult, userID string) (*models.Survey, error) {
	title := result.Title
	if title == "" {
		title = "Imported survey"
	}
	var description *string
	if result.Description != "" {
		description = &result.Description
	}

	survey := &models.Survey{
		Title:       title,
		Description: description,
		CreatedBy:   userID,
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Survey().Create(ctx, survey); err != nil {
			return err
		}

		questions := make([]*models.Question, 0, len(result.Questions))
		for i, record := range result.Questions {
			question, err := recordToQuestion(record, survey.ID, i+1, userID)
			if err != nil {
				return err
			}
			questions = append(questions, question)
		}

		return txRepo.Question().CreateBatch(ctx, questions)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist imported questions: %w", err)
	}

	return survey, nil
}

func recordToQuestion(record models.QuestionRecord, surveyID uint, position int, userID string) (*models.Question, error) {
	optionsJSON, err := json.Marshal(record.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize options for question %d: %w", position, err)
	}

	var placeholder *string
	if record.Placeholder != "" {
		placeholder = &record.Placeholder
	}

	return &models.Question{
		SurveyID:    surveyID,
		Position:    position,
		Text:        record.Text,
		Type:        record.Type,
		Options:     datatypes.JSON(optionsJSON),
		Required:    record.Required,
		Placeholder: placeholder,
		MinValue:    record.MinValue,
		MaxValue:    record.MaxValue,
		Points:      record.Points,
		CreatedBy:   userID,
	}, nil
}

func (s *importService) completeJob(ctx context.Context, job *models.ImportJob, surveyID uint) {
	now := time.Now().UTC()
	job.SurveyID = &surveyID
	job.Status = models.ImportCompleted
	job.CompletedAt = &now

	if err := s.repo.ImportJob().Update(ctx, job); err != nil {
		s.logger.Warn("Failed to mark import job completed", "job_id", job.ID, "error", err)
	}
}

func (s *importService) failJob(ctx context.Context, job *models.ImportJob, reason string) {
	now := time.Now().UTC()
	job.Status = models.ImportFailed
	job.CompletedAt = &now

	if err := s.repo.ImportJob().Update(ctx, job); err != nil {
		s.logger.Warn("Failed to mark import job failed", "job_id", job.ID, "error", err)
	}

	event := events.NewImportFailedEvent(job.ID, job.UserID, reason)
	if pubErr := s.publisher.PublishImportEvent(ctx, event); pubErr != nil {
		s.logger.Warn("Failed to publish import failure event", "job_id", job.ID, "error", pubErr)
	}
}

// ===== JOB MANAGEMENT =====

func (s *importService) GetImportJob(ctx context.Context, jobID string, userID string) (*models.ImportJob, error) {
	job, err := s.repo.ImportJob().GetByID(ctx, jobID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if job.UserID != userID {
		return nil, ErrImportAccessDenied
	}

	return job, nil
}

// ===== TEMPLATE ASSETS =====

func (s *importService) CSVTemplate() []byte {
	return []byte(parser.SampleCSVTemplate)
}

func (s *importService) JSONTemplate() []byte {
	return []byte(parser.SampleJSONTemplate)
}
