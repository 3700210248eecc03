package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/formworks/survey-import-service/internal/models"
	"github.com/formworks/survey-import-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// ExportService writes a survey's questions back out in the same column
// layout the importer accepts, so exported files can be edited and
// re-imported.
type ExportService interface {
	ExportSurveyToCSV(ctx context.Context, surveyID uint, userID string) ([]byte, error)
	ExportSurveyToExcel(ctx context.Context, surveyID uint, userID string) ([]byte, error)
}

type exportService struct {
	repo     repositories.Repository
	logger   *slog.Logger
	opLogger *ServiceLogger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:     repo,
		logger:   logger,
		opLogger: NewServiceLogger(logger, "export"),
	}
}

var exportHeaders = []string{"text", "type", "options", "required", "minValue", "maxValue", "points"}

// ===== EXPORT OPERATIONS =====

func (s *exportService) ExportSurveyToCSV(ctx context.Context, surveyID uint, userID string) (out []byte, err error) {
	start := time.Now()
	defer func() { s.opLogger.LogOperation(ctx, "export_csv", userID, time.Since(start), err) }()

	questions, err := s.getQuestionsForExport(ctx, surveyID, userID)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, question := range questions {
		if err := writer.Write(questionToExportRow(question)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return []byte(buf.String()), nil
}

func (s *exportService) ExportSurveyToExcel(ctx context.Context, surveyID uint, userID string) (out []byte, err error) {
	start := time.Now()
	defer func() { s.opLogger.LogOperation(ctx, "export_excel", userID, time.Since(start), err) }()

	questions, err := s.getQuestionsForExport(ctx, surveyID, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Questions"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, question := range questions {
		row := questionToExportRow(question)
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}

// ===== HELPER METHODS =====

func (s *exportService) getQuestionsForExport(ctx context.Context, surveyID uint, userID string) ([]*models.Question, error) {
	survey, err := s.repo.Survey().GetByID(ctx, surveyID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSurveyNotFound
		}
		return nil, err
	}

	if survey.CreatedBy != userID {
		return nil, NewPermissionError(userID, "survey", "export", "not the survey owner")
	}

	questions, err := s.repo.Question().GetBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load survey questions: %w", err)
	}

	return questions, nil
}

// questionToExportRow serializes one question into the importer's column
// layout. Options are pipe-joined, which survives the round trip through the
// option parser.
func questionToExportRow(q *models.Question) []string {
	var options []string
	if len(q.Options) > 0 {
		if err := json.Unmarshal(q.Options, &options); err != nil {
			options = nil
		}
	}

	return []string{
		q.Text,
		string(q.Type),
		strings.Join(options, "|"),
		strconv.FormatBool(q.Required),
		floatField(q.MinValue),
		floatField(q.MaxValue),
		strconv.Itoa(q.Points),
	}
}

func floatField(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
