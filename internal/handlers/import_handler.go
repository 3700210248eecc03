package handlers

import (
	"errors"
	"net/http"

	"github.com/formworks/survey-import-service/internal/models"
	"github.com/formworks/survey-import-service/internal/services"
	"github.com/formworks/survey-import-service/internal/utils"
	"github.com/formworks/survey-import-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type ImportHandler struct {
	BaseHandler
	importService services.ImportService
	exportService services.ExportService
	validator     *validator.Validator
}

func NewImportHandler(
	importService services.ImportService,
	exportService services.ExportService,
	validator *validator.Validator,
	logger utils.Logger,
) *ImportHandler {
	return &ImportHandler{
		BaseHandler:   NewBaseHandler(logger),
		importService: importService,
		exportService: exportService,
		validator:     validator,
	}
}

// PreviewImport parses an uploaded file and returns the preview
// @Summary Preview import
// @Description Parses an uploaded file and returns questions, warnings and invalid rows for confirmation
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Import file (.csv, .tsv, .txt, .json, .xlsx)"
// @Success 200 {object} services.ImportPreview
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /imports/preview [post]
func (h *ImportHandler) PreviewImport(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing import file",
			Details: `expected a multipart field named "file"`,
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Failed to read import file",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	h.LogInfo(c, "Previewing import", "filename", fileHeader.Filename, "size", fileHeader.Size)

	preview, err := h.importService.PreviewFromFile(c.Request.Context(), file, fileHeader.Filename, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// PreviewImportBody parses a raw request body with a declared source type
// @Summary Preview import from raw content
// @Description Parses request content with an explicit source type instead of a file upload
// @Tags imports
// @Accept json
// @Produce json
// @Param request body PreviewRequest true "Content and source type"
// @Success 200 {object} services.ImportPreview
// @Failure 400 {object} ErrorResponse
// @Router /imports/preview/raw [post]
func (h *ImportHandler) PreviewImportBody(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		return
	}

	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	preview, err := h.importService.Preview(c.Request.Context(), []byte(req.Content), req.SourceType, req.FileName, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// ConfirmImport persists a previously previewed import
// @Summary Confirm import
// @Description Persists the questions of a cached preview as a new survey
// @Tags imports
// @Produce json
// @Param preview_id path string true "Preview ID"
// @Success 201 {object} services.ImportSummary
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /imports/{preview_id}/confirm [post]
func (h *ImportHandler) ConfirmImport(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		return
	}

	previewID := ParseStringIDParam(c, "preview_id")
	if previewID == "" {
		return
	}

	summary, err := h.importService.ConfirmImport(c.Request.Context(), previewID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, summary)
}

// GetImportJob returns the status of a confirmed import
// @Summary Get import job
// @Tags imports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} models.ImportJob
// @Failure 404 {object} ErrorResponse
// @Router /imports/jobs/{id} [get]
func (h *ImportHandler) GetImportJob(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		return
	}

	jobID := ParseStringIDParam(c, "id")
	if jobID == "" {
		return
	}

	job, err := h.importService.GetImportJob(c.Request.Context(), jobID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// GetCSVTemplate serves a sample CSV file in the accepted column layout
// @Summary Download CSV template
// @Tags imports
// @Produce text/csv
// @Success 200 {string} string
// @Router /imports/templates/csv [get]
func (h *ImportHandler) GetCSVTemplate(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="questions-template.csv"`)
	c.Data(http.StatusOK, "text/csv", h.importService.CSVTemplate())
}

// GetJSONTemplate serves a sample JSON import document
// @Summary Download JSON template
// @Tags imports
// @Produce json
// @Success 200 {string} string
// @Router /imports/templates/json [get]
func (h *ImportHandler) GetJSONTemplate(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="questions-template.json"`)
	c.Data(http.StatusOK, "application/json", h.importService.JSONTemplate())
}

// ExportSurvey writes a survey's questions in the requested format
// @Summary Export survey questions
// @Description Exports a survey's questions as CSV or XLSX in the importable column layout
// @Tags imports
// @Produce octet-stream
// @Param survey_id path uint true "Survey ID"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {string} string
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /imports/export/{survey_id} [get]
func (h *ImportHandler) ExportSurvey(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		return
	}

	surveyID, ok := ParseUintIDParam(c, "survey_id")
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "csv")

	switch format {
	case "csv":
		data, err := h.exportService.ExportSurveyToCSV(c.Request.Context(), surveyID, userID)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="survey-questions.csv"`)
		c.Data(http.StatusOK, "text/csv", data)
	case "xlsx":
		data, err := h.exportService.ExportSurveyToExcel(c.Request.Context(), surveyID, userID)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="survey-questions.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported export format",
			Details: format,
		})
	}
}

// PreviewRequest previews content sent inline rather than as a file upload.
type PreviewRequest struct {
	Content    string            `json:"content" validate:"required"`
	SourceType models.SourceType `json:"source_type" validate:"required,source_type"`
	FileName   string            `json:"file_name"`
}

// ===== ERROR MAPPING =====

func (h *ImportHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var validationError *services.ValidationError
	if errors.As(err, &validationError) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationError,
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrUnsupportedFileFormat):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported file format",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrPreviewNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Import preview not found or expired",
		})
	case errors.Is(err, services.ErrImportNotPreviewable):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Import has fatal errors and cannot be confirmed",
		})
	case errors.Is(err, services.ErrImportEmpty):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Import contains no questions",
		})
	case errors.Is(err, services.ErrImportAccessDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied to import job",
		})
	case errors.Is(err, services.ErrSurveyNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Survey not found",
		})
	case errors.Is(err, services.ErrSurveyAccessDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied to survey",
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
		})
	case errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
