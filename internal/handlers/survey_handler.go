package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/formworks/survey-import-service/internal/services"
	"github.com/formworks/survey-import-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type SurveyHandler struct {
	BaseHandler
	surveyService services.SurveyService
}

func NewSurveyHandler(surveyService services.SurveyService, logger utils.Logger) *SurveyHandler {
	return &SurveyHandler{
		BaseHandler:   NewBaseHandler(logger),
		surveyService: surveyService,
	}
}

// GetSurvey retrieves a survey with its questions
// @Summary Get survey
// @Description Retrieves one imported survey with its questions in position order
// @Tags surveys
// @Produce json
// @Param id path uint true "Survey ID"
// @Success 200 {object} models.Survey
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id} [get]
func (h *SurveyHandler) GetSurvey(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		return
	}

	surveyID, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	survey, err := h.surveyService.GetSurveyWithQuestions(c.Request.Context(), surveyID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, survey)
}

// ListSurveys lists the caller's surveys
// @Summary List surveys
// @Description Lists the surveys the authenticated user created, newest first
// @Tags surveys
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} SuccessResponse
// @Router /surveys [get]
func (h *SurveyHandler) ListSurveys(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	surveys, total, err := h.surveyService.ListSurveys(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"surveys": surveys,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// DeleteSurvey removes a survey and its questions
// @Summary Delete survey
// @Tags surveys
// @Param id path uint true "Survey ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id} [delete]
func (h *SurveyHandler) DeleteSurvey(c *gin.Context) {
	userID, ok := GetUserID(c)
	if !ok {
		return
	}

	surveyID, ok := ParseUintIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.surveyService.DeleteSurvey(c.Request.Context(), surveyID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SurveyHandler) handleServiceError(c *gin.Context, err error) {
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
	case errors.Is(err, services.ErrSurveyNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Survey not found",
		})
	case errors.Is(err, services.ErrSurveyAccessDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied to survey",
		})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
