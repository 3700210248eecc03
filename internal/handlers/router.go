package handlers

import (
	"github.com/formworks/survey-import-service/internal/config"
	"github.com/formworks/survey-import-service/internal/services"
	"github.com/formworks/survey-import-service/internal/utils"
	"github.com/formworks/survey-import-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	importHandler *ImportHandler
	surveyHandler *SurveyHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		importHandler: NewImportHandler(serviceManager.Import(), serviceManager.Export(), validator, logger),
		surveyHandler: NewSurveyHandler(serviceManager.Survey(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, cfg *config.Config, logger utils.Logger) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "survey-import-service",
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(AuthMiddleware(cfg, logger))
	{
		imports := v1.Group("/imports")
		{
			imports.POST("/preview", hm.importHandler.PreviewImport)
			imports.POST("/preview/raw", hm.importHandler.PreviewImportBody)
			imports.POST("/:preview_id/confirm", hm.importHandler.ConfirmImport)
			imports.GET("/jobs/:id", hm.importHandler.GetImportJob)
			imports.GET("/templates/csv", hm.importHandler.GetCSVTemplate)
			imports.GET("/templates/json", hm.importHandler.GetJSONTemplate)
			imports.GET("/export/:survey_id", hm.importHandler.ExportSurvey)
		}

		surveys := v1.Group("/surveys")
		{
			surveys.GET("", hm.surveyHandler.ListSurveys)
			surveys.GET("/:id", hm.surveyHandler.GetSurvey)
			surveys.DELETE("/:id", hm.surveyHandler.DeleteSurvey)
		}
	}
}
