package services

import (
	"log/slog"
	"time"

	"github.com/formworks/survey-import-service/internal/cache"
	"github.com/formworks/survey-import-service/internal/events"
	"github.com/formworks/survey-import-service/internal/remote"
	"github.com/formworks/survey-import-service/internal/repositories"
	"github.com/formworks/survey-import-service/internal/validator"
)

// ServiceManager hands out the service instances to the handler layer.
type ServiceManager interface {
	Import() ImportService
	Export() ExportService
	Survey() SurveyService
}

type serviceManager struct {
	importService ImportService
	exportService ExportService
	surveyService SurveyService
}

func NewServiceManager(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	remoteClient remote.ParserClient,
	v *validator.Validator,
	logger *slog.Logger,
	previewTTL time.Duration,
) ServiceManager {
	return &serviceManager{
		importService: NewImportService(repo, cacheService, publisher, remoteClient, v, logger, previewTTL),
		exportService: NewExportService(repo, logger),
		surveyService: NewSurveyService(repo, logger),
	}
}

func (m *serviceManager) Import() ImportService {
	return m.importService
}

func (m *serviceManager) Export() ExportService {
	return m.exportService
}

func (m *serviceManager) Survey() SurveyService {
	return m.surveyService
}
