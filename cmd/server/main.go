package main

import (
	"log/slog"
	"os"

	"github.com/formworks/survey-import-service/internal/cache"
	"github.com/formworks/survey-import-service/internal/config"
	"github.com/formworks/survey-import-service/internal/handlers"
	"github.com/formworks/survey-import-service/internal/remote"
	"github.com/formworks/survey-import-service/internal/repositories/postgres"
	"github.com/formworks/survey-import-service/internal/services"
	"github.com/formworks/survey-import-service/internal/utils"
	"github.com/formworks/survey-import-service/internal/validator"
	"github.com/formworks/survey-import-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var handlerOptions slog.HandlerOptions
	var slogger *slog.Logger
	if cfg.Environment == "production" {
		handlerOptions.Level = slog.LevelInfo
		slogger = slog.New(slog.NewJSONHandler(os.Stdout, &handlerOptions))
	} else {
		handlerOptions.Level = slog.LevelDebug
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &handlerOptions))
	}
	logger := utils.NewSlogLogger(slogger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		slogger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		slogger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	eventConfig := config.LoadEventConfig()
	publisher, err := eventConfig.CreateEventPublisher(slogger)
	if err != nil {
		slogger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	remoteClient := remote.NewHTTPParserClient(cfg.RemoteParserURL, cfg.RemoteParserTimeout)
	if remoteClient == nil {
		slogger.Info("Remote parser not configured, previews are parsed locally")
	}

	repo := postgres.NewRepository(db)
	cacheService := cache.NewRedisCache(redisClient, slogger)
	v := validator.New()

	serviceManager := services.NewServiceManager(
		repo, cacheService, publisher, remoteClient, v, slogger, cfg.PreviewTTL)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(serviceManager, v, logger)
	handlerManager.SetupRoutes(router, cfg, logger)

	slogger.Info("Starting survey import service", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		slogger.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
