package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/devfolio/adapters/event"
	"github.com/khoahotran/devfolio/adapters/github"
	httpAdapter "github.com/khoahotran/devfolio/adapters/http"
	"github.com/khoahotran/devfolio/adapters/judge"
	"github.com/khoahotran/devfolio/adapters/llm"
	"github.com/khoahotran/devfolio/adapters/media_storage"
	"github.com/khoahotran/devfolio/adapters/persistence"
	"github.com/khoahotran/devfolio/adapters/resume"
	"github.com/khoahotran/devfolio/internal/application/service"
	"github.com/khoahotran/devfolio/internal/application/usecase/aggregate"
	"github.com/khoahotran/devfolio/internal/application/usecase/ats"
	"github.com/khoahotran/devfolio/internal/application/usecase/portfolioread"
	"github.com/khoahotran/devfolio/internal/application/usecase/project"
	"github.com/khoahotran/devfolio/internal/config"
	"github.com/khoahotran/devfolio/internal/domain/portfolio"
	"github.com/khoahotran/devfolio/pkg/logger"
)

func main() {
	fmt.Println("Start Devfolio API Server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	var repo portfolio.Repository = persistence.NewPostgresPortfolioRepo(dbPool, appLogger)

	// Redis fronts the repository as a read-through cache. The server runs
	// without it, every read just hits Postgres.
	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Warn("Redis unavailable, running without cache", zap.Error(err))
	} else {
		defer redisClient.Close()
		repo = persistence.NewCachedPortfolioRepo(repo, redisClient, cfg.Redis.CacheTTL, appLogger)
	}

	var publisher service.EventPublisher
	publisher, err = event.NewKafkaPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Warn("Kafka unavailable, profile events disabled", zap.Error(err))
		publisher = nil
	}

	var uploader service.Uploader
	uploader, err = media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Warn("Cloudinary not configured, resume archival disabled", zap.Error(err))
		uploader = nil
	}

	// Services
	httpClient := &http.Client{Timeout: 15 * time.Second}
	hostSvc := github.NewClient(cfg, httpClient, appLogger)
	solvedSvc := judge.NewChain(appLogger,
		judge.NewPrimaryProvider(cfg.Judge.PrimaryBase, cfg.Judge.Timeout, httpClient),
		judge.NewFallbackProvider(cfg.Judge.FallbackBase, httpClient),
	)
	ratingSvc := judge.NewCodeforcesClient(cfg.Judge.CodeforcesBase, httpClient, appLogger)
	extractor := resume.NewPDFExtractor(appLogger)
	enricher, err := llm.NewGroqAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot initialize completion service", err)
	}

	// Use Cases
	aggregateUseCase := aggregate.NewAggregateUseCase(hostSvc, solvedSvc, ratingSvc, extractor, enricher, uploader, publisher, repo, appLogger)
	getPortfolioUseCase := portfolioread.NewGetPortfolioUseCase(repo)
	scanUseCase := ats.NewScanUseCase(extractor, enricher)
	improveUseCase := ats.NewImproveUseCase(extractor, enricher)
	analyzeUseCase := project.NewAnalyzeUseCase(enricher)

	// HTTP Handlers
	portfolioHandler := httpAdapter.NewPortfolioHandler(aggregateUseCase, getPortfolioUseCase, appLogger)
	atsHandler := httpAdapter.NewAtsHandler(scanUseCase, improveUseCase, appLogger)
	projectHandler := httpAdapter.NewProjectHandler(analyzeUseCase, appLogger)

	// Setup Gin router
	router := gin.Default()
	router.Use(httpAdapter.ErrorHandler(appLogger))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		portfolios := api.Group("/portfolio")
		{
			portfolios.POST("/:handle/generate", portfolioHandler.Generate)
			portfolios.GET("/:handle", portfolioHandler.GetPortfolio)
		}

		atsGroup := api.Group("/ats")
		{
			atsGroup.POST("/scan", atsHandler.Scan)
			atsGroup.POST("/improve", atsHandler.Improve)
		}

		api.POST("/projects/analyze", projectHandler.Analyze)
	}

	appLogger.Info("server running", zap.String("port", cfg.App.Port))
	if err := router.Run(":" + cfg.App.Port); err != nil {
		appLogger.Fatal("cannot run server", err)
	}
}
