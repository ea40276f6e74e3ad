package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/centro-ngo/centro-api/api/swagger"
	"github.com/centro-ngo/centro-api/internal/handler"
	"github.com/centro-ngo/centro-api/internal/middleware"
	"github.com/centro-ngo/centro-api/internal/repository"
	"github.com/centro-ngo/centro-api/internal/service"
	"github.com/centro-ngo/centro-api/pkg/cache"
	"github.com/centro-ngo/centro-api/pkg/config"
	"github.com/centro-ngo/centro-api/pkg/database"
	"github.com/centro-ngo/centro-api/pkg/export"
	"github.com/centro-ngo/centro-api/pkg/jobs"
	"github.com/centro-ngo/centro-api/pkg/logger"
	corsmiddleware "github.com/centro-ngo/centro-api/pkg/middleware/cors"
	reqidmiddleware "github.com/centro-ngo/centro-api/pkg/middleware/requestid"
	"github.com/centro-ngo/centro-api/pkg/storage"
)

// @title Centro Portal API
// @version 1.0.0
// @description Admin events dashboard and accomplishment report engine
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Listing cache degrades to direct reads; report generation is unaffected.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare report storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)

	eventRepo := repository.NewEventRepository(db)
	participationRepo := repository.NewParticipationRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Events.CacheTTL, logr, cfg.Events.CacheEnabled)
	eventSvc := service.NewEventService(eventRepo, cacheSvc, cfg.Events.CacheTTL, logr)
	authSvc := service.NewAuthService(cfg.JWT.Secret)

	assetLoader := export.NewAssetLoader(cfg.Assets.FetchTimeout, cfg.Assets.MaxBytes, logr)
	exportSvc := service.NewExportService(
		eventRepo,
		participationRepo,
		applicationRepo,
		orgRepo,
		store,
		assetLoader,
		nil,
		signer,
		metricsSvc,
		service.ExportConfig{
			APIPrefix:   cfg.APIPrefix,
			ResultTTL:   cfg.Reports.ResultTTL,
			Prefetchers: cfg.Assets.Prefetchers,
		},
		logr,
	)

	// The worker is constructed after the report service so both share one
	// generation guard; the queue handler indirects through the variable.
	var worker *service.ReportWorker
	queue := jobs.NewQueue("reports", func(ctx context.Context, job jobs.Job) error {
		return worker.Handle(ctx, job)
	}, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		Logger:     logr,
	})
	reportSvc := service.NewReportService(reportRepo, queue, exportSvc, nil, logr, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.ResultTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
		MaxRetries:      cfg.Reports.WorkerRetries,
	})
	worker = service.NewReportWorker(reportRepo, exportSvc, reportSvc.Guard(), cfg.Reports.WorkerRetries, logr)

	eventHandler := handler.NewEventHandler(eventSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	// Downloads authenticate through the signed token alone so links can be
	// opened outside the admin session.
	api.GET("/export/:token", reportHandler.Download)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	protected.GET("/events", eventHandler.List)
	protected.GET("/events/export", eventHandler.ExportCSV)
	protected.GET("/events/:id", eventHandler.GetByID)
	protected.POST("/reports", reportHandler.Generate)
	protected.GET("/reports", reportHandler.List)
	protected.GET("/reports/:id", reportHandler.Status)
	protected.GET("/metrics/summary", metricsHandler.Snapshot)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.Start(ctx)
	defer queue.Stop()
	reportSvc.RecoverPendingJobs(ctx)
	reportSvc.StartCleanup(ctx)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
