package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/result-processing-api/api/swagger"
	"github.com/noah-isme/result-processing-api/internal/handler"
	internalmiddleware "github.com/noah-isme/result-processing-api/internal/middleware"
	"github.com/noah-isme/result-processing-api/internal/repository"
	"github.com/noah-isme/result-processing-api/internal/service"
	"github.com/noah-isme/result-processing-api/pkg/cache"
	"github.com/noah-isme/result-processing-api/pkg/config"
	"github.com/noah-isme/result-processing-api/pkg/database"
	"github.com/noah-isme/result-processing-api/pkg/jobs"
	"github.com/noah-isme/result-processing-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/result-processing-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/result-processing-api/pkg/middleware/requestid"
)

// @title Result Processing API
// @version 1.0.0
// @description Score entry, approval workflow and GPA computation for university results
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		switch {
		case err != nil:
			logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
		case redisClient != nil:
			redisRepo := repository.NewCacheRepository(redisClient, logr)
			defer redisRepo.Close() //nolint:errcheck
			cacheRepo = redisRepo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.GPATTL, logr, cacheRepo != nil)

	auditRepo := repository.NewAuditRepository(db)
	resultRepo := repository.NewResultRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	gpaRepo := repository.NewGPARepository(db)
	settingsRepo := repository.NewConfigurationRepository(db)
	bandRepo := repository.NewGradingBandRepository(db)
	reportRepo := repository.NewReportRepository(db)

	authSvc := service.NewAuthService(service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	sessionSvc := service.NewSessionService(sessionRepo, auditRepo, logr)
	settingsSvc := service.NewSettingsService(settingsRepo, sessionRepo, auditRepo, logr)
	scaleSvc := service.NewGradingScaleService(bandRepo, cacheSvc, cfg.Cache.ScaleTTL, auditRepo, logr)
	gpaSvc := service.NewGPAService(resultRepo, gpaRepo, studentRepo, sessionRepo, cacheSvc, metrics, logr, service.GPAServiceConfig{
		Concurrency: cfg.GPA.RefreshConcurrency,
		CacheTTL:    cfg.Cache.GPATTL,
	})
	lifecycleSvc := service.NewLifecycleService(resultRepo, sessionSvc, settingsSvc, gpaSvc, auditRepo, metrics, logr)
	resultSvc := service.NewResultService(service.ResultServiceDeps{
		Results:   resultRepo,
		Courses:   courseRepo,
		Students:  studentRepo,
		Locks:     sessionSvc,
		Policy:    settingsSvc,
		Scales:    scaleSvc,
		Submitter: lifecycleSvc,
		GPA:       gpaSvc,
		Audit:     auditRepo,
		Metrics:   metrics,
		Validator: validator.New(),
		Logger:    logr,
	}, service.ResultServiceConfig{MaxImportRows: cfg.Import.MaxRows})
	reportSvc := service.NewReportService(reportRepo, logr)
	auditSvc := service.NewAuditLogService(auditRepo, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	retryQueue := jobs.NewQueue("gpa-refresh", gpaSvc.HandleRetry, jobs.QueueConfig{
		Workers:    cfg.GPA.RetryWorkers,
		MaxRetries: cfg.GPA.RetryAttempts,
		RetryDelay: cfg.GPA.RetryDelay,
		Logger:     logr,
	})
	retryQueue.Start(ctx)
	gpaSvc.UseRetryQueue(retryQueue)
	metrics.TrackQueueDepth("gpa-refresh", retryQueue.Pending)

	scheduler := jobs.NewScheduler(cfg.GPA.ReconcileTimeout, logr)
	if cfg.GPA.ReconcileSchedule != "" {
		if err := scheduler.Register("gpa-reconcile", cfg.GPA.ReconcileSchedule, gpaSvc.ReconcileActive); err != nil {
			logr.Fatal("invalid GPA reconcile schedule", zap.Error(err))
		}
		scheduler.Start()
	}

	metricsHandler := handler.NewMetricsHandler(metrics, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics, "/health", "/ready", "/metrics"))
	r.Use(internalmiddleware.AuditOrigin())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), authSvc, handler.Handlers{
		Results:  handler.NewResultHandler(resultSvc, lifecycleSvc, cfg.Import.MaxFileSize),
		GPA:      handler.NewGPAHandler(gpaSvc),
		Grading:  handler.NewGradingScaleHandler(scaleSvc),
		Sessions: handler.NewSessionHandler(sessionSvc),
		Settings: handler.NewSettingsHandler(settingsSvc),
		Reports:  handler.NewReportHandler(reportSvc),
		Audit:    handler.NewAuditHandler(auditSvc),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("http shutdown incomplete", zap.Error(err))
	}
	scheduler.Stop(shutdownCtx)
	retryQueue.Stop()
}
