package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/edifyminds/edify-backend/internal/config"
	"github.com/edifyminds/edify-backend/internal/database"
	"github.com/edifyminds/edify-backend/internal/handler"
	"github.com/edifyminds/edify-backend/internal/logger"
	"github.com/edifyminds/edify-backend/internal/repository"
	"github.com/edifyminds/edify-backend/internal/router"
	"github.com/edifyminds/edify-backend/internal/service"
	"github.com/edifyminds/edify-backend/internal/validator"
	"github.com/edifyminds/edify-backend/internal/worker"
)

// shutdownTimeout bounds the HTTP drain on SIGTERM.
const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("addr", cfg.Addr()).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Edify Backend")

	if cfg.DefaultSecret() {
		log.Warn().Msg("JWT_SECRET is the built-in development value; set it before exposing this server")
	}

	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect Backends ──────────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL unavailable")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis unavailable")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	enrollRepo := repository.NewEnrollmentRepository(pool)
	testRepo := repository.NewTestRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)
	homeworkRepo := repository.NewHomeworkRepository(pool)
	noticeRepo := repository.NewNoticeRepository(pool)
	resourceRepo := repository.NewResourceRepository(pool)
	overviewRepo := repository.NewOverviewRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	mediaService := service.NewMediaService(cfg, log)
	classService := service.NewClassService(classRepo, enrollRepo, userRepo, log)
	testService := service.NewTestService(testRepo, classRepo, enrollRepo, rdb, log)
	submissionService := service.NewSubmissionService(submissionRepo, enrollRepo, userRepo, testService, rdb, log)
	monitorService := service.NewMonitorService(submissionRepo, enrollRepo, testService)
	exportService := service.NewExportService(testService, rdb, log)
	homeworkService := service.NewHomeworkService(homeworkRepo, classService, mediaService, log)
	noticeService := service.NewNoticeService(noticeRepo, classService, log)
	resourceService := service.NewResourceService(resourceRepo, classService, mediaService, log)
	userService := service.NewUserService(userRepo, authService, log)
	overviewService := service.NewOverviewService(overviewRepo, rdb, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Test:       handler.NewTestHandler(testService),
		Submission: handler.NewSubmissionHandler(submissionService),
		Export:     handler.NewExportHandler(exportService),
		Class:      handler.NewClassHandler(classService),
		Homework:   handler.NewHomeworkHandler(homeworkService),
		Notice:     handler.NewNoticeHandler(noticeService),
		Resource:   handler.NewResourceHandler(resourceService),
		Media:      handler.NewMediaHandler(mediaService),
		User:       handler.NewUserHandler(userService),
		Overview:   handler.NewOverviewHandler(overviewService),
		Monitor:    handler.NewMonitorHandler(rdb, monitorService, log),
		System:     handler.NewSystemHandler(rdb, log),
		WS:         handler.NewWSHandler(rdb, testService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	exportWorker := worker.NewExportWorker(testRepo, classRepo, submissionRepo, rdb, cfg.ExportDir, log)

	go exportWorker.Start(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load every test payload and answer key into Redis BEFORE accepting
	// traffic. This avoids race conditions from lazy loading under
	// thundering herd.
	if err := testService.PrewarmAllCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("Shutting down")

	// HTTP first so nothing new lands on the export queue, then the
	// worker gets to drain it.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	workerCancel()
	select {
	case <-exportWorker.Done():
	case <-time.After(10 * time.Second):
		log.Warn().Msg("Export worker did not drain in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
