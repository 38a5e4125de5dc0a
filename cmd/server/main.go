package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/examtrack/examtrack-backend/internal/config"
	"github.com/examtrack/examtrack-backend/internal/database"
	"github.com/examtrack/examtrack-backend/internal/handler"
	"github.com/examtrack/examtrack-backend/internal/logger"
	"github.com/examtrack/examtrack-backend/internal/repository"
	"github.com/examtrack/examtrack-backend/internal/router"
	"github.com/examtrack/examtrack-backend/internal/service"
	"github.com/examtrack/examtrack-backend/internal/validator"
	"github.com/examtrack/examtrack-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting ExamTrack Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	taxonomyRepo := repository.NewTaxonomyRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)
	syncRepo := repository.NewSyncRepository(pool)
	deviceRepo := repository.NewDeviceRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	notifyService := service.NewNotifyService(rdb, log)
	authService := service.NewAuthService(cfg, deviceRepo, rdb)
	syncService := service.NewSyncService(syncRepo, rdb, log)
	gradingService := service.NewGradingService(examRepo, questionRepo, attemptRepo, notifyService, cfg, log)
	examService := service.NewExamService(examRepo, questionRepo, notifyService, log)
	taxonomyService := service.NewTaxonomyService(taxonomyRepo, notifyService, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Sync:     handler.NewSyncHandler(syncService),
		Attempt:  handler.NewAttemptHandler(gradingService),
		Exam:     handler.NewExamHandler(examService),
		Taxonomy: handler.NewTaxonomyHandler(taxonomyService),
		WS:       handler.NewWSHandler(rdb, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	activityWorker := worker.NewActivityWorker(activityRepo, rdb, log)
	go activityWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
