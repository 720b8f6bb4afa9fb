package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/siakad-backend/internal/config"
	"github.com/stemsi/siakad-backend/internal/database"
	"github.com/stemsi/siakad-backend/internal/handler"
	"github.com/stemsi/siakad-backend/internal/logger"
	"github.com/stemsi/siakad-backend/internal/repository"
	"github.com/stemsi/siakad-backend/internal/router"
	"github.com/stemsi/siakad-backend/internal/service"
	"github.com/stemsi/siakad-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup("siakad-server", cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting SIAKAD Backend")

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
	atomic := repository.NewAtomicRunner(pool, cfg.DBTxFallback)
	institutionRepo := repository.NewInstitutionRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool, atomic)
	classRepo := repository.NewClassRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	teacherRepo := repository.NewTeacherRepository(pool, atomic)
	adminRepo := repository.NewAdminRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	guard := service.NewGuard(institutionRepo, sessionRepo, classRepo)
	authService := service.NewAuthService(cfg, rdb)
	adminService := service.NewAdminService(adminRepo, authService)
	institutionService := service.NewInstitutionService(institutionRepo)
	sessionService := service.NewSessionService(sessionRepo, guard)
	classService := service.NewClassService(classRepo, sessionRepo, guard)
	studentService := service.NewStudentService(studentRepo, sessionRepo, guard)
	teacherService := service.NewTeacherService(teacherRepo, guard, cfg.BcryptCost)
	promotionService := service.NewPromotionService(studentRepo, sessionRepo, classRepo, guard)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(authService, adminService),
		Session:     handler.NewSessionHandler(sessionService),
		Class:       handler.NewClassHandler(classService),
		Student:     handler.NewStudentHandler(studentService),
		Teacher:     handler.NewTeacherHandler(teacherService),
		Promotion:   handler.NewPromotionHandler(promotionService),
		Institution: handler.NewInstitutionHandler(institutionService, adminService),
	}

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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
