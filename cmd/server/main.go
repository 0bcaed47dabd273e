package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/vvitengg/admissions-backend/internal/config"
	"github.com/vvitengg/admissions-backend/internal/database"
	"github.com/vvitengg/admissions-backend/internal/handler"
	"github.com/vvitengg/admissions-backend/internal/logger"
	"github.com/vvitengg/admissions-backend/internal/notify"
	"github.com/vvitengg/admissions-backend/internal/repository"
	"github.com/vvitengg/admissions-backend/internal/router"
	"github.com/vvitengg/admissions-backend/internal/service"
	"github.com/vvitengg/admissions-backend/internal/storage"
	"github.com/vvitengg/admissions-backend/internal/validator"
	"github.com/vvitengg/admissions-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("college_code", cfg.CollegeCode).
		Msg("Starting Admissions Backend")

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
	admissionRepo := repository.NewAdmissionRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	docStore := storage.NewLocal(cfg.UploadDir, cfg.MaxUploadBytes)
	whatsapp := notify.NewWhatsApp(cfg.WhatsAppToken, cfg.WhatsAppPhoneID, cfg.CountryCode, log)
	clock := service.NewTimeService(cfg.TimeAPIURL, cfg.TimeZone, log)
	events := service.NewRedisEvents(rdb, log)
	slipService := service.NewSlipService(cfg.SlipFontPath)
	if err := slipService.CheckFont(); err != nil {
		log.Warn().Err(err).
			Msg("Slip font not found — PDF rendering is disabled until SLIP_FONT_PATH points at a TTF")
	}
	exportService := service.NewExportService()

	authService := service.NewAuthService(cfg)
	adminService := service.NewAdminService(adminRepo)
	admissionService := service.NewAdmissionService(
		admissionRepo, docStore, clock, events, whatsapp, cfg.CollegeCode, log)
	registerService := service.NewRegisterService(admissionRepo, exportService, slipService)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService, adminService),
		Admission: handler.NewAdmissionHandler(admissionService, slipService, cfg.UploadDir),
		Register:  handler.NewRegisterHandler(registerService),
		WS:        handler.NewWSHandler(rdb, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	notificationWorker := worker.NewNotificationWorker(rdb, whatsapp, log)
	slipWorker := worker.NewSlipWorker(rdb, admissionRepo, slipService, cfg.UploadDir, log)

	go notificationWorker.Start(workerCtx)
	go slipWorker.Start(workerCtx)

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
