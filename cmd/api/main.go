package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/tally/tally-backend/internal/config"
	"github.com/dafibh/tally/tally-backend/internal/export"
	"github.com/dafibh/tally/tally-backend/internal/handler"
	"github.com/dafibh/tally/tally-backend/internal/middleware"
	"github.com/dafibh/tally/tally-backend/internal/repository/memory"
	"github.com/dafibh/tally/tally-backend/internal/repository/storage"
	"github.com/dafibh/tally/tally-backend/internal/seed"
	"github.com/dafibh/tally/tally-backend/internal/service"
	"github.com/dafibh/tally/tally-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title Tally API
// @version 1.0
// @description Small-business accounting: chart of accounts, journal entries and financial reports.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	// Seed the ledger
	store := memory.NewStore()
	chart, err := seed.Load(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Str("seed_file", cfg.SeedFile).Msg("Failed to load chart of accounts")
	}
	seeded, err := seed.Apply(store.Accounts(), chart)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed chart of accounts")
	}
	log.Info().Int("accounts", seeded).Str("seed_file", cfg.SeedFile).Msg("Chart of accounts loaded")

	// Initialize WebSocket hub
	hub := websocket.NewHub()

	// Initialize services
	accountService := service.NewAccountService(store.Accounts())
	accountService.SetEventPublisher(hub)
	journalService := service.NewJournalService(store.Journal(), store.Accounts())
	journalService.SetEventPublisher(hub)
	reportService := service.NewReportService(store.Accounts())
	exportService := service.NewExportService(reportService)
	dashboardService := service.NewDashboardService(store.Accounts(), store.Journal())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Report archive storage (optional)
	var archiveWorker *service.ArchiveWorker
	if cfg.S3.Enabled() {
		reportStore, err := storage.NewS3ReportStore(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Str("bucket", cfg.S3.Bucket).Msg("Failed to initialize report storage")
		}
		exportService.SetReportStore(reportStore, cfg.ExportURLTTL)
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Report archive enabled")

		if cfg.ArchiveInterval > 0 {
			archiveWorker = service.NewArchiveWorker(exportService, log.Logger, service.ArchiveWorkerConfig{
				Interval: cfg.ArchiveInterval,
				Format:   export.Format(cfg.ArchiveFormat),
			})
			archiveWorker.Start(ctx)
		}
	}

	// Initialize handlers
	handlers := handler.Handlers{
		Account:   handler.NewAccountHandler(accountService),
		Journal:   handler.NewJournalHandler(journalService),
		Report:    handler.NewReportHandler(reportService, exportService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		WebSocket: handler.NewWebSocketHandler(hub, cfg.CORSOrigins),
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		ExposeHeaders: []string{echo.HeaderContentDisposition, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:        86400,
	}))

	// Security headers middleware
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(middleware.RequestLogger())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Per-client rate limiting
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()
	e.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Register routes
	handler.RegisterRoutes(e, handlers)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	<-ctx.Done()

	log.Info().Msg("Shutting down server...")

	if archiveWorker != nil {
		archiveWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
