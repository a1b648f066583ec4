package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BradenHooton/dashboard/internal/background"
	"github.com/BradenHooton/dashboard/internal/config"
	"github.com/BradenHooton/dashboard/internal/handlers"
	middlewareCustom "github.com/BradenHooton/dashboard/internal/middleware"
	"github.com/BradenHooton/dashboard/internal/models"
	"github.com/BradenHooton/dashboard/internal/repositories"
	"github.com/BradenHooton/dashboard/internal/routes"
	"github.com/BradenHooton/dashboard/internal/services"
	pkghttp "github.com/BradenHooton/dashboard/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Server.SlogLevel()}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Directory source: upstream API first, bundled seed file as fallback
	var sources []repositories.RecordSource
	if cfg.Directory.SourceURL != "" {
		sources = append(sources, repositories.NewHTTPRecordSource(cfg.Directory.SourceURL, nil, cfg.Directory.FetchTimeout))
	}
	if cfg.Directory.SeedFile != "" {
		sources = append(sources, repositories.NewFileRecordSource(cfg.Directory.SeedFile))
	}
	source := repositories.NewChainRecordSource(sources...)

	// Initialize services
	directoryService := services.NewDirectoryService(source, logger, cfg.Directory.RefreshInterval)
	directoryService.SetFetchTimeout(2 * cfg.Directory.FetchTimeout)
	statsService := services.NewStatsService(services.DefaultStatCards())
	reportService := services.NewReportService(services.ReportConfig{
		Seed:    cfg.Reports.Seed,
		MaxDays: cfg.Reports.MaxDays,
	}, logger)

	chatRepo := repositories.NewChatRepository(repositories.DefaultContacts(), openingMessages(time.Now()))
	chatService := services.NewChatService(chatRepo, logger, cfg.Chat.ReplyDelay)

	// Initialize refresh manager. The bound leaves room for the seed file after an upstream timeout.
	refreshManager := background.NewRefreshManager(directoryService, logger, cfg.Directory.RefreshInterval, 2*cfg.Directory.FetchTimeout)

	// Initialize handlers
	directoryHandler := handlers.NewDirectoryHandler(directoryService, cfg.Directory.DefaultPageSize)
	reportHandler := handlers.NewReportHandler(reportService, statsService, services.WriteReportPDF)
	chatHandler := handlers.NewChatHandler(chatService, cfg.Server.AllowedOrigins)
	healthHandler := handlers.NewHealthHandler(directoryService)

	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.RequestLogger(logger, ipConfig))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.Server.WriteTimeout))

	// Register routes
	routes.RegisterRoutes(router, directoryHandler, reportHandler, chatHandler, healthHandler, middlewareCustom.RateLimitConfig{
		RequestsPerMinute: cfg.Server.RateLimitPerMinute,
		TrustedProxies:    cfg.Server.TrustedProxies,
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start refresh task; the first load happens immediately
	refreshCtx, refreshCancel := context.WithCancel(context.Background())
	defer refreshCancel()

	go refreshManager.Start(refreshCtx)

	// Reload on seed file edits
	var seedWatcher *background.SeedWatcher
	if cfg.Directory.SeedFile != "" && cfg.Directory.WatchSeedFile && !cfg.Directory.SeedWatchEnabled() {
		logger.Info("seed file watching skipped, seed file is only a fallback for the upstream", slog.String("source_url", cfg.Directory.SourceURL))
	}
	if cfg.Directory.SeedWatchEnabled() {
		seedWatcher, err = background.NewSeedWatcher(cfg.Directory.SeedFile, directoryService, logger, 500*time.Millisecond, cfg.Directory.FetchTimeout)
		if err != nil {
			logger.Warn("seed file watching disabled", slog.Any("error", err))
		} else {
			go seedWatcher.Start(refreshCtx)
		}
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr), slog.String("source", source.Name()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	refreshCancel()
	refreshManager.Stop()
	if seedWatcher != nil {
		seedWatcher.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	chatService.Close()

	logger.Info("server stopped gracefully")
}

// openingMessages seeds each contact's conversation with a greeting
func openingMessages(now time.Time) []*models.Message {
	greetings := map[int]string{
		1: "Hi! Do you have a minute to go over the Q3 roadmap?",
		2: "The new build is on staging whenever you want to take a look.",
		5: "Two tickets need your sign-off today.",
	}

	contacts := repositories.DefaultContacts()
	msgs := make([]*models.Message, 0, len(greetings))
	for _, c := range contacts {
		body, ok := greetings[c.ID]
		if !ok {
			continue
		}
		msgs = append(msgs, &models.Message{
			ID:         uuid.NewString(),
			ContactID:  c.ID,
			SenderID:   c.ID,
			SenderName: c.Name,
			Body:       body,
			SentAt:     now.Add(-time.Duration(c.ID) * time.Minute),
		})
	}
	return msgs
}
