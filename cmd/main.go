package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chessleaguetracker/leagueboard/config"
	"github.com/chessleaguetracker/leagueboard/handlers"
	"github.com/chessleaguetracker/leagueboard/live"
	"github.com/chessleaguetracker/leagueboard/notify"
	api "github.com/chessleaguetracker/leagueboard/routes"
	"github.com/chessleaguetracker/leagueboard/scheduler"
	"github.com/chessleaguetracker/leagueboard/services"
	"github.com/chessleaguetracker/leagueboard/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("data_source", cfg.DataSource))

	var source storage.DocumentSource
	switch cfg.DataSource {
	case "r2":
		source, err = storage.NewCloudflareR2Source(storage.CloudflareR2SourceConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
		})
	case "http":
		source, err = storage.NewHTTPSource(cfg.HTTPBaseURL)
	}
	if err != nil {
		logger.Error("failed to initialize document source", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("document source initialized")

	wsHub := live.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	store := services.NewSnapshotStore()
	registrationService := services.NewRegistrationService(cfg.RatingGapThreshold)
	cohortService := services.NewCohortService()
	timeoutService := services.NewTimeoutService(cfg.HighTimeoutPercent)
	resignationService := services.NewResignationService()
	leagueService := services.NewLeagueService(store, registrationService, cohortService, timeoutService, resignationService)
	loader := services.NewLoader(source, store, resignationService, services.LoaderConfig{
		LeagueKey:      cfg.LeagueDataKey,
		TimeoutKey:     cfg.TimeoutDataKey,
		ResignationKey: cfg.ResignationDataKey,
	}, logger)
	logger.Info("Services initialized")

	// Initial load. The server still starts on failure; requests return 503
	// until the first scheduled refresh succeeds.
	initCtx, cancelInit := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := loader.Refresh(initCtx); err != nil {
		logger.Error("initial data load failed", slog.Any("error", err))
	}
	cancelInit()

	var notifier notify.Notifier
	if cfg.TelegramEnabled() {
		telegramNotifier, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			logger.Error("failed to initialize telegram notifier", slog.Any("error", err))
			os.Exit(1)
		}
		notifier = telegramNotifier
		logger.Info("Telegram notifier initialized")
	}

	sched, err := scheduler.New(loader, leagueService, store, wsHub, notifier, cfg.RefreshInterval, logger)
	if err != nil {
		logger.Error("failed to create scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			logger.Error("failed to stop scheduler", slog.Any("error", err))
		}
	}()
	logger.Info("Refresh scheduler started", slog.Duration("interval", cfg.RefreshInterval))

	leagueHandler := handlers.NewLeagueHandler(leagueService)
	matchHandler := handlers.NewMatchHandler(leagueService)
	riskHandler := handlers.NewRiskHandler(leagueService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(router, leagueHandler, matchHandler, riskHandler, webSocketHandler)
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
