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

	"github.com/aibotsim/arena/brackets"
	"github.com/aibotsim/arena/config"
	"github.com/aibotsim/arena/db"
	"github.com/aibotsim/arena/handlers"
	"github.com/aibotsim/arena/oracle"
	"github.com/aibotsim/arena/repositories"
	api "github.com/aibotsim/arena/routes"
	"github.com/aibotsim/arena/services"
	"github.com/aibotsim/arena/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	imageStorage, err := storage.NewCloudflareR2Storage(storage.CloudflareR2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize image storage", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("image storage initialized")

	battleOracle, err := oracle.NewOpenAIOracle(oracle.OpenAIConfig{
		APIKey: cfg.OracleAPIKey,
		URL:    cfg.OracleURL,
		Model:  cfg.OracleModel,
	})
	if err != nil {
		logger.Error("failed to initialize battle oracle", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("battle oracle initialized", slog.String("model", cfg.OracleModel))

	wsHub := brackets.NewHub()
	go wsHub.Run()
	logger.Info("arena feed hub started")

	txRunner := repositories.NewTxRunner(dbConn)
	botRepo := repositories.NewPostgresBotRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	stageRepo := repositories.NewPostgresStageRepository(dbConn)
	logger.Info("repositories initialized")

	bracketService := services.NewBracketService(
		txRunner, gameRepo, botRepo, stageRepo, wsHub, logger, cfg.SeriesWinTarget)
	battleService := services.NewBattleService(
		txRunner, gameRepo, botRepo, battleOracle, wsHub, logger, cfg.SeriesWinTarget)
	scheduleService := services.NewScheduleService(bracketService, gameRepo, botRepo)
	botService := services.NewBotService(botRepo, imageStorage)
	logger.Info("services initialized")

	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	botHandler := handlers.NewBotHandler(botService, scheduleService)
	battleHandler := handlers.NewBattleHandler(battleService)
	playoffHandler := handlers.NewPlayoffHandler(bracketService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	healthHandler := handlers.NewHealthHandler(dbConn)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		scheduleHandler,
		botHandler,
		battleHandler,
		playoffHandler,
		webSocketHandler,
		healthHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second, // battle resolution waits on the oracle
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
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
