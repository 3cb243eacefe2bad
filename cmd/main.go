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

	"github.com/Fermalla/golf-league-system/config"
	"github.com/Fermalla/golf-league-system/db"
	"github.com/Fermalla/golf-league-system/handlers"
	"github.com/Fermalla/golf-league-system/live"
	"github.com/Fermalla/golf-league-system/repositories"
	api "github.com/Fermalla/golf-league-system/routes"
	"github.com/Fermalla/golf-league-system/services"
	"github.com/Fermalla/golf-league-system/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

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

	cloudflareUploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	liveHub := live.NewHub(logger)
	go liveHub.Run()
	logger.Info("live score hub started")

	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	courseRepo := repositories.NewPostgresCourseRepository(dbConn)
	holeRepo := repositories.NewPostgresHoleRepository(dbConn)
	roundRepo := repositories.NewPostgresRoundRepository(dbConn)
	roundPlayerRepo := repositories.NewPostgresRoundPlayerRepository(dbConn)
	holeScoreRepo := repositories.NewPostgresHoleScoreRepository(dbConn)
	leagueRepo := repositories.NewPostgresLeagueRepository(dbConn)
	achievementRepo := repositories.NewPostgresAchievementRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(cfg.AdminAccessKeyHash)
	playerService := services.NewPlayerService(playerRepo, cloudflareUploader)
	courseService := services.NewCourseService(dbConn, courseRepo, holeRepo, cloudflareUploader)
	roundService := services.NewRoundService(
		dbConn,
		roundRepo,
		roundPlayerRepo,
		holeScoreRepo,
		playerRepo,
		courseRepo,
		holeRepo,
		leagueRepo,
		liveHub,
		logger,
	)
	leagueService := services.NewLeagueService(
		leagueRepo,
		roundRepo,
		roundPlayerRepo,
		playerRepo,
		courseRepo,
		cloudflareUploader,
	)
	achievementService := services.NewAchievementService(achievementRepo, playerRepo)
	statsService := services.NewStatsService(
		playerRepo,
		roundRepo,
		roundPlayerRepo,
		holeScoreRepo,
		courseRepo,
		holeRepo,
		achievementRepo,
		leagueService,
	)
	logger.Info("services initialized")

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey, cfg.TokenTTL)
	playerHandler := handlers.NewPlayerHandler(playerService)
	courseHandler := handlers.NewCourseHandler(courseService)
	roundHandler := handlers.NewRoundHandler(roundService)
	leagueHandler := handlers.NewLeagueHandler(leagueService)
	achievementHandler := handlers.NewAchievementHandler(achievementService)
	statsHandler := handlers.NewStatsHandler(statsService)
	webSocketHandler := handlers.NewWebSocketHandler(liveHub, logger)
	healthHandler := handlers.NewHealthHandler(dbConn)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		playerHandler,
		courseHandler,
		roundHandler,
		leagueHandler,
		achievementHandler,
		statsHandler,
		webSocketHandler,
		healthHandler,
	)
	logger.Info("routes configured")

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
