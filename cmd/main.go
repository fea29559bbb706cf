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
	_ "github.com/lib/pq"
	"github.com/timbersport/ranking-system/config"
	"github.com/timbersport/ranking-system/db"
	"github.com/timbersport/ranking-system/handlers"
	"github.com/timbersport/ranking-system/live"
	"github.com/timbersport/ranking-system/repositories"
	api "github.com/timbersport/ranking-system/routes"
	"github.com/timbersport/ranking-system/services"
	"github.com/timbersport/ranking-system/storage"
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

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Error("failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database schema up to date")

	// Sheet archive is optional: without R2 credentials commits simply
	// skip the archival step.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
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
		logger.Info("Cloudflare R2 sheet archive enabled")
	} else {
		logger.Info("sheet archive disabled (R2 not configured)")
	}

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("rankings hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	competitorRepo := repositories.NewPostgresCompetitorRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)
	logger.Info("repositories initialized")

	txManager := services.NewTxManager(dbConn)
	authService := services.NewAuthService(userRepo)
	competitorService := services.NewCompetitorService(competitorRepo)
	tournamentService := services.NewTournamentService(tournamentRepo, competitorRepo, resultRepo)
	scoringService := services.NewScoringService(competitorRepo, resultRepo)
	rankingService := services.NewRankingService(competitorRepo, resultRepo)
	dashboardService := services.NewDashboardService(competitorRepo, tournamentRepo, resultRepo, rankingService)
	uploadService := services.NewUploadService(
		txManager,
		tournamentRepo,
		competitorRepo,
		resultRepo,
		rankingService,
		uploader,
		hub,
		logger,
	)
	logger.Info("services initialized")

	if err := authService.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("failed to provision admin account", slog.Any("error", err))
		os.Exit(1)
	}

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	competitorHandler := handlers.NewCompetitorHandler(competitorService, scoringService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	uploadHandler := handlers.NewUploadHandler(uploadService)
	rankingHandler := handlers.NewRankingHandler(rankingService, dashboardService)
	webSocketHandler := handlers.NewWebSocketHandler(hub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		competitorHandler,
		tournamentHandler,
		uploadHandler,
		rankingHandler,
		webSocketHandler,
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
