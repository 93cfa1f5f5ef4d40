package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/webfinancas/api/internal/auth"
	"github.com/webfinancas/api/internal/background"
	"github.com/webfinancas/api/internal/config"
	"github.com/webfinancas/api/internal/database"
	"github.com/webfinancas/api/internal/handlers"
	"github.com/webfinancas/api/internal/middleware"
	"github.com/webfinancas/api/internal/repositories"
	"github.com/webfinancas/api/internal/routes"
	"github.com/webfinancas/api/internal/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	if cfg.Auth.JWTSecretIsFallback {
		logger.Warn("JWT_SECRET not set; using the insecure development fallback - do not deploy like this")
	}

	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(migrateCtx, "db/migrations"); err != nil {
		migrateCancel()
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	migrateCancel()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	feedbackRepo := repositories.NewFeedbackRepository(db)

	// Token manager for session tokens
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTokenExpiry)

	// Outbound email
	emailService, err := services.NewAWSSESEmailService(
		cfg.Email.AWSRegion,
		cfg.Email.FromAddress,
		cfg.Email.ResetURLBase,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize email service", slog.Any("error", err))
		os.Exit(1)
	}

	// Services
	userService := services.NewUserService(userRepo, tokenManager, emailService, cfg.Auth.ResetTokenExpiry, logger)
	transactionService := services.NewTransactionService(transactionRepo, logger)
	feedbackService := services.NewFeedbackService(feedbackRepo, userRepo, logger)
	adminService := services.NewAdminService(userRepo, logger)

	// Handlers
	userHandler := handlers.NewUserHandler(userService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Background sweeper for expired reset tokens
	cleanupManager := background.NewCleanupManager(userRepo, logger, cfg.Auth.ResetCleanupInterval)

	// CORS
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.Server.AllowedOrigins

	// Router
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.SecurityHeaders(middleware.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middleware.CORS(corsConfig))
	router.Use(middleware.RequestLogger(logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, userHandler, transactionHandler, feedbackHandler, adminHandler, tokenManager, userRepo)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
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

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
