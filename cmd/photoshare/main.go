// Package main is the entry point for the PhotoShare API server.
// It loads configuration, connects to services, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photoshare/internal/config"
	"photoshare/internal/database"
	"photoshare/internal/handlers"
	"photoshare/internal/router"
	"photoshare/internal/storage"
	"photoshare/internal/store"
	"photoshare/internal/token"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	photoStore := store.NewPhotoStore(db)
	commentStore := store.NewCommentStore(db)
	ratingStore := store.NewRatingStore(db)
	transformStore := store.NewTransformedImageStore(db)
	qrStore := store.NewQRCodeStore(db)

	// Connect to S3-compatible object storage (optional; photo uploads,
	// transforms, and QR generation refuse with 503 without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, image uploads disabled")
	}

	tokenService := token.NewService(cfg.TokenSecret, cfg.TokenTTL)

	// Create handler groups with their dependencies.
	r := router.New(router.Deps{
		Tokens:     tokenService,
		Users:      userStore,
		Auth:       handlers.NewAuth(userStore, tokenService),
		Photos:     handlers.NewPhotos(photoStore, transformStore, qrStore, storageClient),
		Comments:   handlers.NewComments(commentStore, photoStore),
		Ratings:    handlers.NewRatings(ratingStore, photoStore),
		Search:     handlers.NewSearch(photoStore),
		Transforms: handlers.NewTransforms(photoStore, transformStore, storageClient),
		QR:         handlers.NewQR(photoStore, qrStore, storageClient),
	})

	// WriteTimeout must accommodate image uploads and in-process
	// transformations on large originals.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
