/*
Package main is the entry point for the room relay.

It loads configuration, initializes the global logger, assembles the profanity filter, the
user directory and the websocket manager, serves HTTP and shuts everything down gracefully
on SIGINT or SIGTERM.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roomrelay/internal/app/chat"
	"roomrelay/internal/app/profanity"
	"roomrelay/internal/app/storage"
	"roomrelay/internal/app/user"
	"roomrelay/internal/configs"
	"roomrelay/internal/handler"
	"roomrelay/internal/pkg/logx"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("public_dir", cfg.PublicDir).
		Msg("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	words, err := loadWordList(ctx, cfg)
	if err != nil {
		logx.Fatal(err, "Failed to load profanity word list")
	}
	logx.Info("Profanity filter ready", "entries", words.Len())

	users := user.NewDirectory()
	manager := chat.NewManager()
	relay := chat.NewRelay(users, manager, words, nil)

	router := handler.Router(&handler.AppDeps{
		Relay:   relay,
		Manager: manager,
		Users:   users,
		Config:  cfg,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Room relay starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "HTTP server did not shut down cleanly")
	}

	// Hijacked websocket connections are not tracked by http.Server.
	if err := manager.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Some websocket clients did not disconnect in time")
	}

	logx.Info("Server gracefully stopped.")
}

// loadWordList starts from the built-in list and extends it with the configured file and
// object storage sources.
func loadWordList(ctx context.Context, cfg *configs.AppConfig) (*profanity.WordList, error) {
	words := profanity.Default()

	if cfg.ProfanityWordsFile != "" {
		extra, err := profanity.LoadFile(cfg.ProfanityWordsFile)
		if err != nil {
			return nil, err
		}
		words = words.Extend(extra...)
		logx.Info("Loaded profanity words from file", "path", cfg.ProfanityWordsFile, "count", len(extra))
	}

	if cfg.ProfanityS3Key != "" {
		store, err := storage.NewStorageService(ctx, storage.ServiceConfig{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}

		meta, err := store.GetObjectMetadata(ctx, cfg.ProfanityS3Key)
		if err != nil {
			return nil, fmt.Errorf("profanity word list %s: %w", cfg.ProfanityS3Key, err)
		}

		extra, err := profanity.LoadObject(ctx, store, cfg.ProfanityS3Key)
		if err != nil {
			return nil, err
		}
		words = words.Extend(extra...)
		logx.Info("Loaded profanity words from object storage",
			"key", cfg.ProfanityS3Key,
			"etag", meta["ETag"],
			"size", meta["Content-Length"],
			"count", len(extra),
		)
	}

	return words, nil
}
