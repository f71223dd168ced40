package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pageza/glucolink/backend/config"
	"github.com/pageza/glucolink/backend/internal/api"
	"github.com/pageza/glucolink/backend/internal/database"
	"github.com/pageza/glucolink/backend/internal/logger"
	"github.com/pageza/glucolink/backend/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := logger.InitWithConfig(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, OutputPath: cfg.LogOutput}); err != nil {
		logger.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	deps := api.Dependencies{DB: db}

	// Rate limiting is skipped without Redis.
	if redisClient, err := database.NewRedisClient(cfg); err != nil {
		logger.Warn("redis unavailable, link redemption is not rate limited", "error", err)
	} else {
		deps.Redis = redisClient
		defer redisClient.Close()
	}

	s3cfg, err := config.NewS3Config(context.Background(), cfg)
	switch {
	case err != nil:
		logger.Warn("report archive disabled", "error", err)
	case s3cfg != nil:
		deps.Archive = s3cfg
	}

	srv := server.New(cfg, deps)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("received signal", "signal", sig.String())
	}

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
