package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/expo-push-api/internal/config"
	"github.com/expo-push-api/internal/infrastructure/dynamo"
	"github.com/expo-push-api/internal/infrastructure/expo"
	"github.com/expo-push-api/internal/infrastructure/metrics"
	s3infra "github.com/expo-push-api/internal/infrastructure/s3"
	"github.com/expo-push-api/internal/infrastructure/sqlite"
	"github.com/expo-push-api/internal/pkg/logger"
	transporthttp "github.com/expo-push-api/internal/transport/http"
	"github.com/joho/godotenv"
)

// @title           Expo Push Notification API
// @version         1.0
// @description     Authoring, publishing and push delivery of notifications to registered Expo devices.

// @BasePath  /
func main() {
	dotenvErr := godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.AppEnv)
	slog.SetDefault(log)
	if dotenvErr != nil {
		log.Info("no .env file found, reading from environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := &transporthttp.Deps{
		Gateway: expo.NewClient(cfg.Expo),
		Metrics: metrics.New(),
		Logger:  log,
	}

	switch cfg.StorageDriver {
	case config.StorageSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Error("open sqlite", "path", cfg.SQLitePath, "error", err)
			os.Exit(1)
		}
		defer closeDB(log, db)
		deps.DeviceRepo = sqlite.NewDeviceRepo(db)
		deps.NotificationRepo = sqlite.NewNotificationRepo(db)
	case config.StorageDynamo:
		// Creates the tables if they don't exist.
		dynamoClient := dynamo.NewClient(cfg)
		dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)
		deps.DeviceRepo = dynamo.NewDeviceRepo(dynamoClient, cfg.DynamoTables.Devices)
		deps.NotificationRepo = dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications)
	default:
		log.Error("unknown STORAGE_DRIVER", "driver", cfg.StorageDriver)
		os.Exit(1)
	}

	if cfg.S3ReportBucket != "" {
		deps.Reports = s3infra.NewReportStore(s3infra.NewClient(cfg), cfg.S3ReportBucket)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(ctx, cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // publish fans out inline
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
	log.Info("server stopped")
}

func closeDB(log *slog.Logger, db *sql.DB) {
	if err := db.Close(); err != nil {
		log.Warn("close sqlite", "error", err)
	}
}
