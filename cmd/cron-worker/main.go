package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/akinleyeOJ/culturer-backend/internal/cron"
	product "github.com/akinleyeOJ/culturer-backend/internal/products"
	"github.com/akinleyeOJ/culturer-backend/internal/recent"
	"github.com/akinleyeOJ/culturer-backend/pkg/config"
	"github.com/akinleyeOJ/culturer-backend/pkg/db"
	"github.com/akinleyeOJ/culturer-backend/pkg/logger"
	"github.com/akinleyeOJ/culturer-backend/pkg/metrics"
	"github.com/akinleyeOJ/culturer-backend/pkg/migrate"
	"github.com/akinleyeOJ/culturer-backend/pkg/redis"
)

const lockKeyFormat = "cron-worker:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(lockKey(cfg.App.Env)), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	registry := cron.NewRegistry()

	retentionJob, err := cron.NewRecentRetentionJob(cron.RecentRetentionJobParams{
		Logger:     logg,
		Repository: recent.NewRepository(dbClient.DB()),
		Retention:  cfg.Cron.RecentRetention,
		MaxPerUser: cfg.Cron.RecentMaxPerUser,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create recent retention job", err)
		os.Exit(1)
	}
	registry.Register(retentionJob)

	draftJob, err := cron.NewStaleDraftJob(cron.StaleDraftJobParams{
		Logger:     logg,
		Repository: product.NewRepository(dbClient.DB()),
		Retention:  cfg.Cron.StaleDraftRetention,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stale draft job", err)
		os.Exit(1)
	}
	registry.Register(draftJob)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.JobInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
