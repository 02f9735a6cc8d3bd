package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/packfinderz-simulator/internal/catalog"
	"github.com/angelmondragon/packfinderz-simulator/internal/reporting"
	"github.com/angelmondragon/packfinderz-simulator/internal/runs"
	"github.com/angelmondragon/packfinderz-simulator/pkg/config"
	"github.com/angelmondragon/packfinderz-simulator/pkg/db"
	"github.com/angelmondragon/packfinderz-simulator/pkg/logger"
	"github.com/angelmondragon/packfinderz-simulator/pkg/migrate"
	"github.com/angelmondragon/packfinderz-simulator/pkg/pubsub"
	"github.com/angelmondragon/packfinderz-simulator/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "worker"

	logg = logger.New(logger.Options{
		ServiceName: "worker",
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

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
		}
	}()

	resultCache, err := reporting.NewResultCache(redisClient, cfg.Simulation.ResultCacheTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create result cache", err)
		os.Exit(1)
	}

	summaryPublisher, err := reporting.NewPublisher(pubsubClient.SummariesPublisher(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create summary publisher", err)
		os.Exit(1)
	}

	runsService, err := runs.NewService(runs.ServiceParams{
		Config:    cfg.Simulation,
		Logger:    logg,
		Snapshots: catalog.NewRepository(dbClient.DB()),
		Cache:     resultCache,
		Publisher: summaryPublisher,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create runs service", err)
		os.Exit(1)
	}

	runConsumer, err := runs.NewConsumer(pubsubClient.RunRequestSubscription(), runsService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create run consumer", err)
		os.Exit(1)
	}

	service, err := NewService(ServiceParams{
		Config:      cfg,
		Logger:      logg,
		DB:          dbClient,
		Redis:       redisClient,
		PubSub:      pubsubClient,
		RunConsumer: runConsumer,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": "worker",
	})
	logg.Info(ctx, "starting simulation worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "worker shutting down gracefully")
}
