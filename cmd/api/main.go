package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/packfinderz-simulator/api/routes"
	"github.com/angelmondragon/packfinderz-simulator/internal/catalog"
	"github.com/angelmondragon/packfinderz-simulator/internal/reporting"
	"github.com/angelmondragon/packfinderz-simulator/internal/runs"
	"github.com/angelmondragon/packfinderz-simulator/pkg/config"
	"github.com/angelmondragon/packfinderz-simulator/pkg/db"
	"github.com/angelmondragon/packfinderz-simulator/pkg/logger"
	"github.com/angelmondragon/packfinderz-simulator/pkg/metrics"
	"github.com/angelmondragon/packfinderz-simulator/pkg/migrate"
	"github.com/angelmondragon/packfinderz-simulator/pkg/pubsub"
	"github.com/angelmondragon/packfinderz-simulator/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	resultCache, err := reporting.NewResultCache(redisClient, cfg.Simulation.ResultCacheTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create result cache", err)
		os.Exit(1)
	}

	params := runs.ServiceParams{
		Config:    cfg.Simulation,
		Logger:    logg,
		Snapshots: catalog.NewRepository(dbClient.DB()),
		Cache:     resultCache,
		Metrics:   metrics.NewSimulationMetrics(prometheus.DefaultRegisterer),
	}

	// Publishing is optional for the API; without a GCP project the run
	// result is still returned synchronously.
	if cfg.GCP.ProjectID != "" {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()

		summaryPublisher, err := reporting.NewPublisher(pubsubClient.SummariesPublisher(), logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create summary publisher", err)
			os.Exit(1)
		}
		params.Publisher = summaryPublisher
	}

	runsService, err := runs.NewService(params)
	if err != nil {
		logg.Error(context.Background(), "failed to create runs service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, runsService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
