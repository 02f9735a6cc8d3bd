package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/packfinderz-simulator/api/controllers"
	"github.com/angelmondragon/packfinderz-simulator/api/middleware"
	"github.com/angelmondragon/packfinderz-simulator/internal/runs"
	"github.com/angelmondragon/packfinderz-simulator/pkg/config"
	"github.com/angelmondragon/packfinderz-simulator/pkg/db"
	"github.com/angelmondragon/packfinderz-simulator/pkg/logger"
	"github.com/angelmondragon/packfinderz-simulator/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	runsService runs.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ServiceAuth(cfg.Auth, logg))
		r.Get("/ping", controllers.PrivatePing())

		r.Route("/simulations", func(r chi.Router) {
			r.Use(
				middleware.RequireScope("simulations:run", logg),
				middleware.RateLimit("simulations", cfg.RateLimit.RunLimit, cfg.RateLimit.RunWindow, redisClient, logg),
			)
			r.Post("/run", controllers.RunSimulation(runsService, logg))
		})

		r.Route("/populations", func(r chi.Router) {
			r.Use(middleware.RequireScope("populations:preview", logg))
			r.Post("/preview", controllers.PreviewPopulation(runsService, logg))
		})
	})

	return r
}
