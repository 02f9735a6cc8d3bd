package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SimulationMetrics records run-level counters and timings.
type SimulationMetrics struct {
	runDuration *prometheus.HistogramVec
	runs        *prometheus.CounterVec
	days        prometheus.Counter
	cacheHits   prometheus.Counter
}

// NewSimulationMetrics registers the simulation metrics on the provided registerer.
func NewSimulationMetrics(reg prometheus.Registerer) *SimulationMetrics {
	if reg == nil {
		return &SimulationMetrics{}
	}
	runDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "simulation_run_duration_seconds",
		Help:    "Duration of simulation runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"scenario", "status"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simulation_runs_total",
		Help: "Completed simulation runs by scenario and status.",
	}, []string{"scenario", "status"})
	days := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simulation_days_total",
		Help: "Total simulated days across all runs.",
	})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simulation_cache_hits_total",
		Help: "Run requests served from the result cache.",
	})
	reg.MustRegister(runDuration, runs, days, cacheHits)
	return &SimulationMetrics{
		runDuration: runDuration,
		runs:        runs,
		days:        days,
		cacheHits:   cacheHits,
	}
}

// ObserveRun records one finished run with its wall-clock duration.
func (s *SimulationMetrics) ObserveRun(scenario, status string, duration time.Duration) {
	if s == nil || s.runDuration == nil {
		return
	}
	scenario = normalizeLabel(scenario)
	s.runDuration.WithLabelValues(scenario, status).Observe(duration.Seconds())
	s.runs.WithLabelValues(scenario, status).Inc()
}

// ObserveDaysSimulated adds the day count of a finished run.
func (s *SimulationMetrics) ObserveDaysSimulated(days int) {
	if s == nil || s.days == nil || days <= 0 {
		return
	}
	s.days.Add(float64(days))
}

// ObserveCacheHit counts a run request answered from cache.
func (s *SimulationMetrics) ObserveCacheHit() {
	if s == nil || s.cacheHits == nil {
		return
	}
	s.cacheHits.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
