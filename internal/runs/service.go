package runs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-simulator/internal/catalog"
	"github.com/angelmondragon/packfinderz-simulator/internal/simulation"
	"github.com/angelmondragon/packfinderz-simulator/pkg/config"
	pkgerrors "github.com/angelmondragon/packfinderz-simulator/pkg/errors"
	"github.com/angelmondragon/packfinderz-simulator/pkg/logger"
	"github.com/angelmondragon/packfinderz-simulator/pkg/metrics"
)

// Service exposes the simulation run operations.
type Service interface {
	RunScenario(ctx context.Context, input RunScenarioInput) (*RunScenarioResult, error)
	PreviewPopulation(ctx context.Context, input PreviewPopulationInput) ([]simulation.SyntheticCustomer, error)
}

type resultCache interface {
	Store(ctx context.Context, digest string, result *simulation.RunResult) error
	Fetch(ctx context.Context, digest string) (*simulation.RunResult, bool, error)
}

type summaryPublisher interface {
	PublishRun(ctx context.Context, scenario string, result *simulation.RunResult) error
}

type service struct {
	cfg       config.SimulationConfig
	logg      *logger.Logger
	snapshots catalog.SnapshotReader
	cache     resultCache
	publisher summaryPublisher
	metrics   *metrics.SimulationMetrics
}

// ServiceParams collects the service dependencies. Cache, publisher and
// metrics are optional; the run still completes without them.
type ServiceParams struct {
	Config    config.SimulationConfig
	Logger    *logger.Logger
	Snapshots catalog.SnapshotReader
	Cache     resultCache
	Publisher summaryPublisher
	Metrics   *metrics.SimulationMetrics
}

// NewService wires the orchestration service.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if params.Snapshots == nil {
		return nil, fmt.Errorf("snapshot reader is required")
	}
	return &service{
		cfg:       params.Config,
		logg:      params.Logger,
		snapshots: params.Snapshots,
		cache:     params.Cache,
		publisher: params.Publisher,
		metrics:   params.Metrics,
	}, nil
}

// RunScenario validates the request, resolves inputs, and executes the full
// multi-day simulation. Identical requests inside the cache window return the
// stored result without re-simulating.
func (s *service) RunScenario(ctx context.Context, input RunScenarioInput) (*RunScenarioResult, error) {
	if err := s.validateRun(&input); err != nil {
		return nil, err
	}

	ctx = s.logg.WithScenario(ctx, input.Scenario.Name)

	inputs, err := s.resolveInputs(ctx, input.VenueID, input.ProfileType, input.Scenario, input.Catalog, input.History, input.Competitors)
	if err != nil {
		return nil, err
	}

	digest, err := requestDigest(inputs, input.Seed, input.StartDate, input.Population)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "computing request digest")
	}

	if s.cache != nil && !input.SkipCache {
		cached, hit, err := s.cache.Fetch(ctx, digest)
		if err != nil {
			s.logg.Warn(ctx, "result cache read failed, simulating anyway")
		} else if hit {
			if s.metrics != nil {
				s.metrics.ObserveCacheHit()
			}
			s.logg.Info(ctx, "returning cached run result")
			return &RunScenarioResult{Result: cached, Cached: true}, nil
		}
	}

	runID := fmt.Sprintf("run_%s", uuid.NewString())
	ctx = s.logg.WithRunID(ctx, runID)

	started := time.Now()
	result, err := simulation.Run(ctx, inputs, simulation.RunConfig{
		RunID:      runID,
		Seed:       input.Seed,
		StartDate:  input.StartDate,
		Population: input.Population,
		Workers:    s.cfg.DayWorkers,
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.ObserveRun(input.Scenario.Name, "error", time.Since(started))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "executing simulation")
	}
	if s.metrics != nil {
		s.metrics.ObserveRun(input.Scenario.Name, "ok", time.Since(started))
		s.metrics.ObserveDaysSimulated(len(result.Days))
	}
	s.logg.Info(ctx, "simulation run completed")

	if s.cache != nil {
		if err := s.cache.Store(ctx, digest, result); err != nil {
			// Cache writes are best effort; the result is already computed.
			s.logg.Warn(ctx, "result cache write failed")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishRun(ctx, input.Scenario.Name, result); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publishing run summaries")
		}
	}

	return &RunScenarioResult{Result: result}, nil
}

// PreviewPopulation generates the synthetic cohort a run would use, without
// simulating any days.
func (s *service) PreviewPopulation(ctx context.Context, input PreviewPopulationInput) ([]simulation.SyntheticCustomer, error) {
	if input.Population.Size <= 0 {
		input.Population.Size = s.cfg.DefaultPopulationSize
	}
	if max := s.cfg.MaxPopulationSize; max > 0 && input.Population.Size > max {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("population size exceeds limit of %d", max))
	}

	inputs, err := s.resolveInputs(ctx, input.VenueID, "", simulation.Scenario{}, input.Catalog, input.History, nil)
	if err != nil {
		return nil, err
	}

	return simulation.GeneratePopulation(inputs, input.Seed, input.Population), nil
}

func (s *service) validateRun(input *RunScenarioInput) error {
	if input.Scenario.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "scenario name is required")
	}
	if input.Scenario.HorizonDays <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "horizon must be at least one day")
	}
	if max := s.cfg.MaxHorizonDays; max > 0 && input.Scenario.HorizonDays > max {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("horizon exceeds limit of %d days", max))
	}
	if input.StartDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start date is required")
	}
	if input.VenueID == "" && len(input.Catalog) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "either venue_id or an inline catalog is required")
	}
	if input.Population.Size <= 0 {
		input.Population.Size = s.cfg.DefaultPopulationSize
	}
	if max := s.cfg.MaxPopulationSize; max > 0 && input.Population.Size > max {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("population size exceeds limit of %d", max))
	}
	return nil
}

// resolveInputs assembles the engine inputs, falling back to the venue's
// stored snapshot for anything not supplied inline.
func (s *service) resolveInputs(
	ctx context.Context,
	venueID, profileType string,
	scenario simulation.Scenario,
	inlineCatalog []simulation.Product,
	inlineHistory *simulation.HistoricalStats,
	inlineCompetitors []simulation.CompetitorSnapshot,
) (simulation.Inputs, error) {
	inputs := simulation.Inputs{
		Catalog:     inlineCatalog,
		Scenario:    scenario,
		Competitors: inlineCompetitors,
		VenueID:     venueID,
		ProfileType: profileType,
	}
	if inlineHistory != nil {
		inputs.History = *inlineHistory
	}

	if venueID == "" {
		return inputs, nil
	}

	if len(inputs.Catalog) == 0 {
		loaded, err := s.snapshots.LatestSnapshot(ctx, venueID)
		if err != nil {
			return simulation.Inputs{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading catalog snapshot")
		}
		if len(loaded) == 0 {
			return simulation.Inputs{}, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("no catalog snapshot for venue %s", venueID))
		}
		inputs.Catalog = loaded
	}

	if inlineHistory == nil {
		stats, err := s.snapshots.HistoricalStats(ctx, venueID)
		if err != nil {
			return simulation.Inputs{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading historical stats")
		}
		inputs.History = stats
	}

	if inlineCompetitors == nil {
		competitors, err := s.snapshots.CompetitorSnapshots(ctx, venueID)
		if err != nil {
			return simulation.Inputs{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading competitor snapshots")
		}
		inputs.Competitors = competitors
	}

	return inputs, nil
}

// requestDigest fingerprints everything that influences the simulated output.
func requestDigest(inputs simulation.Inputs, seed int64, startDate time.Time, population simulation.PopulationConfig) (string, error) {
	payload, err := json.Marshal(struct {
		Inputs     simulation.Inputs           `json:"inputs"`
		Seed       int64                       `json:"seed"`
		StartDate  string                      `json:"start_date"`
		Population simulation.PopulationConfig `json:"population"`
	}{
		Inputs:     inputs,
		Seed:       seed,
		StartDate:  startDate.UTC().Format("2006-01-02"),
		Population: population,
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
