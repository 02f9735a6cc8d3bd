package runs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/packfinderz-simulator/internal/simulation"
	"github.com/angelmondragon/packfinderz-simulator/pkg/config"
	"github.com/angelmondragon/packfinderz-simulator/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-simulator/pkg/errors"
	"github.com/angelmondragon/packfinderz-simulator/pkg/logger"
)

type fakeSnapshots struct {
	catalog     []simulation.Product
	stats       simulation.HistoricalStats
	competitors []simulation.CompetitorSnapshot
	err         error
	calls       int
}

func (f *fakeSnapshots) LatestSnapshot(context.Context, string) ([]simulation.Product, error) {
	f.calls++
	return f.catalog, f.err
}

func (f *fakeSnapshots) HistoricalStats(context.Context, string) (simulation.HistoricalStats, error) {
	return f.stats, f.err
}

func (f *fakeSnapshots) CompetitorSnapshots(context.Context, string) ([]simulation.CompetitorSnapshot, error) {
	return f.competitors, f.err
}

type fakeCache struct {
	entries map[string]*simulation.RunResult
	stores  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*simulation.RunResult{}}
}

func (f *fakeCache) Store(_ context.Context, digest string, result *simulation.RunResult) error {
	f.entries[digest] = result
	f.stores++
	return nil
}

func (f *fakeCache) Fetch(_ context.Context, digest string) (*simulation.RunResult, bool, error) {
	result, ok := f.entries[digest]
	return result, ok, nil
}

type fakeRunPublisher struct {
	published []string
	err       error
}

func (f *fakeRunPublisher) PublishRun(_ context.Context, scenario string, _ *simulation.RunResult) error {
	f.published = append(f.published, scenario)
	return f.err
}

func cost(v float64) *float64 { return &v }

func storedCatalog() []simulation.Product {
	return []simulation.Product{
		{ID: "p1", BrandID: "brand-a", Category: enums.ProductCategoryVape, Price: 40, Cost: cost(18), InStock: true},
		{ID: "p2", Category: enums.ProductCategoryEdible, Price: 15, Cost: cost(6), InStock: true},
	}
}

func testServiceConfig() config.SimulationConfig {
	return config.SimulationConfig{
		DefaultPopulationSize: 25,
		MaxPopulationSize:     500,
		MaxHorizonDays:        30,
		DayWorkers:            2,
		ResultCacheTTL:        time.Hour,
	}
}

func newTestService(t *testing.T, snapshots *fakeSnapshots, cache *fakeCache, publisher *fakeRunPublisher) Service {
	t.Helper()
	params := ServiceParams{
		Config:    testServiceConfig(),
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		Snapshots: snapshots,
	}
	if cache != nil {
		params.Cache = cache
	}
	if publisher != nil {
		params.Publisher = publisher
	}
	svc, err := NewService(params)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func validRunInput() RunScenarioInput {
	return RunScenarioInput{
		VenueID: "venue-1",
		Scenario: simulation.Scenario{
			Name:        "baseline",
			HorizonDays: 3,
			Assumptions: simulation.Assumptions{SeasonalityIntensity: 0.5},
		},
		Seed:      42,
		StartDate: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRunScenarioExecutesAndPublishes(t *testing.T) {
	t.Parallel()
	snapshots := &fakeSnapshots{catalog: storedCatalog()}
	cache := newFakeCache()
	publisher := &fakeRunPublisher{}
	svc := newTestService(t, snapshots, cache, publisher)

	result, err := svc.RunScenario(context.Background(), validRunInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Cached {
		t.Fatal("first run should not be served from cache")
	}
	if len(result.Result.Days) != 3 {
		t.Fatalf("expected 3 day results, got %d", len(result.Result.Days))
	}
	if len(result.Result.Population) != 25 {
		t.Fatalf("expected default population size 25, got %d", len(result.Result.Population))
	}
	if len(publisher.published) != 1 || publisher.published[0] != "baseline" {
		t.Fatalf("expected one publish for baseline, got %v", publisher.published)
	}
	if cache.stores != 1 {
		t.Fatalf("expected one cache write, got %d", cache.stores)
	}
}

func TestRunScenarioServesRepeatFromCache(t *testing.T) {
	t.Parallel()
	snapshots := &fakeSnapshots{catalog: storedCatalog()}
	cache := newFakeCache()
	svc := newTestService(t, snapshots, cache, nil)
	ctx := context.Background()

	first, err := svc.RunScenario(ctx, validRunInput())
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := svc.RunScenario(ctx, validRunInput())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if !second.Cached {
		t.Fatal("identical request should be served from cache")
	}
	if second.Result.RunID != first.Result.RunID {
		t.Fatalf("cached result should be the original run, got %s vs %s",
			second.Result.RunID, first.Result.RunID)
	}

	// Changing the seed must bypass the cached entry.
	changed := validRunInput()
	changed.Seed = 43
	third, err := svc.RunScenario(ctx, changed)
	if err != nil {
		t.Fatalf("third run failed: %v", err)
	}
	if third.Cached {
		t.Fatal("different seed should not hit the cache")
	}
}

func TestRunScenarioSkipCache(t *testing.T) {
	t.Parallel()
	snapshots := &fakeSnapshots{catalog: storedCatalog()}
	cache := newFakeCache()
	svc := newTestService(t, snapshots, cache, nil)
	ctx := context.Background()

	if _, err := svc.RunScenario(ctx, validRunInput()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	input := validRunInput()
	input.SkipCache = true
	result, err := svc.RunScenario(ctx, input)
	if err != nil {
		t.Fatalf("skip-cache run failed: %v", err)
	}
	if result.Cached {
		t.Fatal("skip_cache should force a fresh simulation")
	}
}

func TestRunScenarioValidation(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, &fakeSnapshots{catalog: storedCatalog()}, nil, nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*RunScenarioInput)
	}{
		{"missing scenario name", func(in *RunScenarioInput) { in.Scenario.Name = "" }},
		{"zero horizon", func(in *RunScenarioInput) { in.Scenario.HorizonDays = 0 }},
		{"horizon over limit", func(in *RunScenarioInput) { in.Scenario.HorizonDays = 31 }},
		{"missing start date", func(in *RunScenarioInput) { in.StartDate = time.Time{} }},
		{"no venue or catalog", func(in *RunScenarioInput) { in.VenueID = "" }},
		{"population over limit", func(in *RunScenarioInput) { in.Population.Size = 501 }},
	}
	for _, tc := range cases {
		input := validRunInput()
		tc.mutate(&input)
		_, err := svc.RunScenario(ctx, input)
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation code, got %v", tc.name, err)
		}
	}
}

func TestRunScenarioMissingSnapshot(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, &fakeSnapshots{}, nil, nil)

	_, err := svc.RunScenario(context.Background(), validRunInput())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found for venue without snapshot, got %v", err)
	}
}

func TestRunScenarioInlineCatalogSkipsSnapshotLoad(t *testing.T) {
	t.Parallel()
	snapshots := &fakeSnapshots{}
	svc := newTestService(t, snapshots, nil, nil)

	input := validRunInput()
	input.VenueID = ""
	input.Catalog = storedCatalog()

	result, err := svc.RunScenario(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshots.calls != 0 {
		t.Fatalf("inline catalog should not touch the snapshot store, got %d calls", snapshots.calls)
	}
	if len(result.Result.Days) != 3 {
		t.Fatalf("expected 3 day results, got %d", len(result.Result.Days))
	}
}

func TestRunScenarioPublishFailureSurfacesAsDependency(t *testing.T) {
	t.Parallel()
	publisher := &fakeRunPublisher{err: errors.New("broker down")}
	svc := newTestService(t, &fakeSnapshots{catalog: storedCatalog()}, nil, publisher)

	_, err := svc.RunScenario(context.Background(), validRunInput())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestPreviewPopulation(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, &fakeSnapshots{catalog: storedCatalog()}, nil, nil)

	cohort, err := svc.PreviewPopulation(context.Background(), PreviewPopulationInput{
		VenueID: "venue-1",
		Seed:    7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cohort) != 25 {
		t.Fatalf("expected default population size 25, got %d", len(cohort))
	}

	again, err := svc.PreviewPopulation(context.Background(), PreviewPopulationInput{
		VenueID: "venue-1",
		Seed:    7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cohort[0].ID != again[0].ID || cohort[0].Segment != again[0].Segment {
		t.Fatal("preview should be reproducible for the same seed")
	}

	_, err = svc.PreviewPopulation(context.Background(), PreviewPopulationInput{
		VenueID:    "venue-1",
		Population: simulation.PopulationConfig{Size: 501},
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for oversized preview, got %v", err)
	}
}
