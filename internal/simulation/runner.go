package simulation

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// RunConfig describes one full scenario run.
type RunConfig struct {
	RunID      string
	Seed       int64
	StartDate  time.Time
	Population PopulationConfig
	Workers    int
}

// RunResult is the complete output of a scenario run, days in calendar order.
type RunResult struct {
	RunID      string              `json:"run_id"`
	Seed       int64               `json:"seed"`
	StartDate  time.Time           `json:"start_date"`
	Population []SyntheticCustomer `json:"population"`
	Days       []DayResult         `json:"days"`
}

// Run generates the cohort once and then simulates every day of the scenario
// horizon. Days fan out across a bounded worker pool: each day derives its own
// seed and only reads the shared cohort and catalog, so scheduling order
// cannot change the result. The cohort must be complete before the first day
// starts, which Run guarantees by construction.
func Run(ctx context.Context, inputs Inputs, cfg RunConfig) (*RunResult, error) {
	population := GeneratePopulation(inputs, cfg.Seed, cfg.Population)

	horizon := inputs.Scenario.HorizonDays
	if horizon < 1 {
		horizon = 1
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	days := make([]DayResult, horizon)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	start := dateOnly(cfg.StartDate)
	for i := 0; i < horizon; i++ {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			days[i] = SimulateDay(inputs, population, cfg.Seed, DayConfig{
				Date:     start.AddDate(0, 0, i),
				RunID:    cfg.RunID,
				DayIndex: i,
			})
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &RunResult{
		RunID:      cfg.RunID,
		Seed:       cfg.Seed,
		StartDate:  start,
		Population: population,
		Days:       days,
	}, nil
}
