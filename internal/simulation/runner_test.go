package simulation

import (
	"context"
	"testing"
	"time"
)

func testRunConfig(workers int) RunConfig {
	return RunConfig{
		RunID:      "run-test",
		Seed:       4242,
		StartDate:  time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC),
		Population: PopulationConfig{Size: 30},
		Workers:    workers,
	}
}

func TestRunProducesOneResultPerHorizonDay(t *testing.T) {
	t.Parallel()
	inputs := testInputs()
	inputs.Scenario.HorizonDays = 5

	result, err := Run(context.Background(), inputs, testRunConfig(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Days) != 5 {
		t.Fatalf("expected 5 day results, got %d", len(result.Days))
	}
	if len(result.Population) != 30 {
		t.Fatalf("expected cohort of 30, got %d", len(result.Population))
	}
	for i, day := range result.Days {
		wantDate := result.StartDate.AddDate(0, 0, i)
		if !day.Summary.Date.Equal(wantDate) {
			t.Fatalf("day %d summary date %v, want %v", i, day.Summary.Date, wantDate)
		}
	}
}

func TestRunIsDeterministicAcrossWorkerCounts(t *testing.T) {
	t.Parallel()
	inputs := testInputs()
	inputs.Scenario.HorizonDays = 6

	serial, err := Run(context.Background(), inputs, testRunConfig(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parallel, err := Run(context.Background(), inputs, testRunConfig(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range serial.Days {
		a, b := serial.Days[i], parallel.Days[i]
		if len(a.Orders) != len(b.Orders) {
			t.Fatalf("day %d order counts differ across worker counts", i)
		}
		if a.Summary.NetRevenue != b.Summary.NetRevenue {
			t.Fatalf("day %d revenue differs across worker counts", i)
		}
		if len(a.Orders) > 0 && a.Orders[0].ID != b.Orders[0].ID {
			t.Fatalf("day %d first order id differs across worker counts", i)
		}
	}
}

func TestRunDefaultsDegenerateConfig(t *testing.T) {
	t.Parallel()
	inputs := testInputs()
	inputs.Scenario.HorizonDays = 0

	cfg := testRunConfig(0)
	result, err := Run(context.Background(), inputs, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Days) != 1 {
		t.Fatalf("horizon should floor at one day, got %d", len(result.Days))
	}
}

func TestRunHonorsCanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs := testInputs()
	inputs.Scenario.HorizonDays = 50

	if _, err := Run(ctx, inputs, testRunConfig(2)); err == nil {
		t.Fatal("expected error from canceled context")
	}
}
