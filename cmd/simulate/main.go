package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-simulator/internal/simulation"
	"github.com/angelmondragon/packfinderz-simulator/pkg/logger"
)

// simulate runs one scenario from an inputs file and prints the result as
// JSON. It needs no database, broker or cache, which makes it handy for
// calibrating scenarios locally.
func main() {
	logg := logger.New(logger.Options{ServiceName: "simulate"})

	inputsPath := flag.String("inputs", "", "path to a JSON file with catalog, history, scenario and competitors")
	seed := flag.Int64("seed", 42, "deterministic run seed")
	startDate := flag.String("start", time.Now().UTC().Format("2006-01-02"), "first simulated day (YYYY-MM-DD)")
	populationSize := flag.Int("population", 250, "synthetic cohort size")
	workers := flag.Int("workers", 4, "concurrent day workers")
	populationOnly := flag.Bool("population-only", false, "generate the cohort and exit without simulating days")

	flag.Parse()

	if *inputsPath == "" {
		fmt.Fprintln(os.Stderr, "missing -inputs file")
		os.Exit(1)
	}

	raw, err := os.ReadFile(*inputsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading inputs: %v\n", err)
		os.Exit(1)
	}

	var inputs simulation.Inputs
	if err := json.Unmarshal(raw, &inputs); err != nil {
		fmt.Fprintf(os.Stderr, "parsing inputs: %v\n", err)
		os.Exit(1)
	}

	start, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parsing -start: %v\n", err)
		os.Exit(1)
	}

	popCfg := simulation.PopulationConfig{Size: *populationSize}

	if *populationOnly {
		cohort := simulation.GeneratePopulation(inputs, *seed, popCfg)
		writeJSON(cohort)
		return
	}

	ctx := logg.WithFields(context.Background(), map[string]any{
		"scenario": inputs.Scenario.Name,
		"seed":     *seed,
		"days":     inputs.Scenario.HorizonDays,
	})
	logg.Info(ctx, "starting local simulation")

	result, err := simulation.Run(ctx, inputs, simulation.RunConfig{
		RunID:      "run_" + uuid.NewString(),
		Seed:       *seed,
		StartDate:  start,
		Population: popCfg,
		Workers:    *workers,
	})
	if err != nil {
		logg.Error(ctx, "simulation failed", err)
		os.Exit(1)
	}

	writeJSON(result)
}

func writeJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encoding output: %v\n", err)
		os.Exit(1)
	}
}
