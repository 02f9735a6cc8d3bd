package runs

import (
	"time"

	"github.com/angelmondragon/packfinderz-simulator/internal/simulation"
)

// RunScenarioInput is the validated payload for a simulation run. The catalog,
// history and competitor fields may be supplied inline; when absent they are
// loaded from the venue's latest snapshot.
type RunScenarioInput struct {
	VenueID     string                          `json:"venue_id"`
	ProfileType string                          `json:"profile_type,omitempty"`
	Scenario    simulation.Scenario             `json:"scenario"`
	Seed        int64                           `json:"seed"`
	StartDate   time.Time                       `json:"start_date"`
	Catalog     []simulation.Product            `json:"catalog,omitempty"`
	History     *simulation.HistoricalStats     `json:"history,omitempty"`
	Competitors []simulation.CompetitorSnapshot `json:"competitors,omitempty"`
	Population  simulation.PopulationConfig     `json:"population,omitempty"`
	SkipCache   bool                            `json:"skip_cache,omitempty"`
}

// RunScenarioResult wraps the engine output with cache provenance.
type RunScenarioResult struct {
	Result *simulation.RunResult `json:"result"`
	Cached bool                  `json:"cached"`
}

// PreviewPopulationInput generates a cohort without simulating any days.
type PreviewPopulationInput struct {
	VenueID    string                      `json:"venue_id"`
	Seed       int64                       `json:"seed"`
	Population simulation.PopulationConfig `json:"population,omitempty"`
	Catalog    []simulation.Product        `json:"catalog,omitempty"`
	History    *simulation.HistoricalStats `json:"history,omitempty"`
}
