package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/packfinderz-simulator/api/responses"
	"github.com/angelmondragon/packfinderz-simulator/api/validators"
	runsvc "github.com/angelmondragon/packfinderz-simulator/internal/runs"
	"github.com/angelmondragon/packfinderz-simulator/internal/simulation"
	pkgerrors "github.com/angelmondragon/packfinderz-simulator/pkg/errors"
	"github.com/angelmondragon/packfinderz-simulator/pkg/logger"
)

const maxVenueIDLength = 128

// RunSimulation executes a scenario synchronously and returns the full run
// result. Heavy horizons should go through the run-request topic instead.
func RunSimulation(svc runsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "simulation service unavailable"))
			return
		}

		var payload runSimulationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RunScenario(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// PreviewPopulation generates the synthetic cohort for the given inputs
// without simulating any days.
func PreviewPopulation(svc runsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "simulation service unavailable"))
			return
		}

		var payload previewPopulationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// ?size= overrides the body for quick sampling from dashboards.
		size, err := validators.ParseQueryInt(r, "size", payload.Population.Size, 0, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payload.Population.Size = size

		cohort, err := svc.PreviewPopulation(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, previewPopulationResponse{
			Count:      len(cohort),
			Population: cohort,
		})
	}
}

type runSimulationRequest struct {
	VenueID     string                          `json:"venue_id"`
	ProfileType string                          `json:"profile_type"`
	Scenario    simulation.Scenario             `json:"scenario" validate:"required"`
	Seed        int64                           `json:"seed"`
	StartDate   string                          `json:"start_date" validate:"required"`
	Catalog     []simulation.Product            `json:"catalog"`
	History     *simulation.HistoricalStats     `json:"history"`
	Competitors []simulation.CompetitorSnapshot `json:"competitors"`
	Population  simulation.PopulationConfig     `json:"population"`
	SkipCache   bool                            `json:"skip_cache"`
}

func (p *runSimulationRequest) toInput() (runsvc.RunScenarioInput, error) {
	startDate, err := parseStartDate(p.StartDate)
	if err != nil {
		return runsvc.RunScenarioInput{}, err
	}
	return runsvc.RunScenarioInput{
		VenueID:     validators.SanitizeString(p.VenueID, maxVenueIDLength),
		ProfileType: validators.SanitizeString(p.ProfileType, maxVenueIDLength),
		Scenario:    p.Scenario,
		Seed:        p.Seed,
		StartDate:   startDate,
		Catalog:     p.Catalog,
		History:     p.History,
		Competitors: p.Competitors,
		Population:  p.Population,
		SkipCache:   p.SkipCache,
	}, nil
}

type previewPopulationRequest struct {
	VenueID    string                      `json:"venue_id"`
	Seed       int64                       `json:"seed"`
	Population simulation.PopulationConfig `json:"population"`
	Catalog    []simulation.Product        `json:"catalog"`
	History    *simulation.HistoricalStats `json:"history"`
}

func (p *previewPopulationRequest) toInput() runsvc.PreviewPopulationInput {
	return runsvc.PreviewPopulationInput{
		VenueID:    validators.SanitizeString(p.VenueID, maxVenueIDLength),
		Seed:       p.Seed,
		Population: p.Population,
		Catalog:    p.Catalog,
		History:    p.History,
	}
}

type previewPopulationResponse struct {
	Count      int                            `json:"count"`
	Population []simulation.SyntheticCustomer `json:"population"`
}

func parseStartDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "start_date must be YYYY-MM-DD or RFC 3339").
			WithDetails(map[string]any{"field": "start_date"})
	}
	return t, nil
}
