package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	runsvc "github.com/angelmondragon/packfinderz-simulator/internal/runs"
	"github.com/angelmondragon/packfinderz-simulator/internal/simulation"
	pkgAuth "github.com/angelmondragon/packfinderz-simulator/pkg/auth"
	"github.com/angelmondragon/packfinderz-simulator/pkg/config"
	"github.com/angelmondragon/packfinderz-simulator/pkg/logger"
	"github.com/angelmondragon/packfinderz-simulator/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubRunsService struct{}

func (stubRunsService) RunScenario(context.Context, runsvc.RunScenarioInput) (*runsvc.RunScenarioResult, error) {
	return &runsvc.RunScenarioResult{Result: &simulation.RunResult{RunID: "run_stub"}}, nil
}

func (stubRunsService) PreviewPopulation(context.Context, runsvc.PreviewPopulationInput) ([]simulation.SyntheticCustomer, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "development", Port: "8080"},
		Auth: config.AuthConfig{
			ServiceTokenSecret: "test-secret",
			ServiceTokenIssuer: "packfinderz",
		},
		RateLimit: config.RateLimitConfig{RunLimit: 60, RunWindow: time.Minute},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		testConfig(),
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubRunsService{},
	)
}

func serviceToken(t *testing.T, scopes []string) string {
	t.Helper()
	token, err := pkgAuth.MintServiceToken(testConfig().Auth, time.Now(), "test-client", scopes, time.Hour)
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if env := rec.Header().Get("X-Simulator-Env"); env != "development" {
		t.Fatalf("expected env header, got %q", env)
	}
}

func TestPublicPingNeedsNoAuth(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/public/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestSimulationRunRequiresAuth(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulations/run", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestSimulationRunWithToken(t *testing.T) {
	router := newTestRouter(t)
	body := `{
		"venue_id": "venue-1",
		"scenario": {"name": "baseline", "horizon_days": 3},
		"seed": 42,
		"start_date": "2026-06-01",
		"catalog": [{"id": "p1", "category": "flower", "price": 25, "in_stock": true}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulations/run", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+serviceToken(t, []string{"simulations:run"}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSimulationRunRejectsWrongScope(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulations/run", strings.NewReader("{}"))
	req.Header.Set("Authorization", "Bearer "+serviceToken(t, []string{"populations:preview"}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestPrivatePingEchoesClient(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+serviceToken(t, nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "test-client") {
		t.Fatalf("expected client id in body, got %s", rec.Body.String())
	}
}
