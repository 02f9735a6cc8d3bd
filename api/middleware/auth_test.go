package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/packfinderz-simulator/pkg/auth"
	"github.com/angelmondragon/packfinderz-simulator/pkg/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		ServiceTokenSecret: "test-secret",
		ServiceTokenIssuer: "packfinderz",
	}
}

func mintTestToken(t *testing.T, cfg config.AuthConfig, clientID string, scopes []string) string {
	t.Helper()
	token, err := auth.MintServiceToken(cfg, time.Now(), clientID, scopes, time.Hour)
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func TestServiceAuthRejectsMissingToken(t *testing.T) {
	handler := ServiceAuth(testAuthConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestServiceAuthRejectsInvalidToken(t *testing.T) {
	handler := ServiceAuth(testAuthConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestServiceAuthRejectsWrongIssuer(t *testing.T) {
	cfg := testAuthConfig()
	otherIssuer := cfg
	otherIssuer.ServiceTokenIssuer = "someone-else"
	token := mintTestToken(t, otherIssuer, "marketplace", nil)

	handler := ServiceAuth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestServiceAuthAllowsValidToken(t *testing.T) {
	cfg := testAuthConfig()
	token := mintTestToken(t, cfg, "marketplace", []string{"simulations:run"})

	var captured struct {
		clientID string
		scopes   []string
	}
	handler := ServiceAuth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.clientID = ClientIDFromContext(r.Context())
		captured.scopes = ScopesFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.clientID != "marketplace" {
		t.Fatalf("expected client id marketplace got %q", captured.clientID)
	}
	if len(captured.scopes) != 1 || captured.scopes[0] != "simulations:run" {
		t.Fatalf("unexpected scopes %v", captured.scopes)
	}
}

func TestRequireScopeBlocksMissingScope(t *testing.T) {
	cfg := testAuthConfig()
	token := mintTestToken(t, cfg, "dashboard", []string{"populations:preview"})

	handler := ServiceAuth(cfg, nil)(
		RequireScope("simulations:run", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})),
	)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRequireScopeAllowsScopelessToken(t *testing.T) {
	cfg := testAuthConfig()
	token := mintTestToken(t, cfg, "ops-cli", nil)

	handler := ServiceAuth(cfg, nil)(
		RequireScope("simulations:run", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})),
	)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
