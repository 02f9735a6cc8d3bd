package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/packfinderz-simulator/api/responses"
	pkgAuth "github.com/angelmondragon/packfinderz-simulator/pkg/auth"
	"github.com/angelmondragon/packfinderz-simulator/pkg/config"
	pkgerrors "github.com/angelmondragon/packfinderz-simulator/pkg/errors"
	"github.com/angelmondragon/packfinderz-simulator/pkg/logger"
)

// ServiceAuth validates a bearer service token and seeds the request context
// with the caller's identity.
func ServiceAuth(cfg config.AuthConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseServiceToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.ClientID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing client id"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxClientID, claims.ClientID)
			if len(claims.Scopes) > 0 {
				ctx = context.WithValue(ctx, ctxScopes, claims.Scopes)
			}

			if logg != nil {
				ctx = logg.WithField(ctx, "client_id", claims.ClientID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireScope rejects callers whose token lacks the named scope.
func RequireScope(scope string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scopes := ScopesFromContext(r.Context())
			if len(scopes) == 0 {
				// Scope-less tokens carry full access.
				next.ServeHTTP(w, r)
				return
			}
			for _, s := range scopes {
				if s == scope {
					next.ServeHTTP(w, r)
					return
				}
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "insufficient scope"))
		})
	}
}
