package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/packfinderz-simulator/api/responses"
	pkgerrors "github.com/angelmondragon/packfinderz-simulator/pkg/errors"
	"github.com/angelmondragon/packfinderz-simulator/pkg/logger"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimit caps how many requests each calling service may make per window.
// Simulation runs are CPU-heavy, so the limit is enforced per client rather
// than per IP.
func RateLimit(scope string, limit int64, window time.Duration, store rateLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil || limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := scope
			if clientID := ClientIDFromContext(r.Context()); clientID != "" {
				key = scope + ":" + clientID
			}

			allowed, _, err := store.FixedWindowAllow(r.Context(), key, limit, window)
			if err != nil {
				// Rate limiting is advisory; a broken counter must not block runs.
				if logg != nil {
					logg.Warn(r.Context(), "rate limit check failed, allowing request")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "rate_limit_scope", key), "rate_limit.blocked")
				}
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
