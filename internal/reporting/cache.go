package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/packfinderz-simulator/internal/simulation"
	"github.com/angelmondragon/packfinderz-simulator/pkg/redis"
)

type resultStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	RunResultKey(digest string) string
}

// ResultCache keeps completed run results in Redis for a bounded window so
// identical requests short-circuit without re-simulating.
type ResultCache struct {
	store resultStore
	ttl   time.Duration
}

// NewResultCache builds a cache over the shared redis client.
func NewResultCache(store *redis.Client, ttl time.Duration) (*ResultCache, error) {
	if store == nil {
		return nil, errors.New("redis client is required")
	}
	return newResultCache(store, ttl), nil
}

func newResultCache(store resultStore, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResultCache{store: store, ttl: ttl}
}

// Store writes the result under the request digest.
func (c *ResultCache) Store(ctx context.Context, digest string, result *simulation.RunResult) error {
	if result == nil {
		return errors.New("run result is required")
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding run result: %w", err)
	}
	return c.store.Set(ctx, c.store.RunResultKey(digest), string(payload), c.ttl)
}

// Fetch returns the cached result for the digest. The second return value
// reports whether the cache held an entry.
func (c *ResultCache) Fetch(ctx context.Context, digest string) (*simulation.RunResult, bool, error) {
	payload, err := c.store.Get(ctx, c.store.RunResultKey(digest))
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading run result: %w", err)
	}

	var result simulation.RunResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		// A corrupt entry behaves like a miss; the run will overwrite it.
		return nil, false, nil
	}
	return &result, true, nil
}
