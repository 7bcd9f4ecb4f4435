package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// softBudgetPercent is the eviction target relative to the hard budget.
// Evicting below the hard limit gives head-room so a store sitting right
// at the limit does not evict on every single insertion.
const softBudgetPercent = 80

// minSweepInterval is the floor for the derived sweep interval, so a very
// small TTL does not turn the sweep into busy work.
const minSweepInterval = time.Second

// Config describes a cache at construction time. It is validated once by
// New and never mutated afterwards. Zero values are safe for the optional
// fields; defaults are applied in New:
//   - nil Sizer   => DefaultSizer
//   - nil Metrics => NoopMetrics
//   - nil Logger  => zap.NewNop()
//   - nil Clock   => clock.New() (wall clock)
type Config[V any] struct {
	// HardBudgetBytes is the ceiling for the sum of all resident entry
	// sizes. Must be positive. Immediately after any Set the total never
	// exceeds it.
	HardBudgetBytes int64

	// TTLs maps a category name to the lifetime of entries set under it.
	// Every listed duration must be positive.
	TTLs map[string]time.Duration

	// DefaultTTL applies to entries whose category is empty or not listed
	// in TTLs. Must be positive.
	DefaultTTL time.Duration

	// SweepInterval is the period of the background expiry sweep.
	// Zero derives it from the smallest configured TTL (with a 1s floor);
	// a negative value is rejected.
	SweepInterval time.Duration

	// Sizer estimates the byte footprint of a value at insertion time.
	// The estimate only needs to correlate with the actual payload size;
	// callers that know exact sizes should supply them here.
	Sizer func(v V) int

	// Loader fetches a value on cache miss. Used by GetOrLoad.
	Loader func(ctx context.Context, key string) (V, error)

	// OnEvict is called for every removed entry, under the store lock;
	// keep callbacks lightweight.
	OnEvict func(key string, v V, reason EvictReason)

	// Metrics receives hit/miss/evict/size signals.
	Metrics Metrics

	// Logger reports sweep activity and shutdown. Nil disables logging.
	Logger *zap.Logger

	// Clock overrides the time source for deadlines and the sweep ticker.
	// Tests inject clock.NewMock(); nil means the wall clock.
	Clock clock.Clock
}

// validate rejects configurations that would produce undefined runtime
// behavior. Called once by New, before the sweep goroutine starts.
func (c *Config[V]) validate() error {
	if c.HardBudgetBytes <= 0 {
		return fmt.Errorf("cache: hard budget must be positive, got %d", c.HardBudgetBytes)
	}
	if c.DefaultTTL <= 0 {
		return fmt.Errorf("cache: default TTL must be positive, got %v", c.DefaultTTL)
	}
	for cat, ttl := range c.TTLs {
		if ttl <= 0 {
			return fmt.Errorf("cache: TTL for category %q must be positive, got %v", cat, ttl)
		}
	}
	if c.SweepInterval < 0 {
		return fmt.Errorf("cache: sweep interval must not be negative, got %v", c.SweepInterval)
	}
	return nil
}

// sweepEvery resolves the effective sweep period: the configured interval,
// or the smallest TTL clamped to minSweepInterval when unset.
func (c *Config[V]) sweepEvery() time.Duration {
	if c.SweepInterval > 0 {
		return c.SweepInterval
	}
	min := c.DefaultTTL
	for _, ttl := range c.TTLs {
		if ttl < min {
			min = ttl
		}
	}
	if min < minSweepInterval {
		min = minSweepInterval
	}
	return min
}

// ttlFor returns the lifetime for a category, falling back to DefaultTTL
// for the empty or an unlisted category.
func (c *Config[V]) ttlFor(category string) time.Duration {
	if ttl, ok := c.TTLs[category]; ok {
		return ttl
	}
	return c.DefaultTTL
}
