// Package cache provides a bounded, in-process store for values that are
// expensive to recompute or fetch: derived data, rendered fragments,
// remote responses. Entries expire per logical category, recency is
// tracked on every read, and the total approximate size never exceeds a
// configured hard budget.
//
// Design
//
//   - Storage: one map[string]*node for lookups plus an intrusive MRU↔LRU
//     doubly linked list for ordering. All operations are O(1) expected,
//     except budget enforcement and the sweep, which are O(removed).
//
//   - Concurrency: a single mutex guards the map, the list, the size sum,
//     and the counters. Operations are short and purely in-memory, so one
//     exclusive critical section is both sufficient and what makes Stats
//     snapshots consistent with the entry set.
//
//   - TTL: each category maps to a lifetime; unknown categories fall back
//     to DefaultTTL. Expiry is lazy on read, with a periodic background
//     sweep as a backstop for keys that are never read again.
//
//   - Budget: entry sizes come from a pluggable Sizer (DefaultSizer
//     serializes to JSON and doubles the length). After every Set, if the
//     sum exceeds the hard budget, expired entries are reclaimed and then
//     least-recently-used entries are evicted down to a soft target at
//     80% of the budget.
//
//   - GetOrLoad: coalesces concurrent loads for the same key using
//     golang.org/x/sync/singleflight. If Loader is nil, GetOrLoad returns
//     ErrNoLoader.
//
//   - Metrics: Config.Metrics receives Hit/Miss/Evict/Size signals;
//     NoopMetrics is the default. A Prometheus adapter lives in
//     metrics/prom.
//
// Basic usage
//
//	c, err := cache.New[[]byte](cache.Config[[]byte]{
//	    HardBudgetBytes: 64 << 20,
//	    DefaultTTL:      5 * time.Minute,
//	    TTLs: map[string]time.Duration{
//	        "fragment": 30 * time.Second,
//	        "remote":   2 * time.Minute,
//	    },
//	})
//	if err != nil {
//	    // misconfigured budget/TTL/interval
//	}
//	defer c.Shutdown()
//
//	c.Set("page:1", rendered, "fragment")
//	if v, ok := c.Get("page:1"); ok {
//	    _ = v
//	}
//
// With GetOrLoad
//
//	c, _ := cache.New[string](cache.Config[string]{
//	    HardBudgetBytes: 1 << 20,
//	    DefaultTTL:      time.Minute,
//	    Loader: func(ctx context.Context, key string) (string, error) {
//	        return expensiveCompute(ctx, key)
//	    },
//	})
//	v, err := c.GetOrLoad(ctx, "report:42", "remote")
//
// Deterministic tests
//
// Config.Clock accepts a github.com/benbjohnson/clock Clock; pass
// clock.NewMock() and advance it instead of sleeping.
package cache
