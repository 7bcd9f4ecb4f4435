package cache

import "context"

// Cache is a bounded, in-process store for expensive-to-recompute values.
// All methods are safe for concurrent use by multiple goroutines.
//
// Entries carry a category tag selecting a TTL policy and an approximate
// byte size charged against a global hard budget. When the budget is
// exceeded, the least-recently-accessed entries are evicted synchronously
// before Set returns.
type Cache[V any] interface {
	// Set inserts or replaces key→value. The category selects the entry's
	// TTL from the configured table; an unknown or empty category falls
	// back to DefaultTTL. Set always succeeds: an entry larger than the
	// whole budget is inserted and then immediately evicted by the same
	// enforcement pass.
	Set(key string, value V, category string)

	// Get returns the value for key and a presence flag.
	// An expired entry is a miss: it is removed on the spot (lazy expiry)
	// and reported absent even if the background sweep has not run yet.
	// On a hit the entry's recency is refreshed.
	Get(key string) (V, bool)

	// GetOrLoad returns the value for key, loading it via Config.Loader on
	// miss and storing the result under the given category. Concurrent
	// loads for the same key are coalesced (singleflight). If no Loader
	// was configured, returns ErrNoLoader.
	GetOrLoad(ctx context.Context, key, category string) (V, error)

	// Remove deletes key if present and returns true on success.
	Remove(key string) bool

	// Len returns the number of resident entries, including entries that
	// have expired but have not been swept yet.
	Len() int

	// Stats returns a snapshot of the counters and current size. The
	// snapshot is taken under the store lock, so all fields describe a
	// single consistent point in time.
	Stats() Stats

	// Clear removes all entries and resets the size to zero. Cumulative
	// counters (hits, misses, insertions, evictions) are preserved.
	Clear()

	// Shutdown stops the background sweep and marks the cache closed.
	// Subsequent Set/Get calls are cheap no-ops. Safe to call twice.
	Shutdown() error
}
