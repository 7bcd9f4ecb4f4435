package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrNoLoader is returned by GetOrLoad when no Loader was configured.
var ErrNoLoader = errors.New("cache: no Loader provided")

// store is the single-lock implementation of Cache: a map for lookups plus
// an intrusive MRU↔LRU doubly linked list for recency ordering. One mutex
// guards the map, the list, the size sum, and all counters, so a Stats
// snapshot is always consistent with the entry set. Operations are short
// and purely in-memory; there is nothing to win from finer locking.
type store[V any] struct {
	// ---- guarded by mu ----
	mu   sync.Mutex
	m    map[string]*node[V]
	head *node[V] // MRU
	tail *node[V] // LRU
	size int64    // sum of resident entry sizes

	hits     uint64
	misses   uint64
	inserts  uint64
	evicts   uint64
	expireds uint64

	// ---- immutable after New ----
	budget int64 // hard ceiling
	soft   int64 // eviction target, softBudgetPercent of budget
	opt    Config[V]
	log    *zap.Logger
	clk    clock.Clock

	closed atomic.Bool
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// coalesces concurrent loads in GetOrLoad.
	sf singleflight.Group
}

// New constructs a cache from the given Config and starts the background
// expiry sweep. Misconfiguration (non-positive budget or TTL, negative
// sweep interval) is rejected here, before any goroutine starts.
func New[V any](cfg Config[V]) (Cache[V], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Sizer == nil {
		cfg.Sizer = DefaultSizer[V]
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NoopMetrics{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &store[V]{
		m:      make(map[string]*node[V]),
		budget: cfg.HardBudgetBytes,
		soft:   cfg.HardBudgetBytes * softBudgetPercent / 100,
		opt:    cfg,
		log:    cfg.Logger,
		clk:    cfg.Clock,
		cancel: cancel,
	}

	c.wg.Add(1)
	go c.sweepLoop(ctx, cfg.sweepEvery())

	c.log.Debug("cache constructed",
		zap.Int64("hard_budget_bytes", c.budget),
		zap.Int64("soft_target_bytes", c.soft),
		zap.Duration("sweep_interval", cfg.sweepEvery()),
		zap.Int("categories", len(cfg.TTLs)))
	return c, nil
}

// ---- Cache[V] implementation ----

// Set inserts or replaces key→value and enforces the byte budget before
// returning. Replacement recomputes size, expiry, and recency; nothing of
// the prior entry survives.
func (c *store[V]) Set(key string, value V, category string) {
	if c.closed.Load() {
		return
	}
	size := c.sizeOf(value)
	ttl := c.opt.ttlFor(category)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clk.Now().UnixNano()
	exp := now + int64(ttl)

	if n, ok := c.m[key]; ok {
		c.size += size - n.size
		n.val = value
		n.size = size
		n.exp = exp
		n.touch(now)
		c.moveToFront(n)
	} else {
		n := &node[V]{key: key, val: value, size: size, exp: exp, used: now}
		c.m[key] = n
		c.pushFront(n)
		c.size += size
	}
	c.inserts++

	c.enforceBudgetLocked(now)
	c.opt.Metrics.Size(len(c.m), c.size)
}

// Get returns the value for key. Expiry is checked lazily here, so a stale
// entry is reported absent (and removed) even when the sweep is behind.
func (c *store[V]) Get(key string) (V, bool) {
	var zero V
	if c.closed.Load() {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.m[key]
	if !ok {
		c.misses++
		c.opt.Metrics.Miss()
		return zero, false
	}
	now := c.clk.Now().UnixNano()
	if n.expired(now) {
		c.removeLocked(n, EvictExpired)
		c.opt.Metrics.Size(len(c.m), c.size)
		c.misses++
		c.opt.Metrics.Miss()
		return zero, false
	}

	n.touch(now)
	c.moveToFront(n)
	c.hits++
	c.opt.Metrics.Hit()
	return n.val, true
}

// GetOrLoad implements the check-then-recompute-then-store contract for
// demand-driven callers: Get first, fall back to the Loader, Set the
// result. Concurrent loads for the same key run the Loader once.
//
// ctx cancellation unblocks only the waiting caller; it does not stop an
// in-flight load. A Loader that must honor cancellation should watch the
// ctx it receives.
func (c *store[V]) GetOrLoad(ctx context.Context, key, category string) (V, error) {
	var zero V
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	if c.opt.Loader == nil {
		return zero, ErrNoLoader
	}

	ch := c.sf.DoChan(key, func() (any, error) {
		// Double-check after winning the flight.
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := c.opt.Loader(ctx, key)
		if err != nil {
			return nil, err
		}
		c.Set(key, v, category)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Remove deletes key if present and returns true on success.
// Explicit removal is counted neither as an eviction nor as an expiry.
func (c *store[V]) Remove(key string) bool {
	if c.closed.Load() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.m[key]
	if !ok {
		return false
	}
	c.unlink(n)
	delete(c.m, key)
	c.chargeRemovalLocked(n)
	c.opt.Metrics.Size(len(c.m), c.size)
	return true
}

// Len returns the number of resident entries.
func (c *store[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Stats returns a consistent snapshot of counters and current size.
func (c *store[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:       c.hits,
		Misses:     c.misses,
		Insertions: c.inserts,
		Evictions:  c.evicts,
		Expired:    c.expireds,
		EntryCount: len(c.m),
		SizeBytes:  c.size,
	}
}

// Clear drops every entry and resets the size sum. Cumulative counters are
// left alone so hit-rate history survives an invalidation.
func (c *store[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.m = make(map[string]*node[V])
	c.head, c.tail = nil, nil
	c.size = 0
	c.opt.Metrics.Size(0, 0)
}

// Shutdown cancels the sweep and waits for it to exit. Idempotent.
func (c *store[V]) Shutdown() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.cancel()
	c.wg.Wait()
	c.log.Debug("cache shut down")
	return nil
}

// ---- internals (mu held) ----

// enforceBudgetLocked brings the store back under budget after a Set.
// Expired entries are reclaimed first so live keys keep their LRU
// standing; then LRU tails are evicted until the size reaches the soft
// target (or the store empties). Running to the soft target rather than
// the hard limit keeps a full store from evicting on every insertion.
func (c *store[V]) enforceBudgetLocked(now int64) {
	if c.size <= c.budget {
		return
	}
	c.removeExpiredLocked(now)
	for c.size > c.soft {
		tail := c.tail
		if tail == nil {
			break
		}
		c.removeLocked(tail, EvictCapacity)
	}
}

// removeExpiredLocked deletes every entry whose deadline has passed and
// returns how many were removed.
func (c *store[V]) removeExpiredLocked(now int64) int {
	removed := 0
	for _, n := range c.m {
		if n.expired(now) {
			c.removeLocked(n, EvictExpired)
			removed++
		}
	}
	return removed
}

// removeLocked unlinks and deletes a node, updating counters and firing
// the eviction hooks.
func (c *store[V]) removeLocked(n *node[V], reason EvictReason) {
	c.unlink(n)
	delete(c.m, n.key)
	c.chargeRemovalLocked(n)

	switch reason {
	case EvictExpired:
		c.expireds++
	default:
		c.evicts++
	}
	c.opt.Metrics.Evict(reason)
	if cb := c.opt.OnEvict; cb != nil {
		// Called under the lock; callbacks must not touch the cache.
		cb(n.key, n.val, reason)
	}
}

// chargeRemovalLocked subtracts a node's size from the running sum.
// A negative sum means the bookkeeping drifted; rebuild it from a full
// rescan instead of clamping and drifting further.
func (c *store[V]) chargeRemovalLocked(n *node[V]) {
	c.size -= n.size
	if c.size < 0 {
		c.log.Warn("size accounting went negative, rebuilding from rescan",
			zap.Int64("size", c.size))
		c.rebuildSizeLocked()
	}
}

func (c *store[V]) rebuildSizeLocked() {
	var total int64
	for _, n := range c.m {
		total += n.size
	}
	c.size = total
}

// pushFront inserts n at MRU in O(1).
func (c *store[V]) pushFront(n *node[V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

// moveToFront promotes n to MRU in O(1).
func (c *store[V]) moveToFront(n *node[V]) {
	if n == c.head {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

// unlink detaches n from the list in O(1).
func (c *store[V]) unlink(n *node[V]) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if c.head == n {
		c.head = n.next
	}
	if c.tail == n {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

// sizeOf runs the configured estimator, clamping negatives to zero so a
// misbehaving Sizer cannot corrupt the budget accounting.
func (c *store[V]) sizeOf(v V) int64 {
	s := c.opt.Sizer(v)
	if s < 0 {
		s = 0
	}
	return int64(s)
}
