package prom

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yeonjeman0-crypto/boundedcache/cache"
)

func TestAdapter_Signals(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := New(reg, "test", "cache", nil)

	a.Hit()
	a.Hit()
	a.Miss()
	a.Evict(cache.EvictCapacity)
	a.Evict(cache.EvictExpired)
	a.Size(3, 4096)

	if got := testutil.ToFloat64(a.hits); got != 2 {
		t.Fatalf("hits want 2, got %v", got)
	}
	if got := testutil.ToFloat64(a.misses); got != 1 {
		t.Fatalf("misses want 1, got %v", got)
	}
	if got := testutil.ToFloat64(a.evicts.WithLabelValues("capacity")); got != 1 {
		t.Fatalf("capacity evictions want 1, got %v", got)
	}
	if got := testutil.ToFloat64(a.evicts.WithLabelValues("expired")); got != 1 {
		t.Fatalf("expired evictions want 1, got %v", got)
	}
	if got := testutil.ToFloat64(a.sizeEnt); got != 3 {
		t.Fatalf("size_entries want 3, got %v", got)
	}
	if got := testutil.ToFloat64(a.sizeBytes); got != 4096 {
		t.Fatalf("size_bytes want 4096, got %v", got)
	}
}

// End-to-end: a cache wired to the adapter drives the exported series.
func TestAdapter_WiredToCache(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := New(reg, "test", "wired", nil)

	c, err := cache.New(cache.Config[string]{
		HardBudgetBytes: 1 << 20,
		DefaultTTL:      time.Minute,
		Metrics:         a,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Shutdown() })

	c.Set("a", "1", "")
	c.Get("a")
	c.Get("missing")

	if got := testutil.ToFloat64(a.hits); got != 1 {
		t.Fatalf("hits want 1, got %v", got)
	}
	if got := testutil.ToFloat64(a.misses); got != 1 {
		t.Fatalf("misses want 1, got %v", got)
	}
	if got := testutil.ToFloat64(a.sizeEnt); got != 1 {
		t.Fatalf("size_entries want 1, got %v", got)
	}
}
