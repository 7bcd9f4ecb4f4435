package cache

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

// waitFor polls cond with a real-time deadline. Mock-clock ticks are
// delivered to the sweep goroutine asynchronously, so assertions about
// sweep effects need a small grace window.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

// The sweep removes expired entries without any read touching them.
func TestSweep_RemovesExpiredWithoutReads(t *testing.T) {
	t.Parallel()

	clk := clock.NewMock()
	c := newTestCache(t, Config[string]{
		HardBudgetBytes: 1 << 20,
		DefaultTTL:      time.Hour,
		TTLs:            map[string]time.Duration{"short": 100 * time.Millisecond},
		SweepInterval:   50 * time.Millisecond,
		Clock:           clk,
	})

	c.Set("x", "v", "short")
	c.Set("y", "v", "short")
	c.Set("keep", "v", "") // expires in an hour

	clk.Add(200 * time.Millisecond) // past the short TTL

	// Keep ticking until the sweep pass lands; ticks can be dropped while
	// the sweep goroutine is between receives.
	waitFor(t, func() bool {
		clk.Add(50 * time.Millisecond)
		return c.Len() == 1
	})

	st := c.Stats()
	if st.Expired != 2 {
		t.Fatalf("sweep must report 2 expired entries, got %+v", st)
	}
	if _, ok := c.Get("keep"); !ok {
		t.Fatal("live entry must survive the sweep")
	}
}

// A sweep pass over a store with no expired entries removes nothing.
func TestSweep_LeavesLiveEntriesAlone(t *testing.T) {
	t.Parallel()

	clk := clock.NewMock()
	c := newTestCache(t, Config[string]{
		HardBudgetBytes: 1 << 20,
		DefaultTTL:      time.Hour,
		SweepInterval:   10 * time.Millisecond,
		Clock:           clk,
	})

	c.Set("a", "1", "")
	c.Set("b", "2", "")

	for i := 0; i < 20; i++ {
		clk.Add(10 * time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond) // let any pending pass run

	if n := c.Len(); n != 2 {
		t.Fatalf("sweep removed live entries, Len=%d", n)
	}
	if st := c.Stats(); st.Expired != 0 {
		t.Fatalf("no expiries expected, got %+v", st)
	}
}

// The derived sweep interval tracks the smallest TTL but never drops
// below the busy-work floor.
func TestConfig_DerivedSweepInterval(t *testing.T) {
	t.Parallel()

	cfg := Config[string]{
		HardBudgetBytes: 1,
		DefaultTTL:      time.Minute,
		TTLs: map[string]time.Duration{
			"short": 5 * time.Second,
			"long":  time.Hour,
		},
	}
	if got := cfg.sweepEvery(); got != 5*time.Second {
		t.Fatalf("derived interval want 5s, got %v", got)
	}

	cfg.TTLs["tiny"] = 10 * time.Millisecond
	if got := cfg.sweepEvery(); got != minSweepInterval {
		t.Fatalf("derived interval must clamp to %v, got %v", minSweepInterval, got)
	}

	cfg.SweepInterval = 250 * time.Millisecond
	if got := cfg.sweepEvery(); got != 250*time.Millisecond {
		t.Fatalf("explicit interval must win, got %v", got)
	}
}
