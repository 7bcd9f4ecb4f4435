package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// sweepLoop periodically removes expired entries. The sweep is a backstop
// against write-once-read-never keys accumulating dead weight; read-time
// correctness is already guaranteed by lazy expiry in Get. The lock is
// held only for the duration of a pass, never between ticks.
func (c *store[V]) sweepLoop(ctx context.Context, every time.Duration) {
	defer c.wg.Done()

	t := c.clk.Ticker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if removed := c.sweep(); removed > 0 {
				c.log.Debug("sweep removed expired entries",
					zap.Int("removed", removed))
			}
		}
	}
}

// sweep runs one full expiry pass and returns the number of entries
// removed.
func (c *store[V]) sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clk.Now().UnixNano()
	removed := c.removeExpiredLocked(now)
	if removed > 0 {
		c.opt.Metrics.Size(len(c.m), c.size)
	}
	return removed
}
