// Command bench runs a mixed Set/Get workload against the cache and
// prints throughput plus a final stats snapshot.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/yeonjeman0-crypto/boundedcache/cache"
)

func main() {
	var (
		workers  = flag.Int("workers", 8, "concurrent workers")
		seconds  = flag.Int("seconds", 5, "run duration")
		budget   = flag.Int64("budget", 32<<20, "hard byte budget")
		keyspace = flag.Int("keyspace", 100_000, "distinct keys")
		readsPct = flag.Int("reads", 90, "percentage of reads in the mix")
	)
	flag.Parse()

	c, err := cache.New(cache.Config[string]{
		HardBudgetBytes: *budget,
		DefaultTTL:      time.Minute,
		TTLs: map[string]time.Duration{
			"short": 5 * time.Second,
		},
		Sizer: func(v string) int { return len(v) },
	})
	if err != nil {
		panic(err)
	}
	defer func() { _ = c.Shutdown() }()

	value := string(make([]byte, 256))
	deadline := time.Now().Add(time.Duration(*seconds) * time.Second)

	var (
		wg  sync.WaitGroup
		ops = make([]int64, *workers)
	)
	wg.Add(*workers)
	start := time.Now()
	for w := 0; w < *workers; w++ {
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(int64(id) + 1))
			for time.Now().Before(deadline) {
				k := "k:" + strconv.Itoa(r.Intn(*keyspace))
				if r.Intn(100) < *readsPct {
					c.Get(k)
				} else {
					c.Set(k, value, "short")
				}
				ops[id]++
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	var total int64
	for _, n := range ops {
		total += n
	}
	st := c.Stats()
	fmt.Printf("ops=%d (%.0f op/s) over %v\n", total, float64(total)/elapsed.Seconds(), elapsed.Round(time.Millisecond))
	fmt.Printf("entries=%d size=%dB hits=%d misses=%d hitRate=%.3f evictions=%d expired=%d\n",
		st.EntryCount, st.SizeBytes, st.Hits, st.Misses, st.HitRate(), st.Evictions, st.Expired)
}
