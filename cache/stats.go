package cache

// Stats is a read-only snapshot of the cache counters, taken under the
// store lock so all fields describe the same instant.
//
// Hits/Misses/Insertions/Evictions/Expired are cumulative over the cache
// lifetime and survive Clear; EntryCount and SizeBytes describe the
// current resident set.
type Stats struct {
	Hits       uint64
	Misses     uint64
	Insertions uint64
	// Evictions counts entries removed to satisfy the byte budget.
	Evictions uint64
	// Expired counts entries removed because their TTL passed, whether by
	// lazy expiry on read or by the periodic sweep.
	Expired uint64

	EntryCount int
	SizeBytes  int64
}

// HitRate returns hits / (hits + misses), or 0 when no lookups happened.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
