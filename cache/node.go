package cache

// node is an intrusive doubly linked list element owned by the store.
// The list encodes recency: head is the most recently used entry, tail the
// least. Because every Set and every hit moves a node to the head, list
// order also breaks last-access ties deterministically — among entries
// touched at the same instant, the one linked in earlier sits closer to
// the tail and is evicted first.
type node[V any] struct {
	key string
	val V

	prev *node[V]
	next *node[V]

	// size is the approximate byte footprint charged against the budget,
	// computed once at insertion and never on access.
	size int64

	// exp is the absolute expiration deadline in UnixNano.
	exp int64

	// used is the last successful read (or insertion) in UnixNano.
	used int64
}

// expired reports whether the entry is logically absent at the given time.
// The deadline itself counts as expired: a read at exactly insertion+TTL
// is a miss.
func (n *node[V]) expired(now int64) bool { return now >= n.exp }

// touch records a successful access. The stamp never moves backwards,
// even if the clock does.
func (n *node[V]) touch(now int64) {
	if now > n.used {
		n.used = now
	}
}
