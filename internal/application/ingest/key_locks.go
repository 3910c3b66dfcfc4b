package ingest

import (
	"hash/fnv"
	"sync"
)

// keyLocks serializes writers of the same record key. Webhook deliveries and
// sync pages can carry the same record concurrently; without this, two
// lookup-then-write upserts could interleave and both report Created.
// Striping bounds memory: unrelated keys may share a stripe, which only
// costs a little contention.
type keyLocks struct {
	stripes []sync.Mutex
}

func newKeyLocks(stripeCount int) *keyLocks {
	if stripeCount <= 0 {
		stripeCount = 64
	}
	return &keyLocks{stripes: make([]sync.Mutex, stripeCount)}
}

// lock acquires the stripe covering key and returns its unlock func
func (l *keyLocks) lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	stripe := &l.stripes[h.Sum32()%uint32(len(l.stripes))]
	stripe.Lock()
	return stripe.Unlock
}
