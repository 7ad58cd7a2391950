// Package dedup drops payloads already seen within a TTL. The broker
// redelivers QoS 1 messages after reconnects; hashing the payload and
// remembering it briefly keeps redeliveries out of the pipeline.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

type Deduper struct {
	mu      sync.Mutex
	ttl     time.Duration
	cap     int
	expires map[string]time.Time
}

func New(ttl time.Duration, capacity int) *Deduper {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if capacity <= 0 {
		capacity = 10000
	}
	return &Deduper{
		ttl:     ttl,
		cap:     capacity,
		expires: make(map[string]time.Time, capacity),
	}
}

// Seen reports whether an identical topic+payload pair was already
// accepted within the TTL. A fresh pair is recorded and reported as
// unseen. The topic is part of the identity: two zones publishing
// byte-identical payloads are distinct deliveries, not a redelivery.
func (d *Deduper) Seen(topic string, payload []byte) bool {
	h := sha256.New()
	h.Write([]byte(topic))
	h.Write([]byte{0})
	h.Write(payload)
	id := hex.EncodeToString(h.Sum(nil))

	now := time.Now()
	d.mu.Lock()
	defer d.mu.Unlock()

	if exp, ok := d.expires[id]; ok && now.Before(exp) {
		return true
	}
	d.expires[id] = now.Add(d.ttl)
	if len(d.expires) > d.cap {
		d.evictLocked(now)
	}
	return false
}

// evictLocked first drops expired entries, then arbitrary ones if the
// map is still over capacity. Callers hold d.mu.
func (d *Deduper) evictLocked(now time.Time) {
	for id, exp := range d.expires {
		if now.After(exp) {
			delete(d.expires, id)
		}
	}
	for id := range d.expires {
		if len(d.expires) <= d.cap {
			return
		}
		delete(d.expires, id)
	}
}
