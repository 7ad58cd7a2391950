package alerting

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultCooldown is the minimum time between two stored alerts sharing
// the same alert key.
const DefaultCooldown = time.Hour

// Registry tracks the last emission time per alert key. It is
// process-wide shared state with process lifetime: seeded empty at
// startup, never persisted.
//
// Acquire is the single atomic check-and-touch used by the aggregator.
// Sweep removes entries with the same age comparison Acquire uses, so a
// key that is still suppressing is never evicted.
type Registry struct {
	mu       sync.Mutex
	cooldown time.Duration
	last     map[string]time.Time
	now      func() time.Time
}

func NewRegistry(cooldown time.Duration) *Registry {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Registry{
		cooldown: cooldown,
		last:     make(map[string]time.Time),
		now:      time.Now,
	}
}

// Acquire reports whether an alert for key may be emitted now. On true
// the emission time is recorded; on false the existing entry is left
// untouched, so suppressed duplicates do not extend the window.
func (r *Registry) Acquire(key string) bool {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.last[key]; ok && now.Sub(t) < r.cooldown {
		return false
	}
	r.last[key] = now
	return true
}

// Sweep drops entries whose age meets or exceeds the cooldown and returns
// how many were removed. Eviction is memory hygiene only; correctness is
// carried by Acquire.
func (r *Registry) Sweep() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for key, t := range r.last {
		if now.Sub(t) >= r.cooldown {
			delete(r.last, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.last)
}

// Run sweeps at the given interval until ctx is done. The interval is
// independent of per-reading processing.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = r.cooldown
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Printf("alerting: cooldown sweep evicted %d expired key(s)", n)
			}
		}
	}
}
