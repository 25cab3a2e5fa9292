// Package ratelimit throttles email-sending endpoints per recipient.
package ratelimit

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Keyed hands out one token bucket per key. Keys are compared
// case-insensitively.
type Keyed struct {
	limit rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// PerMinute allows n events per key and minute, all of which may be spent
// at once.
func PerMinute(n int) *Keyed {
	return &Keyed{
		limit:   rate.Every(time.Minute / time.Duration(n)),
		burst:   n,
		idle:    10 * time.Minute,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Allow reports whether another event for key may happen now.
func (k *Keyed) Allow(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	now := k.now()

	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Prune forgets keys idle for longer than the refill window.
func (k *Keyed) Prune() int {
	now := k.now()

	k.mu.Lock()
	defer k.mu.Unlock()

	n := 0
	for key, e := range k.entries {
		if now.Sub(e.lastSeen) > k.idle {
			delete(k.entries, key)
			n++
		}
	}
	return n
}
