// Package throttle bounds credential-guessing on the login endpoint
// with a per-key sliding-window attempt counter. State is in-memory
// only; a process restart clears it.
package throttle

import (
	"strings"
	"sync"
	"time"
)

// Key normalizes a submitted login identifier into a throttle key.
// Throttling is keyed by the targeted account, not the source address,
// so a single attacked account is locked down without letting one
// attacker burn the budget of unrelated accounts.
func Key(loginIdentifier string) string {
	return strings.ToLower(strings.TrimSpace(loginIdentifier))
}

// LoginThrottle counts attempts per key within a trailing window and
// refuses further attempts once the maximum is reached. All methods
// are safe for concurrent use; two simultaneous attempts on the same
// key cannot both be admitted into the last remaining slot.
type LoginThrottle struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time
}

func New(maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{
		attempts: make(map[string][]time.Time),
		max:      maxAttempts,
		window:   window,
		now:      time.Now,
	}
}

// Allow records one attempt for key and reports whether it is admitted.
// Attempts older than the window are pruned first; at or above the
// maximum the attempt is refused without being recorded, so a blocked
// key unblocks itself once its window drains.
func (t *LoginThrottle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	kept := t.attempts[key][:0]
	for _, ts := range t.attempts[key] {
		if now.Sub(ts) < t.window {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= t.max {
		t.attempts[key] = kept
		return false
	}

	t.attempts[key] = append(kept, now)
	return true
}

// Reset drops all recorded attempts for key, unblocking it immediately.
func (t *LoginThrottle) Reset(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.attempts, key)
}

// ClearAll drops the attempt state for every key.
func (t *LoginThrottle) ClearAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attempts = make(map[string][]time.Time)
}
