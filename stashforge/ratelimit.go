package stashforge

import (
	"sync"
	"time"
)

// submitLimiter enforces the per-player submission cooldown. Gate entries are
// kept for the life of the process with no expiry sweep. Mutual exclusion is
// per player, not global, so unrelated players never contend.
type submitLimiter struct {
	cooldown time.Duration
	now      func() time.Time
	gates    sync.Map // userID -> *submitGate
}

type submitGate struct {
	mu   sync.Mutex
	last time.Time
}

func newSubmitLimiter(cooldown time.Duration) *submitLimiter {
	return &submitLimiter{
		cooldown: cooldown,
		now:      time.Now,
	}
}

// CheckAndRecord reports whether the player may submit now. An accepted
// attempt is recorded immediately, before any validation runs, so a
// submission that later fails validation still spends the cooldown. A
// rejected attempt leaves the recorded time untouched; the player may retry
// as soon as the cooldown from their last accepted attempt elapses.
func (l *submitLimiter) CheckAndRecord(userID string) bool {
	g, _ := l.gates.LoadOrStore(userID, &submitGate{})
	gate := g.(*submitGate)

	gate.mu.Lock()
	defer gate.mu.Unlock()

	now := l.now()
	if !gate.last.IsZero() && now.Sub(gate.last) < l.cooldown {
		return false
	}
	gate.last = now
	return true
}
