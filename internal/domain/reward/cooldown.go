package reward

import (
	"time"
)

// DefaultCooldownWindow is the minimum gap between two successful reward
// cycles for the same server.
const DefaultCooldownWindow = 300 * time.Second

// Cooldown tracks the last successful reward instant per scope (server id).
// It advances only on success, so an aborted cycle does not delay a timely
// retry. Mutated only by the coordinator's single consumer loop; no locking
// is required as long as one coordinator runs per scope.
type Cooldown struct {
	window time.Duration
	last   map[string]time.Time
}

// NewCooldown creates a Cooldown with the given window.
func NewCooldown(window time.Duration) *Cooldown {
	if window <= 0 {
		window = DefaultCooldownWindow
	}
	return &Cooldown{
		window: window,
		last:   make(map[string]time.Time),
	}
}

// Ready reports whether a new reward cycle may start for scope at now.
func (c *Cooldown) Ready(scope string, now time.Time) bool {
	last, ok := c.last[scope]
	if !ok {
		return true
	}
	return now.Sub(last) >= c.window
}

// Remaining returns how long until the scope is ready again; zero when ready.
func (c *Cooldown) Remaining(scope string, now time.Time) time.Duration {
	last, ok := c.last[scope]
	if !ok {
		return 0
	}
	remaining := c.window - now.Sub(last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// MarkSuccess records a completed reward cycle for scope.
func (c *Cooldown) MarkSuccess(scope string, now time.Time) {
	c.last[scope] = now
}
