package reward

import (
	"time"

	"github.com/okian/frontline/pkg/logger"
)

// CoordinatorOption applies a configuration option to the Coordinator.
type CoordinatorOption func(*Coordinator)

// WithTopN sets how many top killers are rewarded per cycle.
func WithTopN(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.topN = n
		}
	}
}

// WithVIPDuration sets the standard reward duration.
func WithVIPDuration(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if d > 0 {
			c.vipDuration = d
		}
	}
}

// WithCooldownWindow sets the per-server cooldown window.
func WithCooldownWindow(window time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if window > 0 {
			c.cooldown = NewCooldown(window)
		}
	}
}

// WithCooldown injects a prepared cooldown gate, for tests.
func WithCooldown(cd *Cooldown) CoordinatorOption {
	return func(c *Coordinator) {
		if cd != nil {
			c.cooldown = cd
		}
	}
}

// WithClock overrides the coordinator's time source, for tests.
func WithClock(clock func() time.Time) CoordinatorOption {
	return func(c *Coordinator) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the coordinator.
func WithLogger(l logger.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// MeleeOption applies a configuration option to the Melee reactor.
type MeleeOption func(*Melee)

// WithMeleeWeapons replaces the qualifying weapon set.
func WithMeleeWeapons(weapons []string) MeleeOption {
	return func(m *Melee) {
		if len(weapons) == 0 {
			return
		}
		m.weapons = make(map[string]struct{}, len(weapons))
		for _, w := range weapons {
			m.weapons[w] = struct{}{}
		}
	}
}

// WithMeleeDuration sets the melee reward duration.
func WithMeleeDuration(d time.Duration) MeleeOption {
	return func(m *Melee) {
		if d > 0 {
			m.duration = d
		}
	}
}

// WithMeleeClock overrides the reactor's time source, for tests.
func WithMeleeClock(clock func() time.Time) MeleeOption {
	return func(m *Melee) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithMeleeLogger sets a custom logger for the reactor.
func WithMeleeLogger(l logger.Logger) MeleeOption {
	return func(m *Melee) {
		if l != nil {
			m.logger = l
		}
	}
}
