// Package dedupe defines the interface for idempotency tracking.
package dedupe

import "time"

// Option applies a configuration option to the SeenSet.
type Option func(*lruSet)

// WithMaxSize sets the maximum number of IDs kept in memory.
func WithMaxSize(maxSize int) Option {
	return func(s *lruSet) {
		if maxSize > 0 {
			s.maxSize = maxSize
		}
	}
}

// WithTTL sets the retention horizon for recorded IDs. It must exceed the
// largest re-delivery window of the source API.
func WithTTL(ttl time.Duration) Option {
	return func(s *lruSet) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *lruSet) {
		if clock != nil {
			s.clock = clock
		}
	}
}
