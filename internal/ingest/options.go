package ingest

import (
	"time"

	"github.com/okian/frontline/internal/domain/cursor"
	"github.com/okian/frontline/internal/domain/dedupe"
	"github.com/okian/frontline/pkg/logger"
)

// Option applies a configuration option to the Poller.
type Option func(*Poller)

// WithInterval sets the normal tick interval.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithErrorInterval sets the elongated interval used after a failed cycle.
func WithErrorInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.errorInterval = d
		}
	}
}

// WithPageLimit sets the fetch page size.
func WithPageLimit(limit int) Option {
	return func(p *Poller) {
		if limit > 0 {
			p.pageLimit = limit
		}
	}
}

// WithCursor injects the poller's cursor, for tests or custom start points.
func WithCursor(c *cursor.Cursor) Option {
	return func(p *Poller) {
		if c != nil {
			p.cur = c
		}
	}
}

// WithSeenSet injects the poller's dedup set.
func WithSeenSet(s dedupe.SeenSet) Option {
	return func(p *Poller) {
		if s != nil {
			p.seen = s
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(p *Poller) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the poller.
func WithLogger(l logger.Logger) Option {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}
