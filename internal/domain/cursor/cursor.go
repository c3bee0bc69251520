// Package cursor tracks the per-stream ingestion watermark.
//
// Each poller owns exactly one Cursor; cursors are never shared across
// categories, so one stream's advancement cannot hide another stream's
// events.
package cursor

import (
	"sync"
	"time"
)

// Cursor is a monotonically non-decreasing watermark. It advances only to the
// event time of the most recently published event of its stream.
type Cursor struct {
	mu    sync.Mutex
	after time.Time
}

// New creates a Cursor starting at the given instant.
func New(start time.Time) *Cursor {
	return &Cursor{after: start.UTC()}
}

// After returns the current watermark.
func (c *Cursor) After() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.after
}

// Advance moves the watermark forward to t. It reports whether the cursor
// moved; a t at or before the current watermark leaves it untouched.
func (c *Cursor) Advance(t time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	t = t.UTC()
	if !t.After(c.after) {
		return false
	}
	c.after = t
	return true
}
