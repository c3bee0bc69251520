// Package dedupe defines the interface for idempotency tracking.
package dedupe

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// SeenSet records published event IDs to guarantee at-most-once publishing
// per process lifetime. Implementations must be safe for concurrent use.
type SeenSet interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen set, allowing it to be retried.
	// Used when an event was recorded but its publish failed.
	Unrecord(ctx context.Context, id string)

	Size() int

	// SweepExpired drops every entry older than the TTL and reports how many
	// were removed. Pollers call it between ticks to keep memory bounded even
	// on quiet streams.
	SweepExpired() int
}

// entry is one tracked ID with its expiry instant.
type entry struct {
	id  string
	exp time.Time
}

// lruSet implements SeenSet as an LRU list plus index map, bounded both by
// size and by TTL. The TTL is an idle horizon, renewed on every sighting: an
// entry expires only after the source has stopped re-delivering its ID for a
// full TTL, never while re-delivery is still ongoing.
type lruSet struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	clock   func() time.Time
	order   *list.List               // most recently recorded at front
	index   map[string]*list.Element // id -> element in order
}

// Default retention bounds. 10k IDs comfortably covers the source's page
// overlap at the configured poll cadence.
const (
	defaultMaxSize = 10_000
	defaultTTL     = time.Hour
)

// New creates a bounded SeenSet with configuration options.
func New(opts ...Option) SeenSet {
	s := &lruSet{
		maxSize: defaultMaxSize,
		ttl:     defaultTTL,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.order = list.New()
	s.index = make(map[string]*list.Element, s.maxSize)
	return s
}

// SeenAndRecord atomically checks if id was seen and records it if not.
// Every sighting refreshes the entry's expiry: an ID ages out only once the
// source has stopped re-delivering it for a full TTL, so the boundary event a
// cursor keeps re-fetching stays deduplicated indefinitely.
func (s *lruSet) SeenAndRecord(_ context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	if el, ok := s.index[id]; ok {
		if now.Before(el.Value.(entry).exp) {
			el.Value = entry{id: id, exp: now.Add(s.ttl)}
			s.order.MoveToFront(el)
			return true
		}
		// Expired entry: treat as unseen and re-record below.
		s.order.Remove(el)
		delete(s.index, id)
	}

	s.index[id] = s.order.PushFront(entry{id: id, exp: now.Add(s.ttl)})
	s.evictLocked(now)
	return false
}

// Unrecord removes an ID from the seen set.
func (s *lruSet) Unrecord(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.index[id]; ok {
		s.order.Remove(el)
		delete(s.index, id)
	}
}

// Size returns the number of tracked IDs, expired entries included.
func (s *lruSet) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.index)
}

// SweepExpired drops all entries past their TTL.
func (s *lruSet) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	removed := 0
	for el := s.order.Back(); el != nil; {
		en := el.Value.(entry)
		prev := el.Prev()
		if now.Before(en.exp) {
			// The tail is the oldest entry; everything in front of a live
			// tail entry is not guaranteed ordered by expiry after
			// MoveToFront touches, so walk the whole list.
			el = prev
			continue
		}
		s.order.Remove(el)
		delete(s.index, en.id)
		removed++
		el = prev
	}
	return removed
}

// evictLocked enforces the size bound, dropping least recently recorded IDs.
// Must be called with s.mu held.
func (s *lruSet) evictLocked(now time.Time) {
	for s.order.Len() > s.maxSize {
		tail := s.order.Back()
		if tail == nil {
			return
		}
		s.order.Remove(tail)
		delete(s.index, tail.Value.(entry).id)
	}
	// Opportunistically clear expired entries sitting at the tail.
	for {
		tail := s.order.Back()
		if tail == nil || now.Before(tail.Value.(entry).exp) {
			return
		}
		s.order.Remove(tail)
		delete(s.index, tail.Value.(entry).id)
	}
}
