// Package ingest implements the cursor-driven polling pipeline: fetch,
// dedupe, order, publish, advance.
//
// One Poller runs per event category on its own cadence, owning its own
// Cursor and SeenSet, so a slow or failing stream never stalls another.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/okian/frontline/internal/adapters/bus"
	"github.com/okian/frontline/internal/domain/cursor"
	"github.com/okian/frontline/internal/domain/dedupe"
	"github.com/okian/frontline/internal/domain/model"
	"github.com/okian/frontline/pkg/logger"
	"github.com/okian/frontline/pkg/metrics"
)

// Fetcher retrieves one page of events newer than the watermark.
type Fetcher interface {
	HistoricalLogs(ctx context.Context, category model.Category, after time.Time, limit int) ([]model.Event, error)
}

// Publisher fans a single event out onto the shared topic.
type Publisher interface {
	Publish(ctx context.Context, ev model.Event) error
}

// BusPublisher adapts a bus.Bus into a Publisher.
type BusPublisher struct {
	Bus bus.Bus
}

// Publish JSON-encodes the event and puts it on the topic.
func (p BusPublisher) Publish(ctx context.Context, ev model.Event) error {
	return bus.PublishEvent(ctx, p.Bus, ev)
}

// Default poll tuning; overridable per category through options.
const (
	defaultInterval      = 5 * time.Second
	defaultErrorInterval = 10 * time.Second
	defaultPageLimit     = 15
)

// Poller periodically fetches one category's events, publishes the new ones
// in event-time order, and advances the watermark past each published event.
type Poller struct {
	category  model.Category
	fetcher   Fetcher
	publisher Publisher

	cur  *cursor.Cursor
	seen dedupe.SeenSet

	interval      time.Duration
	errorInterval time.Duration
	pageLimit     int

	clock  func() time.Time
	logger logger.Logger
}

// New creates a Poller for one category. The cursor starts at construction
// time: on restart the stream resumes from "now", and any re-fetched overlap
// is absorbed by the SeenSet within its retention window.
func New(category model.Category, fetcher Fetcher, publisher Publisher, opts ...Option) *Poller {
	p := &Poller{
		category:      category,
		fetcher:       fetcher,
		publisher:     publisher,
		interval:      defaultInterval,
		errorInterval: defaultErrorInterval,
		pageLimit:     defaultPageLimit,
		clock:         time.Now,
		logger:        logger.Get().Named("poller"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cur == nil {
		p.cur = cursor.New(p.clock())
	}
	if p.seen == nil {
		p.seen = dedupe.New()
	}
	return p
}

// Cursor exposes the poller's watermark, mainly for inspection and tests.
func (p *Poller) Cursor() *cursor.Cursor {
	return p.cur
}

// Run polls until ctx is canceled. Failed cycles rearm with the elongated
// error interval; shutdown is cooperative at the tick boundary.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info(ctx, "poller started",
		logger.String("category", string(p.category)),
		logger.Duration("interval", p.interval),
	)

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info(ctx, "poller stopped", logger.String("category", string(p.category)))
			return
		case <-timer.C:
		}

		next := p.interval
		if err := p.PollOnce(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			metrics.RecordPollError(string(p.category))
			p.logger.Warn(ctx, "poll cycle failed, backing off",
				logger.String("category", string(p.category)),
				logger.Duration("backoff", p.errorInterval),
				logger.Error(err),
			)
			next = p.errorInterval
		}

		p.seen.SweepExpired()
		metrics.UpdateSeenSetSize(string(p.category), p.seen.Size())
		timer.Reset(next)
	}
}

// PollOnce runs a single fetch-dedupe-order-publish cycle.
//
// The cursor advances only past events that were actually published: an
// empty or fully-duplicate batch leaves it untouched, and a publish failure
// retracts the failed ID and stops the cycle so the event is retried on the
// next tick.
func (p *Poller) PollOnce(ctx context.Context) error {
	batch, err := p.fetcher.HistoricalLogs(ctx, p.category, p.cur.After(), p.pageLimit)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", p.category, err)
	}
	metrics.RecordEventFetched(string(p.category), len(batch))
	if len(batch) == 0 {
		return nil
	}

	// Stable ascending order by source-assigned event time.
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].EventTime.Before(batch[j].EventTime.Time)
	})

	published := 0
	for i := range batch {
		ev := batch[i]
		if ev.ID == "" {
			p.logger.Warn(ctx, "skipping event without id",
				logger.String("category", string(p.category)),
				logger.Time("event_time", ev.EventTime.Time),
			)
			continue
		}

		if p.seen.SeenAndRecord(ctx, ev.ID) {
			metrics.RecordEventDuplicate(string(p.category))
			continue
		}

		if err := p.publisher.Publish(ctx, ev); err != nil {
			p.seen.Unrecord(ctx, ev.ID)
			return fmt.Errorf("publish event %s: %w", ev.ID, err)
		}
		metrics.RecordEventPublished(string(p.category))

		p.cur.Advance(ev.EventTime.Time)
		metrics.UpdateCursorTimestamp(string(p.category), p.cur.After())
		published++
	}

	if published > 0 {
		p.logger.Debug(ctx, "published batch",
			logger.String("category", string(p.category)),
			logger.Int("published", published),
			logger.Int("fetched", len(batch)),
			logger.Time("cursor", p.cur.After()),
		)
	}
	return nil
}
