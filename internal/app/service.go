// Package app wires the ingestion pipeline and the reward reactors into a
// single runnable service.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/okian/frontline/internal/adapters/bus"
	"github.com/okian/frontline/internal/adapters/rcon"
	"github.com/okian/frontline/internal/config"
	"github.com/okian/frontline/internal/domain/dedupe"
	"github.com/okian/frontline/internal/domain/model"
	"github.com/okian/frontline/internal/domain/reward"
	"github.com/okian/frontline/internal/ingest"
	"github.com/okian/frontline/pkg/logger"
)

// Service runs one poller per event category plus the two topic consumers.
// All state (cursors, seen sets, cooldowns) is in-memory and resets on
// restart; re-ingested overlap after a restart is absorbed by dedup, which is
// the documented at-least-once caveat.
type Service struct {
	mu sync.Mutex

	cfg      *config.Config
	eventBus bus.Bus
	logger   logger.Logger

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEventBus injects a prepared bus, bypassing the Redis connection.
// Used by tests and single-process runs.
func WithEventBus(b bus.Bus) Option {
	return func(s *Service) {
		if b != nil {
			s.eventBus = b
		}
	}
}

// New constructs a Service from configuration.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start connects to the bus, builds the pollers and consumers, and launches
// every loop. A bus that cannot be reached is a startup failure.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	cfg := s.cfg
	if s.eventBus == nil {
		b, err := bus.NewRedis(ctx, cfg.BusAddr, cfg.BusChannel)
		if err != nil {
			return err
		}
		s.eventBus = b
	}

	client := rcon.New(cfg.APIURL, cfg.APIToken, rcon.WithSender(cfg.MessageSender))

	dedupeTTL := time.Duration(cfg.DedupeTTLMinutes) * time.Minute
	publisher := ingest.BusPublisher{Bus: s.eventBus}

	pollers := []*ingest.Poller{
		ingest.New(model.CategoryKill, client, publisher,
			ingest.WithInterval(time.Duration(cfg.KillPollSeconds)*time.Second),
			ingest.WithErrorInterval(time.Duration(cfg.ErrorBackoffSeconds)*time.Second),
			ingest.WithPageLimit(cfg.KillPageLimit),
			ingest.WithSeenSet(dedupe.New(
				dedupe.WithMaxSize(cfg.DedupeSize),
				dedupe.WithTTL(dedupeTTL),
			)),
			ingest.WithLogger(s.logger.Named("poller")),
		),
		ingest.New(model.CategoryMatchEnded, client, publisher,
			ingest.WithInterval(time.Duration(cfg.MatchPollSeconds)*time.Second),
			ingest.WithErrorInterval(time.Duration(cfg.ErrorBackoffSeconds)*time.Second),
			ingest.WithPageLimit(cfg.MatchPageLimit),
			ingest.WithSeenSet(dedupe.New(
				dedupe.WithMaxSize(cfg.DedupeSize),
				dedupe.WithTTL(dedupeTTL),
			)),
			ingest.WithLogger(s.logger.Named("poller")),
		),
	}

	coordinator := reward.NewCoordinator(client, client, client,
		reward.WithTopN(cfg.TopN),
		reward.WithVIPDuration(time.Duration(cfg.VIPHours)*time.Hour),
		reward.WithCooldownWindow(time.Duration(cfg.CooldownSeconds)*time.Second),
		reward.WithLogger(s.logger.Named("coordinator")),
	)
	melee := reward.NewMelee(client, client,
		reward.WithMeleeWeapons(cfg.MeleeWeapons),
		reward.WithMeleeDuration(time.Duration(cfg.VIPHours)*time.Hour),
		reward.WithMeleeLogger(s.logger.Named("melee")),
	)

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, p := range pollers {
		s.wg.Add(1)
		go func(p *ingest.Poller) {
			defer s.wg.Done()
			p.Run(runCtx)
		}(p)
	}

	for name, handle := range map[string]func(context.Context, model.Event){
		"coordinator": coordinator.HandleEvent,
		"melee":       melee.HandleEvent,
	} {
		s.wg.Add(1)
		go func(name string, handle func(context.Context, model.Event)) {
			defer s.wg.Done()
			if err := bus.Consume(runCtx, s.eventBus, s.logger.Named(name), handle); err != nil {
				s.logger.Error(runCtx, "consumer stopped", logger.String("consumer", name), logger.Error(err))
			}
		}(name, handle)
	}

	s.started = true
	s.logger.Info(ctx, "frontline service started",
		logger.String("bus_channel", cfg.BusChannel),
		logger.Int("top_n", cfg.TopN),
		logger.Int("vip_hours", cfg.VIPHours),
	)
	return nil
}

// Stop cancels every loop, closes the bus, and waits for in-flight cycles to
// finish at their tick or message boundary.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping frontline service...")

	s.cancel()
	if s.eventBus != nil {
		_ = s.eventBus.Close()
	}
	s.wg.Wait()

	s.started = false
	s.logger.Info(context.Background(), "frontline service stopped")
}
