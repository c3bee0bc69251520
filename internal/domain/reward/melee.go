package reward

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/frontline/internal/domain/model"
	"github.com/okian/frontline/pkg/logger"
	"github.com/okian/frontline/pkg/metrics"
)

// DefaultMeleeWeapons are the weapons that qualify for the immediate reward.
var DefaultMeleeWeapons = []string{"M3 Knife", "Feldspaten"}

// Melee grants an immediate fixed-duration VIP for kills with a melee
// weapon. No cooldown applies; upstream dedup guarantees at-most-once
// processing per kill.
type Melee struct {
	ledger    Ledger
	messenger Messenger

	weapons  map[string]struct{}
	duration time.Duration

	clock  func() time.Time
	logger logger.Logger
}

// NewMelee wires the melee reactor to the ledger and messenger.
func NewMelee(ledger Ledger, messenger Messenger, opts ...MeleeOption) *Melee {
	m := &Melee{
		ledger:    ledger,
		messenger: messenger,
		weapons:   make(map[string]struct{}),
		duration:  DefaultVIPDuration,
		clock:     time.Now,
		logger:    logger.Get().Named("melee"),
	}
	for _, w := range DefaultMeleeWeapons {
		m.weapons[w] = struct{}{}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// HandleEvent is the bus consumer entry point. Only KILL events with a
// qualifying weapon trigger a reward.
func (m *Melee) HandleEvent(ctx context.Context, ev model.Event) {
	if ev.Type != model.CategoryKill {
		return
	}
	if _, ok := m.weapons[ev.Weapon]; !ok {
		return
	}
	if ev.KillerID == "" {
		m.logger.Warn(ctx, "melee kill without killer id",
			logger.String("event_id", ev.ID),
			logger.String("killer", ev.KillerName),
		)
		return
	}

	m.logger.Info(ctx, "melee kill detected",
		logger.String("killer", ev.KillerName),
		logger.String("victim", ev.VictimName),
		logger.String("weapon", ev.Weapon),
	)

	platform := DetectPlatform(ev.KillerID).Hint()
	expiration := m.clock().Add(m.duration)
	description := fmt.Sprintf("Reward for a kill with %s", ev.Weapon)

	if err := m.ledger.AddVIP(ctx, ev.KillerID, description, expiration, platform); err != nil {
		metrics.RecordGrantFailure("melee")
		m.logger.Error(ctx, "melee grant failed",
			logger.String("killer_id", ev.KillerID),
			logger.Error(err),
		)
		return
	}
	metrics.RecordGrantIssued("melee")

	hours := int(m.duration / time.Hour)
	message := fmt.Sprintf("Congratulations! You eliminated %s with %s and earned %d hours of VIP status!", ev.VictimName, ev.Weapon, hours)
	if err := m.messenger.MessagePlayer(ctx, ev.KillerID, message, platform); err != nil {
		metrics.RecordMessageFailure()
		m.logger.Warn(ctx, "melee congratulation failed",
			logger.String("killer_id", ev.KillerID),
			logger.Error(err),
		)
		return
	}
	metrics.RecordMessageSent()
}
