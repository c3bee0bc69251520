// Package reward implements the downstream reactors consuming the event
// topic: the match-end reward coordinator and the immediate melee reward.
package reward

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/okian/frontline/internal/domain/model"
	"github.com/okian/frontline/pkg/logger"
	"github.com/okian/frontline/pkg/metrics"
)

// Scoreboard retrieves the live match scoreboard.
type Scoreboard interface {
	LiveScoreboard(ctx context.Context) ([]model.PlayerStat, error)
}

// Ledger reads and mutates the external VIP ledger. The snapshot excludes
// permanent grants; mutations are never assumed applied until the call
// returns without error.
type Ledger interface {
	VIPList(ctx context.Context) (map[string]time.Time, error)
	AddVIP(ctx context.Context, playerID, description string, expiration time.Time, platform string) error
}

// Messenger delivers in-game messages.
type Messenger interface {
	PlayerIDs(ctx context.Context) ([]model.PlayerRef, error)
	MessagePlayer(ctx context.Context, playerID, message, platform string) error
}

// Defaults for the match-end reward cycle.
const (
	DefaultTopN        = 3
	DefaultVIPDuration = 24 * time.Hour
)

// Coordinator reacts to MATCH ENDED events: under a per-server cooldown it
// ranks the live scoreboard, grants stacked VIP time to the top killers, and
// notifies the server.
//
// Cycle states: cooldown check -> fetching -> evaluating -> granting. A fetch
// or parse failure aborts the cycle without touching the cooldown; per-player
// grant or message failures are logged and skipped, and a cycle that ran to
// completion marks the cooldown even when some players failed.
type Coordinator struct {
	scoreboard Scoreboard
	ledger     Ledger
	messenger  Messenger
	cooldown   *Cooldown

	topN        int
	vipDuration time.Duration

	clock  func() time.Time
	logger logger.Logger
}

// NewCoordinator wires the coordinator to its external collaborators.
func NewCoordinator(scoreboard Scoreboard, ledger Ledger, messenger Messenger, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		scoreboard:  scoreboard,
		ledger:      ledger,
		messenger:   messenger,
		cooldown:    NewCooldown(DefaultCooldownWindow),
		topN:        DefaultTopN,
		vipDuration: DefaultVIPDuration,
		clock:       time.Now,
		logger:      logger.Get().Named("coordinator"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HandleEvent is the bus consumer entry point. Only MATCH ENDED events start
// a reward cycle; everything else on the shared topic is ignored here.
func (c *Coordinator) HandleEvent(ctx context.Context, ev model.Event) {
	if ev.Type != model.CategoryMatchEnded {
		return
	}

	scope := ev.Server
	if scope == "" {
		scope = "unknown"
	}
	c.logger.Info(ctx, "match ended",
		logger.String("server", scope),
		logger.String("event_id", ev.ID),
	)
	c.runCycle(ctx, scope)
}

func (c *Coordinator) runCycle(ctx context.Context, scope string) {
	now := c.clock()

	// CooldownCheck.
	if !c.cooldown.Ready(scope, now) {
		metrics.RecordRewardCycleSkipped()
		c.logger.Warn(ctx, "reward cycle skipped by cooldown",
			logger.String("server", scope),
			logger.Duration("retry_in", c.cooldown.Remaining(scope, now)),
		)
		return
	}

	// Fetching. Any failure here aborts without marking the cooldown so a
	// later MATCH ENDED can retry sooner.
	stats, err := c.scoreboard.LiveScoreboard(ctx)
	if err != nil {
		metrics.RecordRewardCycleAborted()
		c.logger.Error(ctx, "reward cycle aborted: scoreboard fetch failed",
			logger.String("server", scope),
			logger.Error(err),
		)
		return
	}
	vips, err := c.ledger.VIPList(ctx)
	if err != nil {
		metrics.RecordRewardCycleAborted()
		c.logger.Error(ctx, "reward cycle aborted: vip snapshot failed",
			logger.String("server", scope),
			logger.Error(err),
		)
		return
	}

	// Evaluating.
	top := c.selectTop(ctx, stats)
	if len(top) == 0 {
		c.logger.Warn(ctx, "no rewardable players on scoreboard", logger.String("server", scope))
	}

	// Granting.
	summary := &strings.Builder{}
	fmt.Fprintf(summary, "Top %d players of the match:\n", c.topN)
	for i, p := range top {
		fmt.Fprintf(summary, "%d. %s - %d kills\n", i+1, p.Name, p.Kills)
		c.grantOne(ctx, p, vips, now)
	}

	if len(top) > 0 {
		c.broadcast(ctx, summary.String())
	}

	c.cooldown.MarkSuccess(scope, now)
	metrics.RecordRewardCycle()
	c.logger.Info(ctx, "reward cycle completed",
		logger.String("server", scope),
		logger.Int("rewarded", len(top)),
	)
}

// selectTop ranks by kills descending with a stable sort, so equal kill
// counts keep the scoreboard's original relative order. Entries without a
// player id cannot be rewarded and do not occupy a slot.
func (c *Coordinator) selectTop(ctx context.Context, stats []model.PlayerStat) []model.PlayerStat {
	ranked := make([]model.PlayerStat, len(stats))
	copy(ranked, stats)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Kills > ranked[j].Kills
	})

	top := make([]model.PlayerStat, 0, c.topN)
	for _, p := range ranked {
		if len(top) == c.topN {
			break
		}
		if p.PlayerID == "" {
			c.logger.Warn(ctx, "skipping player without resolvable id",
				logger.String("player", p.Name),
				logger.Int("kills", p.Kills),
			)
			continue
		}
		top = append(top, p)
	}
	return top
}

// grantOne applies the stacking merge and issues the grant plus a personal
// message. Failures are per-player: logged, counted, and skipped.
func (c *Coordinator) grantOne(ctx context.Context, p model.PlayerStat, vips map[string]time.Time, now time.Time) {
	current, hasCurrent := vips[p.PlayerID]
	expiration := MergeExpiration(now, current, hasCurrent, c.vipDuration)
	platform := DetectPlatform(p.PlayerID).Hint()
	description := fmt.Sprintf("Top killer with %d kills", p.Kills)

	if err := c.ledger.AddVIP(ctx, p.PlayerID, description, expiration, platform); err != nil {
		metrics.RecordGrantFailure("match")
		c.logger.Error(ctx, "grant failed",
			logger.String("player", p.Name),
			logger.String("player_id", p.PlayerID),
			logger.Error(err),
		)
		return
	}
	metrics.RecordGrantIssued("match")
	c.logger.Info(ctx, "vip granted",
		logger.String("player", p.Name),
		logger.String("player_id", p.PlayerID),
		logger.Time("expiration", expiration),
	)

	hours := int(c.vipDuration / time.Hour)
	message := fmt.Sprintf("Congratulations %s! With %d kills you earned %d hours of VIP status!", p.Name, p.Kills, hours)
	if err := c.messenger.MessagePlayer(ctx, p.PlayerID, message, platform); err != nil {
		metrics.RecordMessageFailure()
		c.logger.Warn(ctx, "congratulation message failed",
			logger.String("player_id", p.PlayerID),
			logger.Error(err),
		)
		return
	}
	metrics.RecordMessageSent()
}

// broadcast sends the top-players summary to everyone currently connected.
func (c *Coordinator) broadcast(ctx context.Context, message string) {
	players, err := c.messenger.PlayerIDs(ctx)
	if err != nil {
		c.logger.Warn(ctx, "broadcast skipped: player listing failed", logger.Error(err))
		return
	}

	delivered := 0
	for _, p := range players {
		if err := c.messenger.MessagePlayer(ctx, p.ID, message, DetectPlatform(p.ID).Hint()); err != nil {
			metrics.RecordMessageFailure()
			c.logger.Warn(ctx, "broadcast message failed",
				logger.String("player_id", p.ID),
				logger.Error(err),
			)
			continue
		}
		metrics.RecordMessageSent()
		delivered++
	}
	c.logger.Info(ctx, "broadcast delivered",
		logger.Int("delivered", delivered),
		logger.Int("players", len(players)),
	)
}
