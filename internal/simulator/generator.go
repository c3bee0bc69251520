package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/okian/frontline/internal/domain/model"
)

// Weapon pool for synthetic kills. Melee shows up often enough to exercise
// the immediate-reward path within a short run.
var weapons = []string{
	"M1 GARAND", "MP40", "KARABINER 98K", "THOMPSON", "MG42",
	"M3 Knife", "Feldspaten",
}

// DefaultRoster mixes id shapes so platform detection sees every family.
func DefaultRoster() []model.PlayerRef {
	return []model.PlayerRef{
		{Name: "Ghost", ID: "76561198000000001"},
		{Name: "Viper", ID: "76561198000000002"},
		{Name: "Doc", ID: "0123456789abcdef0123456789abcdef"},
		{Name: "Recon", ID: "76561198000000004"},
		{Name: "Tex", ID: "xbl_tex4472"},
		{Name: "Shade", ID: "abcdefabcdefabcdefabcdefabcdef12"},
	}
}

// Generator feeds a Simulator with synthetic match activity.
type Generator struct {
	sim           *Simulator
	roster        []model.PlayerRef
	rng           *rand.Rand
	killInterval  time.Duration
	matchInterval time.Duration
	server        string
}

// NewGenerator creates a Generator over the simulator's roster.
func NewGenerator(sim *Simulator, roster []model.PlayerRef, seed int64, killInterval, matchInterval time.Duration) *Generator {
	return &Generator{
		sim:           sim,
		roster:        roster,
		rng:           rand.New(rand.NewSource(seed)),
		killInterval:  killInterval,
		matchInterval: matchInterval,
		server:        "1",
	}
}

// Run emits kills on the kill cadence and a MATCH ENDED on the match cadence
// until ctx is canceled.
func (g *Generator) Run(ctx context.Context) {
	killTicker := time.NewTicker(g.killInterval)
	defer killTicker.Stop()
	matchTicker := time.NewTicker(g.matchInterval)
	defer matchTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-killTicker.C:
			g.sim.AppendLog(g.randomKill())
		case <-matchTicker.C:
			g.sim.AppendLog(model.Event{
				ID:        uuid.NewString(),
				Type:      model.CategoryMatchEnded,
				EventTime: model.NewTimestamp(time.Now()),
				Server:    g.server,
			})
		}
	}
}

func (g *Generator) randomKill() model.Event {
	killer := g.roster[g.rng.Intn(len(g.roster))]
	victim := g.roster[g.rng.Intn(len(g.roster))]
	for victim.ID == killer.ID {
		victim = g.roster[g.rng.Intn(len(g.roster))]
	}

	return model.Event{
		ID:         uuid.NewString(),
		Type:       model.CategoryKill,
		EventTime:  model.NewTimestamp(time.Now()),
		Server:     g.server,
		KillerName: killer.Name,
		KillerID:   killer.ID,
		VictimName: victim.Name,
		VictimID:   victim.ID,
		Weapon:     weapons[g.rng.Intn(len(weapons))],
	}
}

// Summary renders a short report of everything the fake server received.
func (g *Generator) Summary() string {
	grants := g.sim.Grants()
	messages := g.sim.Messages()
	return fmt.Sprintf("grants: %d, messages: %d", len(grants), len(messages))
}
