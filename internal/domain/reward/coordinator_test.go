package reward_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/frontline/internal/domain/model"
	"github.com/okian/frontline/internal/domain/reward"
	"github.com/okian/frontline/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	_ = logger.Init()
	os.Exit(m.Run())
}

type grantCall struct {
	playerID    string
	description string
	expiration  time.Time
	platform    string
}

type messageCall struct {
	playerID string
	message  string
}

// fakeBackend stands in for the administrative API across all reward tests.
type fakeBackend struct {
	stats    []model.PlayerStat
	statsErr error
	vips     map[string]time.Time
	vipsErr  error
	players  []model.PlayerRef

	grantErrFor map[string]error

	grants   []grantCall
	messages []messageCall
}

func (f *fakeBackend) LiveScoreboard(context.Context) ([]model.PlayerStat, error) {
	return f.stats, f.statsErr
}

func (f *fakeBackend) VIPList(context.Context) (map[string]time.Time, error) {
	if f.vipsErr != nil {
		return nil, f.vipsErr
	}
	if f.vips == nil {
		return map[string]time.Time{}, nil
	}
	return f.vips, nil
}

func (f *fakeBackend) AddVIP(_ context.Context, playerID, description string, expiration time.Time, platform string) error {
	if err := f.grantErrFor[playerID]; err != nil {
		return err
	}
	f.grants = append(f.grants, grantCall{playerID, description, expiration, platform})
	return nil
}

func (f *fakeBackend) PlayerIDs(context.Context) ([]model.PlayerRef, error) {
	return f.players, nil
}

func (f *fakeBackend) MessagePlayer(_ context.Context, playerID, message, _ string) error {
	f.messages = append(f.messages, messageCall{playerID, message})
	return nil
}

func matchEnded(server string) model.Event {
	return model.Event{
		ID:        "m-1",
		Type:      model.CategoryMatchEnded,
		EventTime: model.NewTimestamp(time.Now()),
		Server:    server,
	}
}

func TestCoordinator(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	newCoordinator := func(backend *fakeBackend, cd *reward.Cooldown) *reward.Coordinator {
		return reward.NewCoordinator(backend, backend, backend,
			reward.WithTopN(3),
			reward.WithVIPDuration(24*time.Hour),
			reward.WithCooldown(cd),
			reward.WithClock(clock),
		)
	}

	Convey("Given a scoreboard with clear top killers", t, func() {
		backend := &fakeBackend{
			stats: []model.PlayerStat{
				{Name: "Ghost", PlayerID: "76561198000000001", Kills: 12},
				{Name: "Viper", PlayerID: "76561198000000002", Kills: 30},
				{Name: "Doc", PlayerID: "76561198000000003", Kills: 21},
				{Name: "Tex", PlayerID: "76561198000000004", Kills: 2},
			},
		}

		Convey("When a match ends outside the cooldown window", func() {
			cd := reward.NewCooldown(300 * time.Second)
			cd.MarkSuccess("1", now.Add(-400*time.Second))
			c := newCoordinator(backend, cd)
			c.HandleEvent(ctx, matchEnded("1"))

			Convey("Then the top three are granted in rank order", func() {
				So(backend.grants, ShouldHaveLength, 3)
				So(backend.grants[0].playerID, ShouldEqual, "76561198000000002")
				So(backend.grants[1].playerID, ShouldEqual, "76561198000000003")
				So(backend.grants[2].playerID, ShouldEqual, "76561198000000001")
			})

			Convey("And each granted player gets a personal message", func() {
				So(backend.messages, ShouldHaveLength, 3)
				So(backend.messages[0].playerID, ShouldEqual, "76561198000000002")
				So(backend.messages[0].message, ShouldContainSubstring, "30 kills")
			})

			Convey("And a fresh grant runs 24h from now", func() {
				So(backend.grants[0].expiration, ShouldEqual, now.Add(24*time.Hour))
			})

			Convey("And the cooldown rearms", func() {
				So(cd.Ready("1", now), ShouldBeFalse)
			})
		})

		Convey("When a match ends inside the cooldown window", func() {
			cd := reward.NewCooldown(300 * time.Second)
			cd.MarkSuccess("1", now.Add(-100*time.Second))
			c := newCoordinator(backend, cd)
			c.HandleEvent(ctx, matchEnded("1"))

			Convey("Then no grant or message call is made", func() {
				So(backend.grants, ShouldBeEmpty)
				So(backend.messages, ShouldBeEmpty)
			})
		})

		Convey("When the cooldown is scoped to another server", func() {
			cd := reward.NewCooldown(300 * time.Second)
			cd.MarkSuccess("2", now.Add(-100*time.Second))
			c := newCoordinator(backend, cd)
			c.HandleEvent(ctx, matchEnded("1"))

			Convey("Then server 1 still rewards", func() {
				So(backend.grants, ShouldHaveLength, 3)
			})
		})
	})

	Convey("Given an existing non-permanent VIP among the winners", t, func() {
		backend := &fakeBackend{
			stats: []model.PlayerStat{
				{Name: "Viper", PlayerID: "76561198000000002", Kills: 30},
			},
			vips: map[string]time.Time{
				"76561198000000002": now.Add(10 * time.Hour),
			},
		}
		c := newCoordinator(backend, reward.NewCooldown(300*time.Second))

		Convey("When the match ends", func() {
			c.HandleEvent(ctx, matchEnded("1"))

			Convey("Then the reward stacks on the remaining time", func() {
				So(backend.grants, ShouldHaveLength, 1)
				So(backend.grants[0].expiration, ShouldEqual, now.Add(34*time.Hour))
			})
		})
	})

	Convey("Given tied kill counts", t, func() {
		backend := &fakeBackend{
			stats: []model.PlayerStat{
				{Name: "First", PlayerID: "id-first", Kills: 10},
				{Name: "Second", PlayerID: "id-second", Kills: 10},
				{Name: "Third", PlayerID: "id-third", Kills: 10},
			},
		}
		c := newCoordinator(backend, reward.NewCooldown(300*time.Second))

		Convey("When the match ends", func() {
			c.HandleEvent(ctx, matchEnded("1"))

			Convey("Then the scoreboard's original order is preserved", func() {
				So(backend.grants, ShouldHaveLength, 3)
				So(backend.grants[0].playerID, ShouldEqual, "id-first")
				So(backend.grants[1].playerID, ShouldEqual, "id-second")
				So(backend.grants[2].playerID, ShouldEqual, "id-third")
			})
		})
	})

	Convey("Given a top entry without a resolvable player id", t, func() {
		backend := &fakeBackend{
			stats: []model.PlayerStat{
				{Name: "Nameless", PlayerID: "", Kills: 40},
				{Name: "Viper", PlayerID: "id-viper", Kills: 30},
				{Name: "Doc", PlayerID: "id-doc", Kills: 20},
				{Name: "Tex", PlayerID: "id-tex", Kills: 10},
			},
		}
		c := newCoordinator(backend, reward.NewCooldown(300*time.Second))

		Convey("When the match ends", func() {
			c.HandleEvent(ctx, matchEnded("1"))

			Convey("Then the entry is skipped and does not occupy a slot", func() {
				So(backend.grants, ShouldHaveLength, 3)
				So(backend.grants[0].playerID, ShouldEqual, "id-viper")
				So(backend.grants[2].playerID, ShouldEqual, "id-tex")
			})
		})
	})

	Convey("Given a failing scoreboard fetch", t, func() {
		backend := &fakeBackend{statsErr: errors.New("boom")}
		cd := reward.NewCooldown(300 * time.Second)
		c := newCoordinator(backend, cd)

		Convey("When the match ends", func() {
			c.HandleEvent(ctx, matchEnded("1"))

			Convey("Then the cycle aborts without touching the cooldown", func() {
				So(backend.grants, ShouldBeEmpty)
				So(cd.Ready("1", now), ShouldBeTrue)
			})
		})
	})

	Convey("Given a failing VIP snapshot", t, func() {
		backend := &fakeBackend{
			stats:   []model.PlayerStat{{Name: "Viper", PlayerID: "id-viper", Kills: 30}},
			vipsErr: errors.New("boom"),
		}
		cd := reward.NewCooldown(300 * time.Second)
		c := newCoordinator(backend, cd)

		Convey("When the match ends", func() {
			c.HandleEvent(ctx, matchEnded("1"))

			Convey("Then the cycle aborts without touching the cooldown", func() {
				So(backend.grants, ShouldBeEmpty)
				So(cd.Ready("1", now), ShouldBeTrue)
			})
		})
	})

	Convey("Given a per-player grant failure", t, func() {
		backend := &fakeBackend{
			stats: []model.PlayerStat{
				{Name: "Viper", PlayerID: "id-viper", Kills: 30},
				{Name: "Doc", PlayerID: "id-doc", Kills: 20},
				{Name: "Tex", PlayerID: "id-tex", Kills: 10},
			},
			grantErrFor: map[string]error{"id-doc": errors.New("ledger rejected")},
		}
		cd := reward.NewCooldown(300 * time.Second)
		c := newCoordinator(backend, cd)

		Convey("When the match ends", func() {
			c.HandleEvent(ctx, matchEnded("1"))

			Convey("Then the other players still receive their grants and messages", func() {
				So(backend.grants, ShouldHaveLength, 2)
				So(backend.grants[0].playerID, ShouldEqual, "id-viper")
				So(backend.grants[1].playerID, ShouldEqual, "id-tex")
				So(backend.messages, ShouldHaveLength, 2)
			})

			Convey("And the cycle still counts as completed for the cooldown", func() {
				So(cd.Ready("1", now), ShouldBeFalse)
			})
		})
	})

	Convey("Given connected players for the broadcast", t, func() {
		backend := &fakeBackend{
			stats: []model.PlayerStat{
				{Name: "Viper", PlayerID: "id-viper", Kills: 30},
			},
			players: []model.PlayerRef{
				{Name: "Viper", ID: "id-viper"},
				{Name: "Tex", ID: "id-tex"},
			},
		}
		c := newCoordinator(backend, reward.NewCooldown(300*time.Second))

		Convey("When the match ends", func() {
			c.HandleEvent(ctx, matchEnded("1"))

			Convey("Then everyone receives the top-players summary", func() {
				// 1 personal + 2 broadcast messages.
				So(backend.messages, ShouldHaveLength, 3)
				So(backend.messages[1].message, ShouldContainSubstring, "Viper - 30 kills")
				So(backend.messages[2].playerID, ShouldEqual, "id-tex")
			})
		})
	})

	Convey("Given a non match-end event", t, func() {
		backend := &fakeBackend{
			stats: []model.PlayerStat{{Name: "Viper", PlayerID: "id-viper", Kills: 30}},
		}
		c := newCoordinator(backend, reward.NewCooldown(300*time.Second))

		Convey("When a kill arrives on the shared topic", func() {
			c.HandleEvent(ctx, model.Event{ID: "k-1", Type: model.CategoryKill, Weapon: "MP40"})

			Convey("Then the coordinator ignores it", func() {
				So(backend.grants, ShouldBeEmpty)
				So(backend.messages, ShouldBeEmpty)
			})
		})
	})
}
