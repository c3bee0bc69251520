package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/okian/frontline/internal/adapters/bus"
	"github.com/okian/frontline/internal/app"
	"github.com/okian/frontline/internal/config"
	"github.com/okian/frontline/internal/domain/model"
	"github.com/okian/frontline/internal/simulator"
	"github.com/okian/frontline/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	_ = logger.Init()
	os.Exit(m.Run())
}

// waitFor polls check until it returns true or the deadline passes.
func waitFor(timeout time.Duration, check func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if check() {
			return true
		}
		time.Sleep(50 * time.Millisecond)
	}
	return check()
}

func TestServiceEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("end-to-end run takes several seconds")
	}

	Convey("Given the service wired to a fake administrative API", t, func() {
		sim := simulator.New(simulator.DefaultRoster())
		mux := http.NewServeMux()
		sim.Register(mux)
		srv := httptest.NewServer(mux)

		cfg := config.New()
		cfg.APIURL = srv.URL
		cfg.APIToken = "test-token"
		cfg.BusAddr = "unused:6379"
		cfg.KillPollSeconds = 1
		cfg.MatchPollSeconds = 1
		cfg.CooldownSeconds = 300

		service := app.New(cfg, app.WithEventBus(bus.NewMemory()))
		ctx, cancel := context.WithCancel(context.Background())
		So(service.Start(ctx), ShouldBeNil)

		Reset(func() {
			cancel()
			service.Stop()
			srv.Close()
		})

		Convey("When a melee kill lands in the log stream", func() {
			sim.AppendLog(model.Event{
				ID:         uuid.NewString(),
				Type:       model.CategoryKill,
				EventTime:  model.NewTimestamp(time.Now()),
				Server:     "1",
				KillerName: "Ghost",
				KillerID:   "76561198000000001",
				VictimName: "Viper",
				VictimID:   "76561198000000002",
				Weapon:     "M3 Knife",
			})

			Convey("Then the killer is granted VIP within a few poll cycles", func() {
				granted := waitFor(5*time.Second, func() bool {
					return len(sim.Grants()) > 0
				})
				So(granted, ShouldBeTrue)

				grants := sim.Grants()
				So(grants[0].PlayerID, ShouldEqual, "76561198000000001")
				So(grants[0].Description, ShouldContainSubstring, "M3 Knife")
				So(grants[0].Platform, ShouldEqual, "steam")
			})

			Convey("And the killer is congratulated in game", func() {
				messaged := waitFor(5*time.Second, func() bool {
					for _, m := range sim.Messages() {
						if m.PlayerID == "76561198000000001" && strings.Contains(m.Message, "M3 Knife") {
							return true
						}
					}
					return false
				})
				So(messaged, ShouldBeTrue)
			})
		})

		Convey("When kills accumulate and the match ends", func() {
			now := time.Now()
			for i := 0; i < 4; i++ {
				sim.AppendLog(model.Event{
					ID:         uuid.NewString(),
					Type:       model.CategoryKill,
					EventTime:  model.NewTimestamp(now),
					Server:     "1",
					KillerName: "Viper",
					KillerID:   "76561198000000002",
					VictimName: "Tex",
					VictimID:   "xbl_tex4472",
					Weapon:     "MP40",
				})
			}
			sim.AppendLog(model.Event{
				ID:        uuid.NewString(),
				Type:      model.CategoryMatchEnded,
				EventTime: model.NewTimestamp(now.Add(time.Second)),
				Server:    "1",
			})

			Convey("Then the top killer receives the match reward", func() {
				rewarded := waitFor(5*time.Second, func() bool {
					for _, g := range sim.Grants() {
						if g.PlayerID == "76561198000000002" && strings.Contains(g.Description, "Top killer") {
							return true
						}
					}
					return false
				})
				So(rewarded, ShouldBeTrue)
			})
		})
	})
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a started service", t, func() {
		sim := simulator.New(simulator.DefaultRoster())
		mux := http.NewServeMux()
		sim.Register(mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		cfg := config.New()
		cfg.APIURL = srv.URL
		cfg.APIToken = "test-token"
		cfg.BusAddr = "unused:6379"

		service := app.New(cfg, app.WithEventBus(bus.NewMemory()))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		So(service.Start(ctx), ShouldBeNil)

		Convey("When Start is called again", func() {
			Convey("Then it is a no-op", func() {
				So(service.Start(ctx), ShouldBeNil)
			})
		})

		Convey("When the service stops", func() {
			service.Stop()

			Convey("Then stopping again is safe", func() {
				service.Stop()
			})
		})
	})
}
