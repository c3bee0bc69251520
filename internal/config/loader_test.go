package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/frontline/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("FRONTLINE_API_URL", "http://crcon:8010")
	t.Setenv("FRONTLINE_API_TOKEN", "secret")
	t.Setenv("FRONTLINE_BUS_ADDR", "redis:6379")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	Convey("Given only the required connection settings", t, func() {
		Convey("When loading", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then defaults fill the rest", func() {
				So(err, ShouldBeNil)
				So(cfg.APIURL, ShouldEqual, "http://crcon:8010")
				So(cfg.Addr, ShouldEqual, ":9090")
				So(cfg.BusChannel, ShouldEqual, "game_logs")
				So(cfg.KillPollSeconds, ShouldEqual, 5)
				So(cfg.MatchPollSeconds, ShouldEqual, 15)
				So(cfg.ErrorBackoffSeconds, ShouldEqual, 10)
				So(cfg.KillPageLimit, ShouldEqual, 15)
				So(cfg.MatchPageLimit, ShouldEqual, 5)
				So(cfg.CooldownSeconds, ShouldEqual, 300)
				So(cfg.TopN, ShouldEqual, 3)
				So(cfg.VIPHours, ShouldEqual, 24)
				So(cfg.MeleeWeapons, ShouldResemble, []string{"M3 Knife", "Feldspaten"})
				So(cfg.MessageSender, ShouldEqual, "VIP Reward System")
			})
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("FRONTLINE_TOP_N", "5")
	t.Setenv("FRONTLINE_KILL_POLL_SECONDS", "2")
	t.Setenv("FRONTLINE_LOG_LEVEL", "debug")

	Convey("Given tuning knobs in the environment", t, func() {
		Convey("When loading", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then env wins over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.TopN, ShouldEqual, 5)
				So(cfg.KillPollSeconds, ShouldEqual, 2)
				So(cfg.LogLevel, ShouldEqual, "debug")
			})
		})
	})
}

func TestLoadFileLayer(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), "frontline.yaml")
	writeFile(t, path, "top_n: 4\nvip_hours: 48\n")
	t.Setenv("FRONTLINE_CONFIG", path)
	t.Setenv("FRONTLINE_VIP_HOURS", "12")

	Convey("Given a YAML file between defaults and env", t, func() {
		Convey("When loading", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then the file overrides defaults and env overrides the file", func() {
				So(err, ShouldBeNil)
				So(cfg.TopN, ShouldEqual, 4)
				So(cfg.VIPHours, ShouldEqual, 12)
			})
		})
	})
}

func TestLoadMissingFile(t *testing.T) {
	setRequired(t)
	t.Setenv("FRONTLINE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	Convey("Given a configured file that does not exist", t, func() {
		Convey("When loading", func() {
			_, err := config.Load(context.Background())

			Convey("Then loading fails with the load sentinel", func() {
				So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
			})
		})
	})
}

func TestLoadValidation(t *testing.T) {
	Convey("Given configs that cannot possibly run", t, func() {
		Convey("When the administrative API settings are absent", func() {
			t.Setenv("FRONTLINE_API_URL", "")
			t.Setenv("FRONTLINE_API_TOKEN", "")
			t.Setenv("FRONTLINE_BUS_ADDR", "")
			_, err := config.Load(context.Background())

			Convey("Then validation rejects the config", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When top_n is forced below one", func() {
			setRequired(t)
			t.Setenv("FRONTLINE_TOP_N", "0")
			_, err := config.Load(context.Background())

			Convey("Then validation rejects the config", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}
