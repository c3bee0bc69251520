package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FRONTLINE_CONFIG is set
//  3. env (prefix FRONTLINE_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("FRONTLINE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: FRONTLINE_API_URL, FRONTLINE_BUS_ADDR, ...
	// Keys map to the koanf tags on the struct; underscores are preserved.
	envProvider := env.Provider("FRONTLINE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "frontline_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations that cannot possibly run.
func (c *Config) validate() error {
	switch {
	case c.APIURL == "":
		return fmt.Errorf("%w: api_url must not be empty", ErrInvalidConfig)
	case c.APIToken == "":
		return fmt.Errorf("%w: api_token must not be empty", ErrInvalidConfig)
	case c.BusAddr == "":
		return fmt.Errorf("%w: bus_addr must not be empty", ErrInvalidConfig)
	case c.BusChannel == "":
		return fmt.Errorf("%w: bus_channel must not be empty", ErrInvalidConfig)
	case c.TopN < 1:
		return fmt.Errorf("%w: top_n must be at least 1", ErrInvalidConfig)
	case c.VIPHours < 1:
		return fmt.Errorf("%w: vip_hours must be at least 1", ErrInvalidConfig)
	}
	return nil
}
