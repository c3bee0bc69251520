// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the operational HTTP listen address (health, metrics).
	Addr string `koanf:"addr"`

	// APIURL is the base URL of the administrative API, e.g. "http://crcon:8010".
	APIURL string `koanf:"api_url"`

	// APIToken is the bearer token for the administrative API.
	APIToken string `koanf:"api_token"`

	// BusAddr is the Redis host:port carrying the event topic.
	BusAddr string `koanf:"bus_addr"`

	// BusChannel is the pub/sub topic shared by all categories.
	BusChannel string `koanf:"bus_channel"`

	// Poll cadence per category and the elongated interval used after a
	// failed poll.
	KillPollSeconds     int `koanf:"kill_poll_seconds"`
	MatchPollSeconds    int `koanf:"match_poll_seconds"`
	ErrorBackoffSeconds int `koanf:"error_backoff_seconds"`

	// Page limits passed to get_historical_logs.
	KillPageLimit  int `koanf:"kill_page_limit"`
	MatchPageLimit int `koanf:"match_page_limit"`

	// DedupeSize and DedupeTTLMinutes bound the per-category seen set.
	DedupeSize       int `koanf:"dedupe_size"`
	DedupeTTLMinutes int `koanf:"dedupe_ttl_minutes"`

	// CooldownSeconds is the minimum gap between successful reward cycles
	// for the same server.
	CooldownSeconds int `koanf:"cooldown_seconds"`

	// TopN is how many top killers are rewarded after a match.
	TopN int `koanf:"top_n"`

	// VIPHours is the standard reward duration.
	VIPHours int `koanf:"vip_hours"`

	// MeleeWeapons lists weapons that trigger the immediate kill reward.
	MeleeWeapons []string `koanf:"melee_weapons"`

	// MessageSender is the "by" name attached to in-game messages.
	MessageSender string `koanf:"message_sender"`
}

// New creates a Config with defaults. Poll cadence, page limits, cooldown and
// reward durations default to the live deployment's values.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9090",
		BusChannel:          "game_logs",
		KillPollSeconds:     5,
		MatchPollSeconds:    15,
		ErrorBackoffSeconds: 10,
		KillPageLimit:       15,
		MatchPageLimit:      5,
		DedupeSize:          10_000,
		DedupeTTLMinutes:    60,
		CooldownSeconds:     300,
		TopN:                3,
		VIPHours:            24,
		MeleeWeapons:        []string{"M3 Knife", "Feldspaten"},
		MessageSender:       "VIP Reward System",
	}
}
