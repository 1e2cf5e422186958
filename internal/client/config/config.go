// Package config loads runtime settings for the story client, layering
// defaults, an optional JSON file, and command-line flags (later sources win).
package config

import "time"

// Config holds runtime settings for the story client.
type Config struct {
	// APIBaseURL is the base URL of the story REST API, including version
	// prefix (e.g. https://story-api.dicoding.dev/v1).
	APIBaseURL string

	// DatabasePath is the sqlite file holding stories, the pending queue, and
	// client metadata.
	DatabasePath string

	// RequestTimeout bounds every gateway call.
	RequestTimeout time.Duration

	// OnlineCheckInterval is how often the client probes backend reachability.
	OnlineCheckInterval time.Duration

	// PageSize is the story feed page size.
	PageSize int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://story-api.dicoding.dev/v1"
	c.DatabasePath = "stories.db"
	c.RequestTimeout = 30 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.PageSize = 10
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
