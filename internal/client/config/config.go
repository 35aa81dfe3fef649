// Package config loads runtime settings for the erpadmin client.
//
// Sources are layered, later ones overriding earlier ones:
// defaults -> environment (including a .env file when present) -> JSON file
// (-c/-config) -> command-line flags.
package config

import "time"

// Config holds runtime settings for the client.
type Config struct {
	// APIBaseURL is the root of the ERP backend REST API, e.g.
	// "https://erp.example.com/api".
	APIBaseURL string

	// DatabasePath is the sqlite file holding durable client state.
	DatabasePath string

	// SessionCheckInterval is how often the background watcher verifies the
	// session against the backend.
	SessionCheckInterval time.Duration

	// PerPage is the default page size for list screens.
	PerPage int

	// LegacyOrderEndpoint switches todo reordering to the old
	// POST /todos/order wire form.
	LegacyOrderEndpoint bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/api"
	c.DatabasePath = "erpadmin.db"
	c.SessionCheckInterval = 3 * time.Minute
	c.PerPage = 10
	c.LegacyOrderEndpoint = false
}

// LoadConfig constructs a Config from all sources.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
