package config

import (
	"encoding/json"
	"os"

	"github.com/pavelgris/erpadmin/internal/flagx"
	"github.com/pavelgris/erpadmin/internal/timex"
)

// jsonConfig is the DTO for the JSON config file. timex.Duration lets the
// interval be written either as "3m" or as integer nanoseconds.
type jsonConfig struct {
	APIBaseURL           string         `json:"api_base_url"`
	DatabasePath         string         `json:"database_path"`
	SessionCheckInterval timex.Duration `json:"session_check_interval"`
	PerPage              int            `json:"per_page"`
	LegacyOrderEndpoint  *bool          `json:"legacy_order_endpoint"`
}

// parseJSON overlays Config with values from the JSON file named by the
// -c/-config flag. No flag, no file, no overlay.
func parseJSON(cfg *Config) {
	path := flagx.JSONConfigFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.SessionCheckInterval.Duration > 0 {
		cfg.SessionCheckInterval = jc.SessionCheckInterval.Duration
	}
	if jc.PerPage > 0 {
		cfg.PerPage = jc.PerPage
	}
	if jc.LegacyOrderEndpoint != nil {
		cfg.LegacyOrderEndpoint = *jc.LegacyOrderEndpoint
	}
}
