package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables, loading a local .env
// file first when one exists. A missing .env is not an error.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("ERP_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("ERP_DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("ERP_SESSION_CHECK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SessionCheckInterval = d
		}
	}
	if v := os.Getenv("ERP_PER_PAGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PerPage = n
		}
	}
	if v := os.Getenv("ERP_LEGACY_ORDER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LegacyOrderEndpoint = b
		}
	}
}
