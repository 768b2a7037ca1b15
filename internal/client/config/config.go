package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the RemindSync client.
//
// Fields:
//   - AuthorityAddr: base URL of the remote authority.
//   - WorkerAddr: base URL of the delivery worker's gateway.
//   - DatabasePath: path of the local SQLite database.
//   - ProbeInterval: how often the client probes authority reachability
//     while offline.
type Config struct {
	AuthorityAddr string
	WorkerAddr    string
	DatabasePath  string
	ProbeInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.AuthorityAddr = "http://127.0.0.1:8080"
	c.WorkerAddr = "http://127.0.0.1:8090"
	c.DatabasePath = "remindsync.db"
	c.ProbeInterval = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment (including a .env file if present), a JSON file
// (if given) and command-line flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// parseEnv overlays Config with values from the process environment,
// loading a .env file first when one exists.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("REMINDSYNC_AUTHORITY_ADDR"); v != "" {
		cfg.AuthorityAddr = v
	}
	if v := os.Getenv("REMINDSYNC_WORKER_ADDR"); v != "" {
		cfg.WorkerAddr = v
	}
	if v := os.Getenv("REMINDSYNC_DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("REMINDSYNC_PROBE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ProbeInterval = d
		}
	}
}
