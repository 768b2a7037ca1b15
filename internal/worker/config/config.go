// Package config handles configuration for the delivery worker daemon.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the worker gateway.
//
// Fields:
//   - Addr: bind address of the gateway's HTTP listener.
//   - BaseURL: externally reachable address of the gateway, used to mint
//     push endpoints.
//   - AuthorityAddr: base URL of the remote authority. Requests addressed
//     to its host always pass through to the network.
//   - OriginAddr: upstream serving the application's static assets.
//   - AllowedOrigins: foreground origins accepted by CORS.
//   - CacheDir: root directory of the versioned asset cache.
//   - DatabasePath: path of the local SQLite database shared with the
//     client.
//   - Version: identifier of this worker build.
type Config struct {
	Addr           string
	BaseURL        string
	AuthorityAddr  string
	OriginAddr     string
	AllowedOrigins []string
	CacheDir       string
	DatabasePath   string
	Version        string
}

// LoadDefaults populates c with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8090"
	c.BaseURL = "http://127.0.0.1:8090"
	c.AuthorityAddr = "http://127.0.0.1:8080"
	c.OriginAddr = "http://127.0.0.1:8081"
	c.AllowedOrigins = []string{"http://127.0.0.1:8081"}
	c.CacheDir = "remindsync-cache"
	c.DatabasePath = "remindsync.db"
	c.Version = "v1"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment (including a .env file if present) and finally from
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("REMINDSYNC_WORKER_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("REMINDSYNC_WORKER_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("REMINDSYNC_AUTHORITY_ADDR"); v != "" {
		cfg.AuthorityAddr = v
	}
	if v := os.Getenv("REMINDSYNC_ORIGIN_ADDR"); v != "" {
		cfg.OriginAddr = v
	}
	if v := os.Getenv("REMINDSYNC_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("REMINDSYNC_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("REMINDSYNC_DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("REMINDSYNC_WORKER_VERSION"); v != "" {
		cfg.Version = v
	}
}
