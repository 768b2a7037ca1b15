// Package config handles configuration for the authority stub.
package config

import (
	"flag"
	"os"

	"github.com/dsavelev/remindsync/internal/flagx"
	"github.com/joho/godotenv"
)

// Config holds runtime settings for the authority.
type Config struct {
	// Addr is the bind address of the HTTP listener.
	Addr string
}

// LoadDefaults populates c with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
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

	if v := os.Getenv("REMINDSYNC_AUTHORITY_BIND"); v != "" {
		cfg.Addr = v
	}
}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   bind address of the HTTP listener
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a"})

	fs := flag.NewFlagSet("authority", flag.ContinueOnError)
	addr := fs.String("a", "", "bind address of the HTTP listener")

	if err := fs.Parse(args); err != nil {
		return
	}

	if *addr != "" {
		cfg.Addr = *addr
	}
}
