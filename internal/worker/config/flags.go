package config

import (
	"flag"
	"os"

	"github.com/dsavelev/remindsync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   bind address of the gateway listener
//	-u string   externally reachable base URL of the gateway
//	-r string   base URL of the remote authority
//	-o string   base URL of the static asset origin
//	-c string   root directory of the asset cache
//	-d string   path of the local SQLite database
//	-v string   worker build version
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-u", "-r", "-o", "-c", "-d", "-v"})

	fs := flag.NewFlagSet("worker", flag.ContinueOnError)

	addr := fs.String("a", "", "bind address of the gateway listener")
	base := fs.String("u", "", "externally reachable base URL of the gateway")
	authority := fs.String("r", "", "base URL of the remote authority")
	origin := fs.String("o", "", "base URL of the static asset origin")
	cacheDir := fs.String("c", "", "root directory of the asset cache")
	dbPath := fs.String("d", "", "path of the local SQLite database")
	version := fs.String("v", "", "worker build version")

	if err := fs.Parse(args); err != nil {
		return
	}

	if *addr != "" {
		cfg.Addr = *addr
	}
	if *base != "" {
		cfg.BaseURL = *base
	}
	if *authority != "" {
		cfg.AuthorityAddr = *authority
	}
	if *origin != "" {
		cfg.OriginAddr = *origin
	}
	if *cacheDir != "" {
		cfg.CacheDir = *cacheDir
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	if *version != "" {
		cfg.Version = *version
	}
}
