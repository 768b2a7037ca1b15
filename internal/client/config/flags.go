package config

import (
	"flag"
	"os"
	"time"

	"github.com/dsavelev/remindsync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the remote authority
//	-w string   base URL of the delivery worker gateway
//	-d string   path of the local database
//	-i int      offline probe interval in seconds
//
// The function filters os.Args to only the flags it knows about, using
// flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-w", "-d", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.AuthorityAddr, "a", cfg.AuthorityAddr, "base URL of the remote authority")
	fs.StringVar(&cfg.WorkerAddr, "w", cfg.WorkerAddr, "base URL of the delivery worker gateway")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")
	probeInterval := fs.Int("i", int(cfg.ProbeInterval.Seconds()), "offline probe interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ProbeInterval = time.Duration(*probeInterval) * time.Second
}
